package gambit

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/aicenter/gtlib2/pkg/efgdomain"
)

// parsedKind tags what a parsedNode represents, mirroring the exporter's
// three line shapes ("c"/"p"/"t") one-for-one.
type parsedKind uint8

const (
	parsedChance parsedKind = iota
	parsedPlayer
	parsedTerminal
)

// parsedNode is one line of an EFG 2 R file, with its children attached by
// indentation nesting. It is the "pre-expanded tree" SPEC_FULL.md §4.7
// promises: ReadEFG2R builds one of these per line, then wraps the whole
// tree in an efgdomain.Domain that replays it.
type parsedNode struct {
	kind         parsedKind
	player       efgdomain.Player
	actionLabels []string
	chanceProbs  []float64
	payoffs      [efgdomain.NumPlayers]float64
	children     []*parsedNode
}

var gambitToken = regexp.MustCompile(`"[^"]*"|[{}]|[^\s{}]+`)

// ReadEFG2R parses the EFG 2 R dialect Export writes -- chance/player/
// terminal lines nested by leading-space indentation -- and returns a
// Domain backed by the parsed tree, so efg.Root(domain) reconstructs a tree
// isomorphic to the one that was exported. It accepts exactly the subset of
// Gambit's format this package's own Export produces; it does not aim to be
// a general Gambit-file parser.
func ReadEFG2R(r io.Reader) (efgdomain.Domain, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !scanner.Scan() {
		return nil, errors.New("gambit: empty input, expected an EFG 2 R header line")
	}
	header := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(header, "EFG 2 R") {
		return nil, errors.Errorf("gambit: unsupported header %q, expected \"EFG 2 R ...\"", header)
	}

	type frame struct {
		depth int
		node  *parsedNode
	}
	var stack []frame
	var root *parsedNode
	maxDepth := 0

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		depth := leadingSpaces(raw)
		if depth > maxDepth {
			maxDepth = depth
		}
		node, err := parseLine(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "gambit: line %d", lineNo)
		}

		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			if root != nil {
				return nil, errors.Errorf("gambit: line %d: second root-depth node, tree must have one root", lineNo)
			}
			root = node
		} else {
			parent := stack[len(stack)-1].node
			parent.children = append(parent.children, node)
		}
		stack = append(stack, frame{depth: depth, node: node})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "gambit: reading input")
	}
	if root == nil {
		return nil, errors.New("gambit: no tree nodes found after the header")
	}

	if err := validate(root); err != nil {
		return nil, err
	}

	return &importedDomain{root: root, maxDepth: maxDepth, maxAbsUtility: maxAbsUtility(root)}, nil
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

func parseLine(line string) (*parsedNode, error) {
	tokens := gambitToken.FindAllString(strings.TrimLeft(line, " "), -1)
	if len(tokens) == 0 {
		return nil, errors.New("empty node line")
	}

	switch tokens[0] {
	case "c":
		labels, probs, err := parseChanceBody(tokens)
		if err != nil {
			return nil, err
		}
		return &parsedNode{kind: parsedChance, actionLabels: labels, chanceProbs: probs}, nil

	case "p":
		if len(tokens) < 3 {
			return nil, errors.Errorf("malformed player line %q", line)
		}
		playerOneBased, err := strconv.Atoi(tokens[2])
		if err != nil {
			return nil, errors.Wrapf(err, "malformed player index in %q", line)
		}
		labels, err := parseBracedLabels(tokens)
		if err != nil {
			return nil, err
		}
		return &parsedNode{
			kind:         parsedPlayer,
			player:       efgdomain.Player(playerOneBased - 1),
			actionLabels: labels,
		}, nil

	case "t":
		payoffs, err := parseTerminalPayoffs(tokens)
		if err != nil {
			return nil, err
		}
		return &parsedNode{kind: parsedTerminal, payoffs: payoffs}, nil

	default:
		return nil, errors.Errorf("unrecognized line kind %q", tokens[0])
	}
}

func braceSpan(tokens []string) (int, int, error) {
	open := -1
	for i, tok := range tokens {
		if tok == "{" {
			open = i
			break
		}
	}
	if open < 0 {
		return 0, 0, errors.New("missing opening brace")
	}
	for i := open + 1; i < len(tokens); i++ {
		if tokens[i] == "}" {
			return open, i, nil
		}
	}
	return 0, 0, errors.New("missing closing brace")
}

// parseChanceBody reads the "0" 0.2 "1" 0.3 ... label/probability pairs a
// chance line's brace body carries, in child order.
func parseChanceBody(tokens []string) ([]string, []float64, error) {
	open, close, err := braceSpan(tokens)
	if err != nil {
		return nil, nil, err
	}
	body := tokens[open+1 : close]
	if len(body)%2 != 0 {
		return nil, nil, errors.New("chance body must be label/probability pairs")
	}
	labels := make([]string, 0, len(body)/2)
	probs := make([]float64, 0, len(body)/2)
	for i := 0; i < len(body); i += 2 {
		labels = append(labels, unquote(body[i]))
		p, err := strconv.ParseFloat(body[i+1], 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "malformed chance probability %q", body[i+1])
		}
		probs = append(probs, p)
	}
	return labels, probs, nil
}

func parseBracedLabels(tokens []string) ([]string, error) {
	open, close, err := braceSpan(tokens)
	if err != nil {
		return nil, err
	}
	body := tokens[open+1 : close]
	labels := make([]string, len(body))
	for i, tok := range body {
		labels[i] = unquote(tok)
	}
	return labels, nil
}

func parseTerminalPayoffs(tokens []string) ([efgdomain.NumPlayers]float64, error) {
	var payoffs [efgdomain.NumPlayers]float64
	open, close, err := braceSpan(tokens)
	if err != nil {
		return payoffs, err
	}
	body := tokens[open+1 : close]
	if len(body) != efgdomain.NumPlayers {
		return payoffs, errors.Errorf("terminal payoff body has %d entries, want %d", len(body), efgdomain.NumPlayers)
	}
	for i, tok := range body {
		v, err := strconv.ParseFloat(strings.TrimSuffix(tok, ","), 64)
		if err != nil {
			return payoffs, errors.Wrapf(err, "malformed terminal payoff %q", tok)
		}
		payoffs[i] = v
	}
	return payoffs, nil
}

func unquote(tok string) string {
	return strings.Trim(tok, "\"")
}

// validate checks the shape invariants the importedState below assumes:
// every chance/player node's children count matches its branch count, and
// every leaf is a terminal.
func validate(n *parsedNode) error {
	switch n.kind {
	case parsedChance:
		if len(n.children) != len(n.chanceProbs) {
			return errors.Errorf("gambit: chance node has %d children but %d probabilities", len(n.children), len(n.chanceProbs))
		}
	case parsedPlayer:
		if len(n.children) != len(n.actionLabels) {
			return errors.Errorf("gambit: player node has %d children but %d actions", len(n.children), len(n.actionLabels))
		}
	case parsedTerminal:
		if len(n.children) != 0 {
			return errors.New("gambit: terminal node must not have children")
		}
		return nil
	}
	for _, c := range n.children {
		if err := validate(c); err != nil {
			return err
		}
	}
	return nil
}

func maxAbsUtility(n *parsedNode) float64 {
	best := 0.0
	if n.kind == parsedTerminal {
		for _, u := range n.payoffs {
			if abs := u; abs < 0 {
				abs = -abs
				if abs > best {
					best = abs
				}
			} else if abs > best {
				best = abs
			}
		}
	}
	for _, c := range n.children {
		if m := maxAbsUtility(c); m > best {
			best = m
		}
	}
	return best
}

// importedDomain replays a parsedNode tree as an efgdomain.Domain. It keeps
// the tree shape, the action labels, the chance probabilities and the
// payoffs; the information-set id on each "p" line is not read, and every
// edge carries efgdomain.NoObservation for both players and on the public
// channel. A reimported node's AOH therefore records only that player's own
// actions along the path, so information sets the original domain
// separated by an observation (a dealt card, a visible bet) are merged, and
// public states differ only by depth.
type importedDomain struct {
	root          *parsedNode
	maxDepth      int
	maxAbsUtility float64
}

func (d *importedDomain) RootOutcomeDistribution() efgdomain.OutcomeDistribution {
	return efgdomain.OutcomeDistribution{{
		Outcome: efgdomain.Outcome{
			NextState:           &importedState{node: d.root},
			PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{efgdomain.NoObservation, efgdomain.NoObservation},
			PublicObservation:   efgdomain.NoObservation,
			Rewards:             terminalRewards(d.root),
		},
		Probability: 1.0,
	}}
}

func (d *importedDomain) MaxStateDepth() int     { return d.maxDepth }
func (d *importedDomain) NumPlayers() int        { return efgdomain.NumPlayers }
func (d *importedDomain) IsZeroSum() bool        { return false }
func (d *importedDomain) MaxAbsUtility() float64 { return d.maxAbsUtility }
func (d *importedDomain) NoAction() efgdomain.Action           { return efgdomain.NoAction }
func (d *importedDomain) NoObservation() efgdomain.Observation { return efgdomain.NoObservation }
func (d *importedDomain) Info() string                         { return "gambit-imported" }

// importedState wraps one parsedNode so it satisfies efgdomain.State; the
// tree it walks is static (parsed once up front), so every method reads
// directly off the parsedNode rather than computing anything.
type importedState struct {
	node *parsedNode
}

func (s *importedState) ActingPlayers() []efgdomain.Player {
	if s.node.kind == parsedPlayer {
		return []efgdomain.Player{s.node.player}
	}
	return nil
}

func (s *importedState) IsTerminal() bool { return s.node.kind == parsedTerminal }

func (s *importedState) AvailableActions(efgdomain.Player) []efgdomain.Action {
	if s.node.kind != parsedPlayer {
		return nil
	}
	actions := make([]efgdomain.Action, len(s.node.actionLabels))
	for i, label := range s.node.actionLabels {
		actions[i] = efgdomain.Action{Id: efgdomain.ID(i), Label: label}
	}
	return actions
}

func (s *importedState) CountAvailableActions(player efgdomain.Player) int {
	return len(s.AvailableActions(player))
}

func (s *importedState) ActionByID(player efgdomain.Player, id efgdomain.ID) efgdomain.Action {
	for _, a := range s.AvailableActions(player) {
		if a.Id == id {
			return a
		}
	}
	return efgdomain.NoAction
}

// PerformActions is only ever called by package efg with the distribution
// node's own acting player filled in (chance nodes are driven with the
// no-op vector, per efgdomain.State's contract) -- s.node.kind tells us
// which case we are in without consulting actions at all except to pick the
// player's chosen child.
func (s *importedState) PerformActions(actions [efgdomain.NumPlayers]efgdomain.Action) efgdomain.OutcomeDistribution {
	switch s.node.kind {
	case parsedChance:
		dist := make(efgdomain.OutcomeDistribution, len(s.node.children))
		for i, child := range s.node.children {
			dist[i] = efgdomain.OutcomeAtom{
				Outcome: efgdomain.Outcome{
					NextState:           &importedState{node: child},
					PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{efgdomain.NoObservation, efgdomain.NoObservation},
					PublicObservation:   efgdomain.NoObservation,
					Rewards:             terminalRewards(child),
				},
				Probability: s.node.chanceProbs[i],
			}
		}
		return dist

	case parsedPlayer:
		child := s.node.children[actions[s.node.player].Id]
		return efgdomain.OutcomeDistribution{{
			Outcome: efgdomain.Outcome{
				NextState:           &importedState{node: child},
				PrivateObservations: [efgdomain.NumPlayers]efgdomain.Observation{efgdomain.NoObservation, efgdomain.NoObservation},
				PublicObservation:   efgdomain.NoObservation,
				Rewards:             terminalRewards(child),
			},
			Probability: 1.0,
		}}

	default:
		return nil
	}
}

func terminalRewards(n *parsedNode) [efgdomain.NumPlayers]float64 {
	if n.kind == parsedTerminal {
		return n.payoffs
	}
	return [efgdomain.NumPlayers]float64{}
}
