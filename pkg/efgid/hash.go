// Package efgid implements the hashable identity keys of spec.md §4.3: AOH
// (information-set key), PublicState, and ActionSequence. All three are
// value types -- structural equality, and a hash derived from the raw bytes
// of their id sequence using a fixed-seed, non-cryptographic hash, so that
// identity is stable and byte-precise across process runs.
package efgid

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// fixedSeed is mixed into every hash computed by this package. It has no
// significance beyond being constant across runs and processes -- the point
// is reproducibility, not secrecy.
const fixedSeed uint64 = 0x67746c6962325f30 // "gtlib2_0" as bytes

// FixedSeedHash hashes a sequence of uint32 identifiers (action ids,
// observation ids, or the two zipped together for an AOH) into a single
// uint64, deterministically across runs. It is the one hash primitive AOH,
// PublicState, and ActionSequence all build on.
func FixedSeedHash(ids []uint32) uint64 {
	buf := make([]byte, 8+4*len(ids))
	binary.LittleEndian.PutUint64(buf[:8], fixedSeed)
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[8+4*i:8+4*i+4], id)
	}
	return xxhash.Sum64(buf)
}
