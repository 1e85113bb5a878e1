// Package gameconf handles generic domain configuration: a Params map a
// caller fills in from a CLI flag, a config file, or a test fixture, and a
// typed accessor pair (GetOr / PopOr) domain constructors use to pull their
// own settings out of it without each domain hand-rolling its own flag
// parsing.
package gameconf

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Params is a flat string-keyed configuration bag, the kind a domain
// constructor accepts alongside its fixed Go arguments.
type Params map[string]string

// NewFromConfigString parses a comma-separated "key=value,key2=value2"
// string into Params. A key with no "=" is recorded with an empty value
// (interpreted as boolean true by GetOr/PopOr).
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		if part == "" {
			continue
		}
		subParts := strings.SplitN(part, "=", 2)
		if len(subParts) == 1 {
			params[subParts[0]] = ""
		} else {
			params[subParts[0]] = subParts[1]
		}
	}
	return params
}

// PopOr is GetOr followed by deleting key from params, so a domain
// constructor can assert (after parsing all the keys it understands) that
// whatever remains in params is unrecognized.
func PopOr[T bool | int | float32 | float64 | string](params Params, key string, defaultValue T) (T, error) {
	value, err := GetOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetOr parses params[key] as T if key is present, or returns defaultValue
// if it is not. For bool, a key present with no value is interpreted as
// true.
func GetOr[T bool | int | float32 | float64 | string](params Params, key string, defaultValue T) (T, error) {
	vAny := any(defaultValue)
	var zero T
	toT := func(v any) T { return v.(T) }

	switch vAny.(type) {
	case string:
		if value, exists := params[key]; exists {
			return toT(value), nil
		}
	case int:
		if value, exists := params[key]; exists && value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return zero, errors.Wrapf(err, "gameconf: failed to parse %s=%q as int", key, value)
			}
			return toT(parsed), nil
		}
	case float32:
		if value, exists := params[key]; exists && value != "" {
			parsed, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return zero, errors.Wrapf(err, "gameconf: failed to parse %s=%q as float32", key, value)
			}
			return toT(float32(parsed)), nil
		}
	case float64:
		if value, exists := params[key]; exists && value != "" {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return zero, errors.Wrapf(err, "gameconf: failed to parse %s=%q as float64", key, value)
			}
			return toT(parsed), nil
		}
	case bool:
		if value, exists := params[key]; exists {
			if value == "" || strings.EqualFold(value, "true") || value == "1" {
				return toT(true), nil
			}
			if strings.EqualFold(value, "false") || value == "0" {
				return toT(false), nil
			}
			return defaultValue, errors.Errorf("gameconf: failed to parse %s=%q as bool", key, value)
		}
	}
	return defaultValue, nil
}
