package handler

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Values is a read-only mapping of keys to one or more string values. Typed
// accessors select the first value of a key, and report absence instead of
// failing when the key is missing or the value can't be parsed.
//
// Keys are matched exactly first. Unless the Values are case-sensitive, a key
// is then matched ignoring case, and if several keys differ only by case, the
// first one in sorted order is selected.
type Values struct {
	m map[string][]string
	// folded maps lower cased keys to the key selected for them. It's nil for
	// case-sensitive Values.
	folded map[string]string
}

// NewValues returns Values over a copy of m, with keys matched ignoring case.
func NewValues(m map[string][]string) Values {
	return newValues(m, true)
}

func newValues(m map[string][]string, foldCase bool) Values {
	v := Values{m: make(map[string][]string, len(m))}
	for k, vals := range m {
		v.m[k] = slices.Clone(vals)
	}
	if foldCase {
		v.folded = make(map[string]string, len(m))
		for _, k := range v.Keys() {
			v.fold(k)
		}
	}

	return v
}

func (v Values) fold(key string) {
	lk := strings.ToLower(key)
	if cur, ok := v.folded[lk]; !ok || key < cur {
		v.folded[lk] = key
	}
}

func (v Values) lookup(key string) []string {
	if vals, ok := v.m[key]; ok {
		return vals
	}
	if k, ok := v.folded[strings.ToLower(key)]; ok {
		return v.m[k]
	}

	return nil
}

// add appends val to the values of key. It's only used while the Values are
// being built.
func (v Values) add(key, val string) {
	if _, ok := v.m[key]; !ok && v.folded != nil {
		v.fold(key)
	}
	v.m[key] = append(v.m[key], val)
}

// Has returns true if the key has at least one value.
func (v Values) Has(key string) bool {
	return len(v.lookup(key)) > 0
}

// Keys returns the sorted keys.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// Get returns the first value of the key.
func (v Values) Get(key string) (string, bool) {
	vals := v.lookup(key)
	if len(vals) == 0 {
		return "", false
	}

	return vals[0], true
}

// GetOr returns the first value of the key, or def if it's missing.
func (v Values) GetOr(key, def string) string {
	if s, ok := v.Get(key); ok {
		return s
	}

	return def
}

// GetAll returns all values of the key.
func (v Values) GetAll(key string) []string {
	return slices.Clone(v.lookup(key))
}

// Int returns the first value of the key parsed as an int.
func (v Values) Int(key string) (int, bool) {
	s, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}

	return i, true
}

// IntOr returns the first value of the key parsed as an int, or def.
func (v Values) IntOr(key string, def int) int {
	if i, ok := v.Int(key); ok {
		return i
	}

	return def
}

// Ints returns all values of the key that can be parsed as an int.
func (v Values) Ints(key string) []int {
	vals := v.lookup(key)
	ints := make([]int, 0, len(vals))
	for _, s := range vals {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			ints = append(ints, i)
		}
	}

	return ints
}

// Int64 returns the first value of the key parsed as an int64.
func (v Values) Int64(key string) (int64, bool) {
	s, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}

	return i, true
}

// Float64 returns the first value of the key parsed as a float64.
func (v Values) Float64(key string) (float64, bool) {
	s, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// Bool returns the first value of the key parsed as a bool. In addition to the
// values accepted by strconv.ParseBool, "on", "yes", "off" and "no" are
// recognized, since browsers submit checkboxes as "on".
func (v Values) Bool(key string) (bool, bool) {
	s, ok := v.Get(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, true
	case "off", "no":
		return false, true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}

	return b, true
}

// BoolOr returns the first value of the key parsed as a bool, or def.
func (v Values) BoolOr(key string, def bool) bool {
	if b, ok := v.Bool(key); ok {
		return b
	}

	return def
}

// Time returns the first value of the key parsed as an RFC 3339 timestamp.
func (v Values) Time(key string) (time.Time, bool) {
	s, ok := v.Get(key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Duration returns the first value of the key parsed with time.ParseDuration.
func (v Values) Duration(key string) (time.Duration, bool) {
	s, ok := v.Get(key)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}

	return d, true
}
