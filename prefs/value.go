// This file is part of genesis.
//
// genesis is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// genesis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with genesis.  If not, see <https://www.gnu.org/licenses/>.

// Package prefs stores typed, disk-persisted preference values in a
// small "key :: value" file, one entry per registered value. Callers
// register a *Bool, *String, *Int or a custom *Generic against a Disk
// by name; Save then writes the entries in name order and Load applies
// the file's values to them.
package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// WarningBoilerPlate is written as a comment line above every saved
// prefs file.
const WarningBoilerPlate = "# automatically generated by genesis - do not edit by hand"

// Value is whatever a caller or the disk loader hands a preference: a
// native bool/int/float64, or the raw string read back from file.
type Value interface{}

// dirty is what a Disk can register: a current string form, and a way
// to accept a new Value.
type dirty interface {
	fmt.Stringer
	Set(v Value) error
}

// Bool is a persisted boolean preference.
type Bool struct {
	mu sync.Mutex
	v  bool
}

func (b *Bool) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.v {
		return "true"
	}
	return "false"
}

// Set accepts a bool, or a string parseable by strconv.ParseBool (an
// unparseable string is treated as false, matching the teacher's own
// permissive Bool.Set).
func (b *Bool) Set(v Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch t := v.(type) {
	case bool:
		b.v = t
	case string:
		parsed, _ := strconv.ParseBool(t)
		b.v = parsed
	default:
		return fmt.Errorf("prefs: cannot set Bool from %T", v)
	}
	return nil
}

// Get returns the current value.
func (b *Bool) Get() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.v
}

// String is a persisted string preference, optionally bounded to a
// maximum length.
type String struct {
	mu     sync.Mutex
	v      string
	maxLen int
}

func (s *String) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// SetMaxLen bounds future (and the current) value to n bytes; 0 means
// unbounded. Shrinking an already-set value crops it immediately.
func (s *String) SetMaxLen(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLen = n
	s.v = s.crop(s.v)
}

func (s *String) crop(v string) string {
	if s.maxLen > 0 && len(v) > s.maxLen {
		return v[:s.maxLen]
	}
	return v
}

// Set accepts a string, or anything fmt.Sprint can render.
func (s *String) Set(v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	str, ok := v.(string)
	if !ok {
		str = fmt.Sprint(v)
	}
	s.v = s.crop(str)
	return nil
}

// Int is a persisted integer preference.
type Int struct {
	mu sync.Mutex
	v  int
}

func (i *Int) String() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return strconv.Itoa(i.v)
}

// Set accepts an int, or a string parseable by strconv.Atoi. Any other
// type, or an unparseable string, is an error.
func (i *Int) Set(v Value) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	switch t := v.(type) {
	case int:
		i.v = t
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("prefs: cannot set Int from %q: %w", t, err)
		}
		i.v = parsed
	default:
		return fmt.Errorf("prefs: cannot set Int from %T", v)
	}
	return nil
}

// Get returns the current value.
func (i *Int) Get() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.v
}

// Float is a persisted floating-point preference. Unlike Bool/String/Int
// it accepts only a float64; a string is always rejected, matching the
// teacher's own Float.Set.
type Float struct {
	mu sync.Mutex
	v  float64
}

func (f *Float) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strconv.FormatFloat(f.v, 'g', -1, 64)
}

// Set accepts a float64 only.
func (f *Float) Set(v Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := v.(float64)
	if !ok {
		return fmt.Errorf("prefs: cannot set Float from %T", v)
	}
	f.v = t
	return nil
}

// Get returns the current value.
func (f *Float) Get() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v
}

// Generic adapts an arbitrary caller-owned value to the dirty
// interface via explicit set/get functions, for preferences that don't
// fit Bool/String/Int (for example a composite "WxH" display size).
type Generic struct {
	set func(Value) error
	get func() Value
}

// NewGeneric returns a Generic wrapping set/get.
func NewGeneric(set func(Value) error, get func() Value) *Generic {
	return &Generic{set: set, get: get}
}

func (g *Generic) String() string { return fmt.Sprint(g.get()) }

func (g *Generic) Set(v Value) error { return g.set(v) }
