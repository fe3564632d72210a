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

package prefs_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrobus/genesis/prefs"
)

func TestBoolSet(t *testing.T) {
	var b prefs.Bool
	require.NoError(t, b.Set(true))
	require.Equal(t, "true", b.String())

	require.NoError(t, b.Set("false"))
	require.Equal(t, "false", b.String())

	// an unparseable string is treated as false, not an error.
	require.NoError(t, b.Set("not-a-bool"))
	require.Equal(t, "false", b.String())

	require.Error(t, b.Set(1))
}

func TestStringMaxLen(t *testing.T) {
	var s prefs.String
	require.NoError(t, s.Set("123456789"))
	require.Equal(t, "123456789", s.String())

	s.SetMaxLen(5)
	require.Equal(t, "12345", s.String())

	s.SetMaxLen(0)
	require.Equal(t, "12345", s.String())

	s.SetMaxLen(3)
	require.NoError(t, s.Set("abcdefghi"))
	require.Equal(t, "abc", s.String())
}

func TestIntSet(t *testing.T) {
	var i prefs.Int
	require.NoError(t, i.Set(10))
	require.Equal(t, "10", i.String())

	require.NoError(t, i.Set("99"))
	require.Equal(t, "99", i.String())

	require.Error(t, i.Set("---"))
	require.Error(t, i.Set(1.0))
}

func TestFloatSet(t *testing.T) {
	var f prefs.Float
	require.Error(t, f.Set("bar"))
	require.NoError(t, f.Set(1.0))
	require.Equal(t, "1", f.String())
	require.NoError(t, f.Set(-3.0))
	require.Equal(t, float64(-3), f.Get())
}

func TestGenericRoundTrip(t *testing.T) {
	w, h := 0, 0
	g := prefs.NewGeneric(
		func(v prefs.Value) error {
			_, err := fmt.Sscanf(v.(string), "%d,%d", &w, &h)
			return err
		},
		func() prefs.Value { return fmt.Sprintf("%d,%d", w, h) },
	)

	w, h = 1, 2
	require.Equal(t, "1,2", g.String())

	require.NoError(t, g.Set("3,4"))
	require.Equal(t, 3, w)
	require.Equal(t, 4, h)
}
