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

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrobus/genesis/paths"
)

func TestResourcePath(t *testing.T) {
	// $HOME's availability varies by environment; ResourcePath degrades
	// gracefully when it's unset, so build the expected prefix the
	// same way rather than asserting a specific value.
	home, _ := os.UserHomeDir()

	want := func(rest string) string {
		if home == "" {
			return rest
		}
		return filepath.Join(home, rest)
	}

	pth, err := paths.ResourcePath("foo/bar", "baz")
	require.NoError(t, err)
	require.Equal(t, want(filepath.Join(".genesis", "foo/bar", "baz")), pth)

	pth, err = paths.ResourcePath("foo/bar", "")
	require.NoError(t, err)
	require.Equal(t, want(filepath.Join(".genesis", "foo/bar")), pth)

	pth, err = paths.ResourcePath("", "baz")
	require.NoError(t, err)
	require.Equal(t, want(filepath.Join(".genesis", "baz")), pth)

	pth, err = paths.ResourcePath("", "")
	require.NoError(t, err)
	require.Equal(t, want(".genesis"), pth)
}
