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

// Package paths resolves file paths under the user's resource
// directory, a dot-directory living alongside the user's home.
package paths

import (
	"os"
	"path/filepath"
)

// dotDir is the directory genesis stores its preferences and other
// resources under, relative to the user's home directory.
const dotDir = ".genesis"

// ResourcePath joins the user's resource directory with subPath and
// file, dropping any empty segment. The user's home directory is
// looked up via os.UserHomeDir; if that fails (for example because
// $HOME is unset) resolution degrades gracefully to a path relative to
// the resource dot-directory itself, rather than failing outright.
func ResourcePath(subPath, file string) (string, error) {
	home, _ := os.UserHomeDir()

	parts := make([]string, 0, 4)
	if home != "" {
		parts = append(parts, home)
	}
	parts = append(parts, dotDir)
	if subPath != "" {
		parts = append(parts, subPath)
	}
	if file != "" {
		parts = append(parts, file)
	}

	return filepath.Join(parts...), nil
}
