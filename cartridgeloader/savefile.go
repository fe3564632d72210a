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

package cartridgeloader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// SavePath derives the on-disk save file path from the ROM path it was
// loaded from, per spec.md §6: the ROM's own extension replaced with
// `.sram`, living alongside it rather than under the resource directory
// paths.ResourcePath manages (a save file travels with its ROM, not
// with the user's installation of genesis).
func SavePath(romPath string) string {
	ext := filepath.Ext(romPath)
	return strings.TrimSuffix(romPath, ext) + ".sram"
}

// LoadSave reads an existing save file. A missing file is not an error:
// it returns (nil, nil), the ordinary state of a cartridge played for
// the first time.
func LoadSave(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// WriteSave writes data to path, creating or truncating it. The caller
// (cmd/genesis) defers this until shutdown, matching spec.md §6's
// atexit persistence.
func WriteSave(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
