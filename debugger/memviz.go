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

package debugger

import (
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/retrobus/genesis/errors"
)

// Graph renders v (typically *hardware/bus.Map or *hardware/cartridge.
// Cartridge) as a Graphviz `.dot` file at path, using
// github.com/bradleyjkemp/memviz — a teacher dependency with no use in
// the spec's required command set, wired in here as a supplementary
// debugging aid for working out overlapping memory-map windows (spec.md
// §9 invites, rather than forbids, additional commands).
func Graph(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf(errors.CommandError, "debugger: %v", err)
	}
	defer f.Close()
	memviz.Map(f, v)
	return nil
}

// cmdGraph implements the `g <path>` command. GraphTarget, set by the
// caller wiring up the Debugger, names what gets rendered; nil leaves
// the command unavailable.
func (d *Debugger) cmdGraph(rest string) error {
	if d.GraphTarget == nil {
		return errors.Errorf(errors.CommandError, "debugger: no graph target attached")
	}
	if rest == "" {
		rest = "genesis-memmap.dot"
	}
	return Graph(rest, d.GraphTarget)
}
