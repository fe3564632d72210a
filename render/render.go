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

// Package render defines the frame scheduler's only suspension point:
// the end-of-frame wait for the host's display/event pump. The actual
// windowing, framebuffer presentation, and audio-device output this
// wait would sit behind (SDL2, OpenGL, an mp3/wav decoder — the
// teacher's own heavier dependency set) are the out-of-scope rendering
// pipeline named in spec.md §1; this package only defines the
// boundary the frame scheduler calls across.
package render

import "time"

// Waiter is the render layer's contract with the frame scheduler:
// block until the next frame may begin, and report whether the host
// asked to drop into the debugger.
type Waiter interface {
	// WaitFrame blocks until it is time to start the next frame and
	// returns true if a debugger break was requested while waiting.
	WaitFrame() (breakRequested bool)
}

// Headless is a Waiter that never blocks and never requests a break,
// used when the -v flag (spec.md §6) disables rendering entirely.
type Headless struct{}

func (Headless) WaitFrame() bool { return false }

// Ticker is a Waiter that paces frames to a fixed wall-clock rate;
// cmd/genesis uses it whenever it is not headless, with or without the
// -f flag (spec.md §6). The actual display is out of scope, so there is no
// vsync signal to wait on here; a time.Ticker is the stdlib's own
// analogue of one and needs no third-party scheduling library.
type Ticker struct {
	t *time.Ticker
}

// NewTicker returns a Ticker pacing at hz frames per second.
func NewTicker(hz float64) *Ticker {
	return &Ticker{t: time.NewTicker(time.Duration(float64(time.Second) / hz))}
}

// WaitFrame blocks until the next tick. It never requests a break: with
// no display attached there is no host input to request one from.
func (w *Ticker) WaitFrame() bool {
	<-w.t.C
	return false
}

// Stop releases the underlying time.Ticker.
func (w *Ticker) Stop() { w.t.Stop() }
