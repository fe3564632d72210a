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

// Package cartridgeloader turns a ROM file on disk into a flat 68k
// image kept in big-endian byte order (the bus assembles words
// big-endian, so no host byte swap is applied), accepting either a raw
// big-endian binary or an SMD-interleaved file. This mirrors the
// teacher's cartridgeloader package shape (a Loader that fingerprints
// then normalises a file into the emulator's internal ROM
// representation) even though the two formats it recognises are unique
// to this machine.
package cartridgeloader

import (
	"io"
	"os"

	"github.com/retrobus/genesis/errors"
)

const (
	maxROMSize  = 4 * 1024 * 1024
	smdHeaderSize = 512
	smdBlockSize  = 16 * 1024
)

// Load reads path and returns a flat 68k ROM image in big-endian byte
// order.
func Load(path string) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf(errors.ROMFileError, "cartridgeloader: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Errorf(errors.ROMFileError, "cartridgeloader: %v", err)
	}

	if isSMD(data) {
		data, err = deinterleaveSMD(data)
		if err != nil {
			return nil, err
		}
	}

	if len(data) > maxROMSize {
		return nil, errors.Errorf(errors.ROMSizeInvalid, "cartridgeloader: ROM image %d bytes exceeds 4MiB", len(data))
	}

	return data, nil
}

// isSMD recognises the SMD header signature: byte[1]==0x03,
// byte[8]==0xAA, byte[9]==0xBB, bytes[3..7]==0.
func isSMD(data []uint8) bool {
	if len(data) < smdHeaderSize {
		return false
	}
	h := data[:smdHeaderSize]
	if h[1] != 0x03 || h[8] != 0xAA || h[9] != 0xBB {
		return false
	}
	for i := 3; i <= 7; i++ {
		if h[i] != 0 {
			return false
		}
	}
	return true
}

// deinterleaveSMD de-interleaves an SMD file's 16KiB blocks into a flat
// big-endian 68k image: out[2i] = block[0x2000+i], out[2i+1] = block[i].
// A split SMD ROM (header[2] != 0, meaning further files continue the
// image) is rejected, per spec.md §6.
func deinterleaveSMD(data []uint8) ([]uint8, error) {
	if data[2] != 0 {
		return nil, errors.Errorf(errors.SMDSplitROM, "cartridgeloader: split SMD ROMs are not supported")
	}

	body := data[smdHeaderSize:]
	numBlocks := len(body) / smdBlockSize
	out := make([]uint8, numBlocks*smdBlockSize)

	for b := 0; b < numBlocks; b++ {
		block := body[b*smdBlockSize : (b+1)*smdBlockSize]
		outBlock := out[b*smdBlockSize : (b+1)*smdBlockSize]
		half := smdBlockSize / 2
		for i := 0; i < half; i++ {
			outBlock[2*i] = block[half+i]
			outBlock[2*i+1] = block[i]
		}
	}
	return out, nil
}
