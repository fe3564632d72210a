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

// Package cartridge reads a ROM header, optionally overlays a database
// record, and produces a fully populated memory-map chunk set plus a
// save-storage descriptor — raw SRAM (BOTH/ODD/EVEN bus width) or an
// I2C EEPROM with per-pin bit mapping.
package cartridge

import (
	"github.com/retrobus/genesis/database"
	"github.com/retrobus/genesis/errors"
	"github.com/retrobus/genesis/hardware/bus"
	"github.com/retrobus/genesis/hardware/eeprom"
)

// SaveType names the kind of save storage a cartridge exposes.
type SaveType int

const (
	SaveNone SaveType = iota
	SaveBoth
	SaveOdd
	SaveEven
	SaveI2C
)

// bankRegisterStart/End is the banked-mapper's bank-select port, per
// spec.md §6.
const (
	bankRegisterStart = 0xA13000
	bankRegisterEnd   = 0xA13100

	romWindowEnd   = 0x400000
	bankedWindowStart = 0x200000
)

// Cartridge is a configured cartridge: its ROM image, memory-map chunks,
// and save-storage device.
type Cartridge struct {
	Name    string
	Regions Region
	ROM     []byte

	Chunks []*bus.Chunk

	SaveType   SaveType
	SaveBuffer []byte
	SaveMask   uint32
	EEPROM     *eeprom.Device
	eepromMap  *database.MapEntry

	// bankSelected is the Sega banked mapper's window-2 selector: false
	// selects the ROM mirror, true selects SRAM. It is shared (by
	// pointer) with the bus.Chunk of KindBanked so the dispatcher's
	// tagged-variant switch can read it without a type assertion.
	bankSelected bool
	bankSynth    bool // true if we synthesised the standard banked mapper (as opposed to a DB-declared map or a disjoint save window)
}

// Configure builds a Cartridge from a raw ROM image and an optional
// database. The static base map (VDP/IO/work-RAM windows) belongs to
// the caller (the top-level machine); Configure only ever produces ROM-
// and save-related chunks.
func Configure(rom []byte, db *database.DB) (*Cartridge, error) {
	if len(rom) == 0 {
		return nil, errors.Errorf(errors.ROMSizeInvalid, "cartridge: empty ROM image")
	}
	if len(rom) > 4*1024*1024 {
		return nil, errors.Errorf(errors.ROMSizeInvalid, "cartridge: ROM image %d bytes exceeds 4MiB", len(rom))
	}

	c := &Cartridge{
		ROM:     rom,
		Name:    ParseTitle(rom),
		Regions: ParseRegions(rom),
	}

	productID := ParseProductID(rom)

	var entry *database.Entry
	if db != nil {
		if e, ok := db.Lookup(productID); ok {
			entry = e
		}
	}
	if entry != nil && entry.Name != "" {
		c.Name = entry.Name
	}

	switch {
	case entry != nil && entry.HasExplicitMap():
		if err := c.configureFromDatabase(entry); err != nil {
			return nil, err
		}
	case hasSaveDeclaration(rom):
		if err := c.configureFromHeader(rom); err != nil {
			return nil, err
		}
	default:
		c.configurePlainROM(rom)
	}

	return c, nil
}

func (c *Cartridge) configurePlainROM(rom []byte) {
	c.Chunks = append(c.Chunks, &bus.Chunk{
		Start: 0, End: romWindowEnd, Mask: romMask(rom),
		Flags: bus.FlagRead | bus.FlagCode,
		Kind:  bus.KindBuffer,
		Buffer: rom,
	})
	c.SaveType = SaveNone
}

// configureFromDatabase builds chunks from an explicit database map,
// per spec.md §4.3 step 2.
func (c *Cartridge) configureFromDatabase(e *database.Entry) error {
	for i := range e.Map {
		m := &e.Map[i]
		switch m.Device {
		case database.DeviceROM:
			c.Chunks = append(c.Chunks, &bus.Chunk{
				Start: m.Start, End: m.Last + 1, Mask: romMask(c.ROM),
				Flags: bus.FlagRead | bus.FlagCode,
				Kind:  bus.KindBuffer,
				Buffer: c.ROM,
			})
		case database.DeviceSRAM:
			size := m.Last - m.Start + 1
			if e.SRAM != nil && e.SRAM.Size > 0 {
				size = e.SRAM.Size
			}
			c.setupSRAM(size, m.SRAMBus)
			flags := bus.FlagRead | bus.FlagWrite
			switch m.SRAMBus {
			case "odd":
				flags |= bus.FlagOnlyOdd
			case "even":
				flags |= bus.FlagOnlyEven
			}
			c.Chunks = append(c.Chunks, &bus.Chunk{
				Start: m.Start, End: m.Last + 1, Mask: c.SaveMask,
				Flags: flags,
				Kind:  bus.KindBuffer,
				Buffer: c.SaveBuffer,
			})
		case database.DeviceEEPROM:
			size := e.EEPROM.Size
			c.setupEEPROM(size)
			mm := *m
			c.eepromMap = &mm
			c.Chunks = append(c.Chunks, c.eepromChunk(m.Start, m.Last+1))
		}
	}
	// ROM always backs the rest of the address space not claimed by an
	// explicit map entry. It goes after the explicit entries, since
	// dispatch picks the first chunk containing an address.
	if len(e.Map) == 0 || e.Map[0].Start != 0 {
		c.Chunks = append(c.Chunks, &bus.Chunk{
			Start: 0, End: romWindowEnd, Mask: romMask(c.ROM),
			Flags: bus.FlagRead | bus.FlagCode,
			Kind:  bus.KindBuffer,
			Buffer: c.ROM,
		})
	}
	return nil
}

// configureFromHeader implements spec.md §4.3 step 3: the header
// declares a save region via the "RA" signature; either it sits beyond
// the ROM in its own window, or the standard Sega banked mapper is
// synthesised.
func (c *Cartridge) configureFromHeader(rom []byte) error {
	end := romEnd(rom)
	start := saveStart(rom)
	stop := saveEnd(rom)
	if stop <= start {
		return errors.Errorf(errors.DatabaseFieldInvalid, "cartridge: header declares empty save window [%#x,%#x)", start, stop)
	}
	size := stop - start + 1
	c.setupSRAM(size, "")

	if start >= end {
		// Save region lives in its own window, ROM is a flat buffer
		// ending where that window starts.
		romTop := uint32(romWindowEnd)
		if start < romTop {
			romTop = start
		}
		c.Chunks = append(c.Chunks,
			&bus.Chunk{Start: 0, End: romTop, Mask: romMask(rom), Flags: bus.FlagRead | bus.FlagCode, Kind: bus.KindBuffer, Buffer: rom},
			&bus.Chunk{Start: start, End: stop + 1, Mask: c.SaveMask, Flags: bus.FlagRead | bus.FlagWrite, Kind: bus.KindBuffer, Buffer: c.SaveBuffer},
		)
		return nil
	}

	// Standard Sega banked mapper: window 0x000000-0x1FFFFF is always
	// ROM; window 0x200000-0x3FFFFF is ROM-mirror-or-SRAM behind the
	// bank register at 0xA13000, selected by bit 0.
	c.bankSynth = true
	c.Chunks = append(c.Chunks,
		&bus.Chunk{Start: 0, End: bankedWindowStart, Mask: romMask(rom), Flags: bus.FlagRead | bus.FlagCode, Kind: bus.KindBuffer, Buffer: rom},
		c.bankRegisterChunk(),
		&bus.Chunk{
			Start: bankedWindowStart, End: romWindowEnd, Mask: c.bankedMask(rom),
			Flags:        bus.FlagRead | bus.FlagWrite,
			Kind:         bus.KindBanked,
			Selected:     &c.bankSelected,
			BankedBuffer: c.SaveBuffer,
			Read8: func(addr uint32) (uint8, error) {
				o := int(bankedWindowStart) + int(addr)
				if o >= len(rom) {
					return 0xFF, nil
				}
				return rom[o], nil
			},
			Read16: func(addr uint32) (uint16, error) {
				o := int(bankedWindowStart) + int(addr)
				if o+1 >= len(rom) {
					return 0xFFFF, nil
				}
				return uint16(rom[o])<<8 | uint16(rom[o+1]), nil
			},
			Write8:  func(uint32, uint8) error { return nil },
			Write16: func(uint32, uint16) error { return nil },
		},
	)
	return nil
}

func (c *Cartridge) bankedMask(rom []byte) uint32 {
	// The banked window addresses directly into SaveBuffer when
	// selected; SaveMask already accounts for its size.
	return c.SaveMask
}

func (c *Cartridge) setupSRAM(size uint32, busWidth string) {
	c.SaveMask = saveMask(size)

	// The mask above still spans the whole address window (offset() in
	// hardware/bus needs that to decode the chunk), but an ODD/EVEN
	// cartridge only ever lands on every other byte of it, so the
	// backing store itself is half the window.
	backing := c.SaveMask + 1
	switch busWidth {
	case "odd":
		c.SaveType = SaveOdd
		backing /= 2
	case "even":
		c.SaveType = SaveEven
		backing /= 2
	default:
		c.SaveType = SaveBoth
	}
	c.SaveBuffer = make([]byte, backing)
}

func (c *Cartridge) setupEEPROM(size uint32) {
	c.SaveBuffer = make([]byte, size)
	c.EEPROM = eeprom.New(c.SaveBuffer)
	c.SaveType = SaveI2C
}

// WriteBankRegisterByte handles a byte write to 0xA13000-0xA130FF. Byte writes
// only take effect with the low bit of the written byte set (matching
// BlastEm's own mapper quirk of ignoring writes whose data byte has bit
// 0 clear when written as a byte); word writes always take effect.
func (c *Cartridge) WriteBankRegisterByte(value uint8) {
	if value&1 == 1 {
		c.bankSelected = value&1 != 0
	}
}

// WriteBankRegisterWord handles a 16-bit write to the bank register: any
// alignment, the low bit of the value selects the window.
func (c *Cartridge) WriteBankRegisterWord(value uint16) {
	c.bankSelected = value&1 != 0
}

// bankRegisterChunk is the write-only 0xA13000-0xA130FF bank-select
// port (spec.md §6): reads fall through to the unmapped-address default
// (0xFF/0xFFFF), writes flip the banked window's KindBanked selector.
func (c *Cartridge) bankRegisterChunk() *bus.Chunk {
	return &bus.Chunk{
		Start: bankRegisterStart, End: bankRegisterEnd, Mask: 0xFF,
		Flags: bus.FlagWrite,
		Kind:  bus.KindCallback,
		Write8: func(_ uint32, v uint8) error {
			c.WriteBankRegisterByte(v)
			return nil
		},
		Write16: func(_ uint32, v uint16) error {
			c.WriteBankRegisterWord(v)
			return nil
		},
	}
}

// saveMask returns nearest_pow2(size)-1 (0 for an empty store), so
// accesses across a larger window mirror the store, per spec.md §4.3
// step 4.
func saveMask(size uint32) uint32 {
	if size == 0 {
		return 0
	}
	p := nextPow2(size)
	return p - 1
}

func nextPow2(n uint32) uint32 {
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

// romMask returns a mirroring mask so accesses past the physical image
// size wrap instead of reading garbage, matching how real Genesis
// carts decode a smaller ROM into a larger address window.
func romMask(rom []byte) uint32 {
	return nextPow2(uint32(len(rom))) - 1
}
