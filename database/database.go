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

package database

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retrobus/genesis/errors"
)

// DB is a loaded ROM database, keyed by product ID.
type DB struct {
	entries map[string]*Entry
}

// Lookup returns the entry for a product ID, and ok=false if absent.
func (db *DB) Lookup(productID string) (*Entry, bool) {
	e, ok := db.entries[productID]
	return e, ok
}

// Load parses a database file from r. See the package doc comment for
// the file grammar.
func Load(r io.Reader) (*DB, error) {
	db := &DB{entries: make(map[string]*Entry)}
	scanner := bufio.NewScanner(r)

	var current *Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			id := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			current = &Entry{ProductID: id}
			db.entries[id] = current
			continue
		}

		if current == nil {
			return nil, errors.Errorf(errors.DatabaseFieldInvalid, "database: line %d: field outside of any [PRODUCT-ID] entry", lineNo)
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, errors.Errorf(errors.DatabaseFieldInvalid, "database: line %d: expected key = value", lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := applyField(current, key, value); err != nil {
			return nil, errors.Errorf(errors.DatabaseFieldInvalid, "database: line %d: %v", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

func applyField(e *Entry, key, value string) error {
	switch {
	case key == "name":
		e.Name = value
	case key == "regions":
		e.Regions = value
	case strings.HasPrefix(key, "map."):
		m, err := parseMapEntry(key[len("map."):], value)
		if err != nil {
			return err
		}
		e.Map = append(e.Map, m)
	case key == "EEPROM.size":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		if e.EEPROM == nil {
			e.EEPROM = &EEPROMInfo{}
		}
		e.EEPROM.Size = uint32(n)
	case key == "EEPROM.type":
		if e.EEPROM == nil {
			e.EEPROM = &EEPROMInfo{}
		}
		e.EEPROM.Type = value
	case key == "SRAM.size":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		if e.SRAM == nil {
			e.SRAM = &SRAMInfo{}
		}
		e.SRAM.Size = uint32(n)
	case key == "SRAM.bus":
		if e.SRAM == nil {
			e.SRAM = &SRAMInfo{}
		}
		e.SRAM.Bus = value
	default:
		return errors.Errorf(errors.DatabaseFieldInvalid, "database: unknown field %q", key)
	}
	return nil
}

func parseMapEntry(startHex, rest string) (MapEntry, error) {
	start, err := strconv.ParseUint(startHex, 16, 32)
	if err != nil {
		return MapEntry{}, fmt.Errorf("bad map start address %q: %w", startHex, err)
	}
	m := MapEntry{Start: uint32(start), BitsRead: map[int]BitWire{}, BitsWrite: map[int]BitWire{}}

	for _, tok := range strings.Fields(rest) {
		k, v, ok := strings.Cut(tok, ":")
		if !ok {
			return MapEntry{}, fmt.Errorf("bad map field %q, want key:value", tok)
		}
		switch {
		case k == "last":
			n, err := strconv.ParseUint(v, 16, 32)
			if err != nil {
				return MapEntry{}, err
			}
			m.Last = uint32(n)
		case k == "device":
			switch v {
			case "rom":
				m.Device = DeviceROM
			case "sram":
				m.Device = DeviceSRAM
			case "eeprom":
				m.Device = DeviceEEPROM
			default:
				return MapEntry{}, fmt.Errorf("unknown device %q", v)
			}
		case k == "offset":
			n, err := strconv.ParseUint(v, 16, 32)
			if err != nil {
				return MapEntry{}, err
			}
			m.Offset = uint32(n)
		case k == "bus":
			m.SRAMBus = v
		case strings.HasPrefix(k, "bits_read."):
			bit, err := strconv.Atoi(k[len("bits_read."):])
			if err != nil {
				return MapEntry{}, err
			}
			m.BitsRead[bit] = BitSDA
		case strings.HasPrefix(k, "bits_write."):
			bit, err := strconv.Atoi(k[len("bits_write."):])
			if err != nil {
				return MapEntry{}, err
			}
			switch v {
			case "sda":
				m.BitsWrite[bit] = BitSDA
			case "scl":
				m.BitsWrite[bit] = BitSCL
			default:
				return MapEntry{}, fmt.Errorf("unknown bits_write wire %q", v)
			}
		default:
			return MapEntry{}, fmt.Errorf("unknown map field %q", k)
		}
	}
	return m, nil
}
