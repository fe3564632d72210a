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

package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapUnmappedAddressReadsDefault(t *testing.T) {
	m := &Map{}
	v16, err := m.Read16(0x123456)
	require.NoError(t, err)
	require.Equal(t, uint16(0xFFFF), v16)

	v8, err := m.Read8(0x123456)
	require.NoError(t, err)
	require.Equal(t, uint8(0xFF), v8)
}

func TestMapBufferChunkReadWrite(t *testing.T) {
	buf := make([]byte, 0x100)
	m := &Map{Chunks: []*Chunk{
		{Start: 0, End: 0x100, Mask: 0xFF, Flags: FlagRead | FlagWrite, Kind: KindBuffer, Buffer: buf},
	}}

	require.NoError(t, m.Write16(0x10, 0xBEEF))
	v, err := m.Read16(0x10)
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), v)
	require.Equal(t, uint8(0xBE), buf[0x10])
	require.Equal(t, uint8(0xEF), buf[0x11])

	require.NoError(t, m.Write8(0x20, 0x42))
	b, err := m.Read8(0x20)
	require.NoError(t, err)
	require.Equal(t, uint8(0x42), b)
}

func TestMapOnlyOddChunkGatesParity(t *testing.T) {
	buf := make([]byte, 0x80) // half the window, since only odd bytes are wired
	m := &Map{Chunks: []*Chunk{
		{Start: 0, End: 0x100, Mask: 0xFF, Flags: FlagRead | FlagWrite | FlagOnlyOdd, Kind: KindBuffer, Buffer: buf},
	}}

	// Even address: reads 0xFF, writes are dropped.
	v, err := m.Read8(0x10)
	require.NoError(t, err)
	require.Equal(t, uint8(0xFF), v)
	require.NoError(t, m.Write8(0x10, 0x77))
	require.Equal(t, uint8(0), buf[0x10/2])

	// Odd address: lands in the backing array at half the offset.
	require.NoError(t, m.Write8(0x11, 0x99))
	v, err = m.Read8(0x11)
	require.NoError(t, err)
	require.Equal(t, uint8(0x99), v)
	require.Equal(t, uint8(0x99), buf[0x11/2])
}

func TestMapOnlyOddWord16DecomposesIntoTwoByteAccesses(t *testing.T) {
	buf := make([]byte, 0x80)
	m := &Map{Chunks: []*Chunk{
		{Start: 0, End: 0x100, Mask: 0xFF, Flags: FlagRead | FlagWrite | FlagOnlyOdd, Kind: KindBuffer, Buffer: buf},
	}}

	// A word write at an even address touches addr (even, dropped) and
	// addr+1 (odd, stored) independently, per the ONLY_ODD decomposition.
	require.NoError(t, m.Write16(0x20, 0xAABB))
	require.Equal(t, uint8(0xBB), buf[0x21/2])

	v, err := m.Read16(0x20)
	require.NoError(t, err)
	require.Equal(t, uint16(0xFF)<<8|0xBB, v)
}

func TestMapKindBankedSelectsBufferVsCallback(t *testing.T) {
	selected := false
	bankedBuf := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	var callbackRead uint32
	c := &Chunk{
		Start: 0x200000, End: 0x400000, Mask: 0x3,
		Flags:        FlagRead | FlagWrite,
		Kind:         KindBanked,
		Selected:     &selected,
		BankedBuffer: bankedBuf,
		Read16: func(addr uint32) (uint16, error) {
			callbackRead = addr
			return 0x1234, nil
		},
	}
	m := &Map{Chunks: []*Chunk{c}}

	// Not selected: falls through to the callback.
	v, err := m.Read16(0x200002)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), v)
	require.Equal(t, uint32(0x2), callbackRead)

	// Selected: addresses straight into BankedBuffer.
	selected = true
	v, err = m.Read16(0x200000)
	require.NoError(t, err)
	require.Equal(t, uint16(0xAABB), v)
}

func TestMapFindPicksFirstContainingChunk(t *testing.T) {
	romBuf := []byte{1, 2, 3, 4}
	ramBuf := make([]byte, 4)
	m := &Map{Chunks: []*Chunk{
		{Start: 0, End: 0x10, Mask: 0x3, Flags: FlagRead, Kind: KindBuffer, Buffer: romBuf},
		{Start: 0x10, End: 0x20, Mask: 0x3, Flags: FlagRead | FlagWrite, Kind: KindBuffer, Buffer: ramBuf},
	}}

	require.NoError(t, m.Write8(0x11, 0x55))
	require.Equal(t, uint8(0x55), ramBuf[1])

	v, err := m.Read8(0x1)
	require.NoError(t, err)
	require.Equal(t, uint8(2), v)
}

func TestMapPeekPokeMirrorReadWrite(t *testing.T) {
	buf := make([]byte, 0x10)
	m := &Map{Chunks: []*Chunk{
		{Start: 0, End: 0x10, Mask: 0xF, Flags: FlagRead | FlagWrite, Kind: KindBuffer, Buffer: buf},
	}}

	require.NoError(t, m.Poke16(0, 0xCAFE))
	v, err := m.Peek16(0)
	require.NoError(t, err)
	require.Equal(t, uint16(0xCAFE), v)
}

func TestMapWriteToReadOnlyChunkIsNoop(t *testing.T) {
	buf := []byte{0x11, 0x22}
	m := &Map{Chunks: []*Chunk{
		{Start: 0, End: 0x10, Mask: 0xF, Flags: FlagRead, Kind: KindBuffer, Buffer: buf},
	}}

	require.NoError(t, m.Write8(0, 0x99))
	require.Equal(t, uint8(0x11), buf[0])
}
