/*
   cbmbam - Commodore disk image block availability map tool
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of cbmbam.

   cbmbam is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   cbmbam is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with cbmbam. If not, see <http://www.gnu.org/licenses/>.
*/

package bam

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBitOrder(t *testing.T) {
	assert := assert.New(t)
	codec := EntryCodec{Size: 4}

	data, err := codec.Encode(2, mustParse("100000001"))
	assert.NoError(err)
	assert.Equal([]byte{2, 0x01, 0x01, 0x00}, data,
		"bit 0 of each byte is the lowest sector of its group")

	data, err = codec.Encode(1, mustParse("000000010"))
	assert.NoError(err)
	assert.Equal([]byte{1, 0x80, 0x00, 0x00}, data)

	data, err = codec.Encode(21, FullBitmap(21))
	assert.NoError(err)
	assert.Equal([]byte{21, 0xff, 0xff, 0x1f}, data,
		"bits past the last sector are zero")

	data, err = codec.Encode(17, FullBitmap(17))
	assert.NoError(err)
	assert.Equal([]byte{17, 0xff, 0xff, 0x01}, data)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)
	codec := EntryCodec{Size: 4}

	free, b, err := codec.Decode([]byte{3, 0x05, 0x00, 0xf0}, 19)
	assert.NoError(err)
	assert.Equal(uint8(3), free)
	assert.Equal("1010000000000000000", b.String(),
		"bits past the last sector are ignored")

	_, _, err = codec.Decode([]byte{3, 0x05, 0x00}, 19)
	assert.True(errors.Is(err, ErrInvalidArgument))

	_, _, err = codec.Decode([]byte{3, 0x05, 0x00, 0x00, 0x00}, 19)
	assert.True(errors.Is(err, ErrInvalidArgument))

	_, _, err = codec.Decode([]byte{3, 0x05, 0x00, 0x00}, 25)
	assert.True(errors.Is(err, ErrInvalidArgument), "too many sectors for entry")
}

func TestEncodeTooManySectors(t *testing.T) {
	_, err := EntryCodec{Size: 3}.Encode(0, NewBitmap(17))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestCodecRoundTrip(t *testing.T) {

	rnd := rand.New(rand.NewSource(1541))

	for _, g := range []Geometry{testD64Geometry, testD71Geometry} {
		codec := EntryCodec{Size: 4}

		for track := 1; track <= g.MaxTrack; track++ {
			n := g.SectorsPerTrack(track)

			for free := 0; free <= 255; free++ {
				b := NewBitmap(n)
				for s := 0; s < n; s++ {
					b.Set(s, rnd.Intn(2) == 1)
				}

				data, err := codec.Encode(uint8(free), b)
				require.NoError(t, err)
				require.Len(t, data, codec.Size)

				gotFree, gotBitmap, err := codec.Decode(data, n)
				require.NoError(t, err)
				require.Equal(t, uint8(free), gotFree, "track %d", track)
				require.True(t, b.Equal(gotBitmap),
					"track %d: want %v, got %v", track, b, gotBitmap)
			}
		}
	}
}

func TestBitmapRoundTripNonMultipleOfEight(t *testing.T) {
	assert := assert.New(t)
	codec := EntryCodec{Size: 5}

	for n := 0; n <= 32; n++ {
		b := NewBitmap(n)
		for s := 0; s < n; s += 3 {
			b.Set(s, true)
		}
		data, err := codec.EncodeBitmap(b)
		assert.NoError(err)
		assert.Len(data, 4)
		got, err := codec.DecodeBitmap(data, n)
		assert.NoError(err)
		assert.True(b.Equal(got), "n=%d", n)
	}
}
