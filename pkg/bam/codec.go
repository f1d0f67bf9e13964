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

// EntryCodec translates a track entry to and from its on-disk bytes. An entry
// is one free count byte followed by Size-1 bitmap bytes. Within each bitmap
// byte, bit k stands for sector group*8+k, so the lowest sector of a group is
// in the least significant bit.
type EntryCodec struct {
	Size int
}

//
func (c EntryCodec) BitmapSize() int {
	return c.Size - 1
}

// Encode returns the Size bytes for the given free count and bitmap.
func (c EntryCodec) Encode(free uint8, b Bitmap) ([]byte, error) {
	bm, err := c.EncodeBitmap(b)
	if err != nil {
		return nil, err
	}
	return append([]byte{free}, bm...), nil
}

// Decode is the inverse of Encode for a track with n sectors.
func (c EntryCodec) Decode(data []byte, n int) (uint8, Bitmap, error) {

	if len(data) != c.Size {
		return 0, Bitmap{}, invalid(
			"entry needs %d bytes, got %d", c.Size, len(data))
	}

	b, err := c.DecodeBitmap(data[1:], n)
	if err != nil {
		return 0, Bitmap{}, err
	}

	return data[0], b, nil
}

// EncodeBitmap returns the BitmapSize bytes for b. Bits past the last sector
// and bytes past the last sector group are zero.
func (c EntryCodec) EncodeBitmap(b Bitmap) ([]byte, error) {

	if err := c.fits(b.Len()); err != nil {
		return nil, err
	}

	ret := make([]byte, c.BitmapSize())
	for s := 0; s < b.Len(); s++ {
		if b.IsFree(s) {
			ret[s/8] |= 1 << uint(s%8)
		}
	}

	return ret, nil
}

// DecodeBitmap reads a bitmap of n sectors from BitmapSize bytes. Bits past the
// last sector are ignored.
func (c EntryCodec) DecodeBitmap(data []byte, n int) (Bitmap, error) {

	if len(data) != c.BitmapSize() {
		return Bitmap{}, invalid(
			"bitmap needs %d bytes, got %d", c.BitmapSize(), len(data))
	}

	if err := c.fits(n); err != nil {
		return Bitmap{}, err
	}

	b := NewBitmap(n)
	for s := 0; s < n; s++ {
		if data[s/8]&(1<<uint(s%8)) != 0 {
			b.Set(s, true)
		}
	}

	return b, nil
}

//
func (c EntryCodec) fits(n int) error {
	if n < 0 || n > MaxSectors {
		return invalid("%d sectors out of range", n)
	}
	if need := (n + 7) / 8; need > c.BitmapSize() {
		return invalid("%d sectors need %d bitmap bytes, entry has %d",
			n, need, c.BitmapSize())
	}
	return nil
}
