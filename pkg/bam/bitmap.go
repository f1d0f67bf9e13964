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
	"fmt"
	"math/bits"
	"strings"
)

// MaxSectors is the largest number of sectors per track a Bitmap can hold.
const MaxSectors = 64

// Bitmap is a fixed size bit set with one bit per sector of a track. A set bit
// means the sector is free.
type Bitmap struct {
	bits uint64
	n    int
}

// NewBitmap returns a bitmap for n sectors with all sectors allocated.
func NewBitmap(n int) Bitmap {
	if n < 0 || n > MaxSectors {
		panic("bitmap size out of range")
	}
	return Bitmap{n: n}
}

// FullBitmap returns a bitmap for n sectors with all sectors free.
func FullBitmap(n int) Bitmap {
	b := NewBitmap(n)
	b.bits = b.mask()
	return b
}

// ParseBitmap reads a bitmap from a string of '0' and '1' characters, where the
// character at index i is the state of sector i and '1' means free.
func ParseBitmap(s string) (Bitmap, error) {

	if len(s) > MaxSectors {
		return Bitmap{}, invalid("bitmap of %d sectors too long", len(s))
	}

	b := NewBitmap(len(s))

	for ix, c := range s {
		switch c {
		case '1':
			b.bits |= 1 << uint(ix)
		case '0':
		default:
			return Bitmap{}, invalid("bad character '%c' in bitmap", c)
		}
	}

	return b, nil
}

//
func (b Bitmap) Len() int {
	return b.n
}

// IsFree reports whether sector s is free. Out of range sectors are never free.
func (b Bitmap) IsFree(s int) bool {
	if s < 0 || s >= b.n {
		return false
	}
	return b.bits&(1<<uint(s)) != 0
}

// Set marks sector s as free or allocated. It panics when s is out of range;
// callers check the sector against the track geometry first.
func (b *Bitmap) Set(s int, free bool) {
	if s < 0 || s >= b.n {
		panic("sector out of bitmap range")
	}
	if free {
		b.bits |= 1 << uint(s)
	} else {
		b.bits &^= 1 << uint(s)
	}
}

// Count returns the number of free sectors.
func (b Bitmap) Count() int {
	return bits.OnesCount64(b.bits & b.mask())
}

//
func (b Bitmap) Equal(o Bitmap) bool {
	return b.n == o.n && b.bits&b.mask() == o.bits&o.mask()
}

// String renders the bitmap in the same notation ParseBitmap accepts.
func (b Bitmap) String() string {
	var sb strings.Builder
	for s := 0; s < b.n; s++ {
		if b.IsFree(s) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

//
func (b Bitmap) mask() uint64 {
	if b.n == MaxSectors {
		return ^uint64(0)
	}
	return (1 << uint(b.n)) - 1
}

// FreeFrom returns the first free sector at or after start. The bitmap is
// treated as circular, so the search continues at sector 0 when nothing is
// free up to the end. This spreads allocations across the track rather than
// always filling low sector numbers first. A start past the end searches from
// sector 0.
func FreeFrom(b Bitmap, start int) (int, error) {

	if start < 0 {
		return -1, invalid("negative start sector %d", start)
	}

	if start >= b.n {
		start = 0
	}

	for ix := 0; ix < b.n; ix++ {
		s := (start + ix) % b.n
		if b.IsFree(s) {
			return s, nil
		}
	}

	return -1, fmt.Errorf("%w: no free sector", ErrConsistency)
}
