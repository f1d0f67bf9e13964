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
)

// BlockID addresses one backing block on the medium.
type BlockID struct {
	Track  int
	Sector int
}

//
func (id BlockID) String() string {
	return fmt.Sprintf("%d/%d", id.Track, id.Sector)
}

// Region is a byte range within a backing block.
type Region struct {
	Block  BlockID
	Offset int
	Length int
}

//
func (r Region) End() int {
	return r.Offset + r.Length
}

// SingleRegion keeps count and bitmap of each track next to each other, in one
// table of EntrySize byte entries starting at BaseOffset of Block.
type SingleRegion struct {
	Block      BlockID
	BaseOffset int
	EntrySize  int
}

//
func (l SingleRegion) EntryLocation(track int) Region {
	return Region{
		Block:  l.Block,
		Offset: l.BaseOffset + (track-1)*l.EntrySize,
		Length: l.EntrySize,
	}
}

// SplitRegion covers the tracks from Threshold on. Their free counts form a
// table of one byte per track in Primary, at CountTableOffset+track, and their
// bitmaps a table of EntrySize-1 byte entries at the start of Secondary.
type SplitRegion struct {
	Threshold        int
	Primary          BlockID
	CountTableOffset int
	Secondary        BlockID
	EntrySize        int
}

//
func (l SplitRegion) CountLocation(track int) Region {
	return Region{
		Block:  l.Primary,
		Offset: l.CountTableOffset + track,
		Length: 1,
	}
}

//
func (l SplitRegion) BitmapLocation(track int) Region {
	return Region{
		Block:  l.Secondary,
		Offset: (track - l.Threshold) * (l.EntrySize - 1),
		Length: l.EntrySize - 1,
	}
}

// Layout is the physical placement of the BAM. Single always serves the tracks
// below the split threshold. Split is nil for media that keep all entries in
// one region; otherwise it serves all tracks from its threshold on.
type Layout struct {
	Single SingleRegion
	Split  *SplitRegion
}

//
func (l Layout) IsSplit(track int) bool {
	return l.Split != nil && track >= l.Split.Threshold
}

//
func (l Layout) validate(g Geometry) error {

	if l.Single.EntrySize < 2 {
		return invalid("entry size %d too small", l.Single.EntrySize)
	}

	codec := EntryCodec{Size: l.Single.EntrySize}
	if err := codec.fits(g.MaxSectors()); err != nil {
		return err
	}

	if l.Split == nil {
		return nil
	}

	if l.Split.Threshold < 2 || l.Split.Threshold > g.MaxTrack {
		return invalid("split threshold %d outside of medium", l.Split.Threshold)
	}

	if l.Split.EntrySize < 2 {
		return invalid("split entry size %d too small", l.Split.EntrySize)
	}

	codec = EntryCodec{Size: l.Split.EntrySize}
	for t := l.Split.Threshold; t <= g.MaxTrack; t++ {
		if err := codec.fits(g.SectorsPerTrack(t)); err != nil {
			return err
		}
	}

	if l.Split.Primary == l.Split.Secondary {
		return invalid("split count and bitmap regions share block %v",
			l.Split.Primary)
	}

	return nil
}
