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

package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xelalexv/cbmbam/pkg/bam"
)

// BlockSize is the number of bytes in one sector
const BlockSize = 256

// Format bundles geometry and BAM layout of one kind of disk image.
type Format struct {
	Name     string
	Geometry bam.Geometry
	Layout   bam.Layout
}

// Size returns the number of bytes of an image in this format, without error
// info.
func (f *Format) Size() int {
	return f.Geometry.SectorCount() * BlockSize
}

// Offset returns the byte offset of block (track, sector) within an image.
func (f *Format) Offset(track, sector int) (int, error) {

	if !f.Geometry.ValidSector(track, sector) {
		return -1, fmt.Errorf("invalid track/sector %d/%d for %s",
			track, sector, f.Name)
	}

	sectors := sector
	for t := 1; t < track; t++ {
		sectors += f.Geometry.SectorsPerTrack(t)
	}

	return sectors * BlockSize, nil
}

// the zones of one side of a 1541/1571 disk
var cbmZones = []bam.Zone{
	{First: 1, Last: 17, Sectors: 21},
	{First: 18, Last: 24, Sectors: 19},
	{First: 25, Last: 30, Sectors: 18},
	{First: 31, Last: 35, Sectors: 17},
}

//
func secondSide(zones []bam.Zone, tracks int) []bam.Zone {
	ret := make([]bam.Zone, 0, 2*len(zones))
	ret = append(ret, zones...)
	for _, z := range zones {
		ret = append(ret, bam.Zone{
			First: z.First + tracks, Last: z.Last + tracks, Sectors: z.Sectors})
	}
	return ret
}

//
const (
	dirTrack      = 18
	bamOffset     = 4
	entrySize     = 4
	sideTracks    = 35
	d71BAMTrack   = dirTrack + sideTracks
	d71CountTable = 0xdd
)

//
var formats = map[string]func() *Format{
	"d64": newD64,
	"d71": newD71,
}

// NewFormat returns the format for a name such as "d64". Names are case
// insensitive.
func NewFormat(typ string) (*Format, error) {
	if f, ok := formats[strings.ToLower(typ)]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unsupported disk format: %s, use one of %s",
		typ, strings.Join(Names(), ", "))
}

// Names returns the names of all supported formats.
func Names() []string {
	ret := make([]string, 0, len(formats))
	for n := range formats {
		ret = append(ret, n)
	}
	sort.Strings(ret)
	return ret
}

// 1541, single sided, all entries in one table on 18/0
func newD64() *Format {
	return &Format{
		Name: "d64",
		Geometry: bam.Geometry{
			MaxTrack: sideTracks,
			DirTrack: dirTrack,
			Zones:    cbmZones,
		},
		Layout: bam.Layout{
			Single: bam.SingleRegion{
				Block:      bam.BlockID{Track: dirTrack},
				BaseOffset: bamOffset,
				EntrySize:  entrySize,
			},
		},
	}
}

// 1571, double sided; the free counts of the second side are at the end of
// 18/0, their bitmaps in 53/0
func newD71() *Format {
	return &Format{
		Name: "d71",
		Geometry: bam.Geometry{
			MaxTrack: 2 * sideTracks,
			DirTrack: dirTrack,
			Zones:    secondSide(cbmZones, sideTracks),
		},
		Layout: bam.Layout{
			Single: bam.SingleRegion{
				Block:      bam.BlockID{Track: dirTrack},
				BaseOffset: bamOffset,
				EntrySize:  entrySize,
			},
			Split: &bam.SplitRegion{
				Threshold:        sideTracks + 1,
				Primary:          bam.BlockID{Track: dirTrack},
				CountTableOffset: d71CountTable - (sideTracks + 1),
				Secondary:        bam.BlockID{Track: d71BAMTrack},
				EntrySize:        entrySize,
			},
		},
	}
}
