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

//
type Zone struct {
	First   int
	Last    int
	Sectors int
}

// Geometry describes the fixed shape of a medium. Tracks are numbered from 1,
// sectors from 0. Zones must cover 1 through MaxTrack without gaps.
type Geometry struct {
	MaxTrack int
	DirTrack int
	Zones    []Zone
}

// SectorsPerTrack returns the number of sectors on track t, or 0 if t is not
// part of the medium.
func (g Geometry) SectorsPerTrack(t int) int {
	if t < 1 || t > g.MaxTrack {
		return 0
	}
	for _, z := range g.Zones {
		if z.First <= t && t <= z.Last {
			return z.Sectors
		}
	}
	return 0
}

//
func (g Geometry) MaxSectors() int {
	max := 0
	for _, z := range g.Zones {
		if z.Sectors > max {
			max = z.Sectors
		}
	}
	return max
}

// SectorCount returns the total number of sectors on the medium.
func (g Geometry) SectorCount() int {
	ret := 0
	for t := 1; t <= g.MaxTrack; t++ {
		ret += g.SectorsPerTrack(t)
	}
	return ret
}

//
func (g Geometry) ValidTrack(t int) bool {
	return 1 <= t && t <= g.MaxTrack
}

//
func (g Geometry) ValidSector(t, s int) bool {
	return 0 <= s && s < g.SectorsPerTrack(t)
}

// Validate checks that the zone table covers every track and that no track
// has more sectors than a Bitmap can hold.
func (g Geometry) Validate() error {

	if g.MaxTrack < 1 {
		return invalid("geometry needs at least one track")
	}

	if g.DirTrack != 0 && !g.ValidTrack(g.DirTrack) {
		return invalid("directory track %d outside of medium", g.DirTrack)
	}

	for t := 1; t <= g.MaxTrack; t++ {
		n := g.SectorsPerTrack(t)
		if n < 1 {
			return invalid("no sectors defined for track %d", t)
		}
		if n > MaxSectors {
			return invalid("track %d has %d sectors, at most %d supported",
				t, n, MaxSectors)
		}
	}

	return nil
}
