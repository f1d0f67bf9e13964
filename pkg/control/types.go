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

package control

import (
	"fmt"

	"github.com/xelalexv/cbmbam/pkg/bam"
)

//
const (
	StateUsed = "used"
	StateFree = "free"
)

//
type Status struct {
	Tracks     int    `json:"tracks"`
	DirTrack   int    `json:"dirTrack"`
	Sectors    int    `json:"sectors"`
	Free       int    `json:"free"`
	Consistent bool   `json:"consistent"`
	Problem    string `json:"problem,omitempty"`
}

//
func (s *Status) String() string {
	ret := fmt.Sprintf("\n%d tracks, %d sectors, %d blocks free",
		s.Tracks, s.Sectors, s.Free)
	if s.Consistent {
		return ret + "\nBAM is consistent"
	}
	return fmt.Sprintf("%s\nBAM is inconsistent: %s", ret, s.Problem)
}

//
type Track struct {
	Track  int    `json:"track"`
	Free   int    `json:"free"`
	Bitmap string `json:"bitmap"`
}

//
func newTrack(e bam.TrackEntry) *Track {
	return &Track{
		Track:  e.Track,
		Free:   int(e.Free),
		Bitmap: e.Bitmap.String(),
	}
}

//
func (t *Track) String() string {
	return fmt.Sprintf("track %d: %d free, bitmap %s", t.Track, t.Free, t.Bitmap)
}
