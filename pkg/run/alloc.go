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

package run

import (
	"fmt"
)

// NewAlloc creates the alloc command, which marks a sector as used
func NewAlloc() *Alloc {
	return newSectorCommand("alloc", "mark sector as used", true)
}

// NewFree creates the free command, which marks a sector as free
func NewFree() *Alloc {
	return newSectorCommand("free", "mark sector as free", false)
}

//
func newSectorCommand(name, short string, alloc bool) *Alloc {

	a := &Alloc{alloc: alloc}
	a.Runner = *NewRunner(
		fmt.Sprintf(`%s -i|--image {image file} [-f|--format {d64|d71}]
      -t|--track {track} -s|--sector {sector}`, name),
		short,
		fmt.Sprintf(`
Use the %s command to %s in the block availability map. The free count
of the track is updated along with the bitmap. The command fails if the sector
already is in the requested state, or if the track's free count contradicts its
bitmap.`, name, short),
		"", runnerHelpEpilogue, a.Run)

	a.AddBaseSettings()
	a.AddSetting(&a.Track, "track", "t", "", -1, "track number, from 1", false)
	a.AddSetting(&a.Sector, "sector", "s", "", -1, "sector number, from 0", false)

	return a
}

//
type Alloc struct {
	Runner
	//
	Track  int
	Sector int
	//
	alloc bool
}

//
func (a *Alloc) Run() error {

	if err := a.ParseSettings(); err != nil {
		return err
	}

	if a.Track < 0 || a.Sector < 0 {
		return fmt.Errorf("you need to specify track and sector")
	}

	store, img, err := a.openStore(false)
	if err != nil {
		return err
	}
	defer img.Close()

	if a.alloc {
		err = store.SetAllocated(a.Track, a.Sector)
	} else {
		err = store.SetFree(a.Track, a.Sector)
	}
	if err != nil {
		return err
	}

	if err := img.Sync(); err != nil {
		return err
	}

	state := "free"
	if a.alloc {
		state = "used"
	}
	a.printf("sector %d/%d %s\n", a.Track, a.Sector, state)
	return nil
}
