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

//
func NewNext() *Next {

	n := &Next{}
	n.Runner = *NewRunner(
		`next -i|--image {image file} [-f|--format {d64|d71}]
      -t|--track {track} [-s|--start {sector}]`,
		"allocate next free sector on a track",
		`
Use the next command to allocate the first free sector of a track, starting the
search at the given sector and wrapping around to sector 0 if nothing is free up
to the end of the track. The allocated sector number is printed.`,
		"", runnerHelpEpilogue, n.Run)

	n.AddBaseSettings()
	n.AddSetting(&n.Track, "track", "t", "", -1, "track number, from 1", false)
	n.AddSetting(&n.Start, "start", "s", "", 0, "sector to start search at", false)

	return n
}

//
type Next struct {
	Runner
	//
	Track int
	Start int
}

//
func (n *Next) Run() error {

	if err := n.ParseSettings(); err != nil {
		return err
	}

	if n.Track < 0 {
		return fmt.Errorf("you need to specify a track")
	}

	store, img, err := n.openStore(false)
	if err != nil {
		return err
	}
	defer img.Close()

	sector, err := store.AllocateNext(n.Track, n.Start)
	if err != nil {
		return err
	}

	if err := img.Sync(); err != nil {
		return err
	}

	n.printf("%d\n", sector)
	return nil
}
