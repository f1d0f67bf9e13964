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

//
func NewCheck() *Check {

	c := &Check{}
	c.Runner = *NewRunner(
		"check -i|--image {image file} [-f|--format {d64|d71}]",
		"check block availability map",
		`
Use the check command to verify that the free count stored for each track,
including the directory track, matches the number of free sectors in the track's
bitmap. The first mismatch found is reported. Nothing gets repaired.`,
		"", runnerHelpEpilogue, c.Run)

	c.AddBaseSettings()

	return c
}

//
type Check struct {
	Runner
}

//
func (c *Check) Run() error {

	if err := c.ParseSettings(); err != nil {
		return err
	}

	store, err := c.loadStore()
	if err != nil {
		return err
	}

	if err := store.Check(); err != nil {
		return err
	}

	free, err := store.TotalFree()
	if err != nil {
		return err
	}

	c.printf("BAM is consistent, %d blocks free\n", free)
	return nil
}
