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
func NewMap() *Map {

	m := &Map{}
	m.Runner = *NewRunner(
		"map -i|--image {image file} [-f|--format {d64|d71}] [--all]",
		"show block availability map",
		`
Use the map command to print the block availability map of a disk image. Each
track is shown on one line, with '.' for a free and 'X' for a used sector, and
the free count stored for the track. Tracks whose free count does not match
their bitmap are flagged. The total of free blocks leaves out the directory
track, unless --all is given.`,
		"", runnerHelpEpilogue, m.Run)

	m.AddBaseSettings()
	m.AddSetting(&m.All, "all", "", "", false,
		"include directory track in total of free blocks", false)

	return m
}

//
type Map struct {
	Runner
	//
	All bool
}

//
func (m *Map) Run() error {

	if err := m.ParseSettings(); err != nil {
		return err
	}

	store, err := m.loadStore()
	if err != nil {
		return err
	}

	m.printf("\n")
	return store.Emit(m.out, m.All)
}
