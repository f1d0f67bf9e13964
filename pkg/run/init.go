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
func NewInit() *Init {

	i := &Init{}
	i.Runner = *NewRunner(
		"init -i|--image {image file} [-f|--format {d64|d71}] [-y|--yes]",
		"mark all sectors as free",
		`
Use the init command to reset the block availability map, so that all sectors of
all tracks are free, including the directory track and the blocks holding the
BAM itself. A missing image file is created blank. Any file data on an existing
image becomes unreachable.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddBaseSettings()
	i.AddSetting(&i.Yes, "yes", "y", "", false, "skip confirmation", false)

	return i
}

//
type Init struct {
	Runner
	//
	Yes bool
}

//
func (i *Init) Run() error {

	if err := i.ParseSettings(); err != nil {
		return err
	}

	if !i.Yes && !GetUserConfirmation(fmt.Sprintf(
		"\nall sectors of %s will be marked free. Proceed?", i.Image)) {
		return nil
	}

	store, img, err := i.openStore(true)
	if err != nil {
		return err
	}
	defer img.Close()

	if err := store.FreeAll(); err != nil {
		return err
	}

	if err := img.Sync(); err != nil {
		return err
	}

	free, err := store.TotalFree()
	if err != nil {
		return err
	}

	i.printf("BAM initialized, %d blocks free\n", free)
	return nil
}
