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
	"io"
)

// Emit writes a map of all tracks to w, one line per track with '.' for a
// free and 'X' for a used sector, followed by the stored free count. Tracks
// whose count does not match the bitmap are flagged. The closing total of free
// blocks covers the directory track only with includeDir set.
func (s *Store) Emit(w io.Writer, includeDir bool) error {

	free := 0
	it := s.Entries(true)

	for it.Next() {

		e := it.Entry()
		line := make([]byte, e.Bitmap.Len())
		for ix := range line {
			if e.Bitmap.IsFree(ix) {
				line[ix] = '.'
			} else {
				line[ix] = 'X'
			}
		}

		var note string
		if e.Track == s.geometry.DirTrack {
			note = " dir"
		}
		if includeDir || e.Track != s.geometry.DirTrack {
			free += int(e.Free)
		}
		if actual := e.Bitmap.Count(); actual != int(e.Free) {
			note += fmt.Sprintf(" MISMATCH (bitmap has %d)", actual)
		}

		if _, err := fmt.Fprintf(w, "TRACK %2d: |%-*s| %3d%s\n",
			e.Track, s.geometry.MaxSectors(), line, e.Free, note); err != nil {
			return err
		}
	}

	if err := it.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d blocks free\n", free)
	return err
}
