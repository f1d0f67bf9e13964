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

// Iterator walks the entries of a store track by track. Each entry is read when
// Next is called. Iteration stops at the first read error, which is then
// available from Err.
//
//	it := store.Entries(false)
//	for it.Next() {
//		e := it.Entry()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator struct {
	store      *Store
	includeDir bool
	track      int
	entry      TrackEntry
	err        error
}

// Entries returns an iterator over tracks 1 through MaxTrack. The directory
// track is skipped unless includeDir is set. Every call returns a fresh
// iterator starting at track 1.
func (s *Store) Entries(includeDir bool) *Iterator {
	return &Iterator{store: s, includeDir: includeDir}
}

// Next advances to the next track and reads its entry. It returns false when
// all tracks have been visited or a read failed.
func (it *Iterator) Next() bool {

	if it.err != nil {
		return false
	}

	g := it.store.geometry

	for it.track < g.MaxTrack {
		it.track++
		if it.track == g.DirTrack && !it.includeDir {
			continue
		}
		it.entry, it.err = it.store.Entry(it.track)
		return it.err == nil
	}

	return false
}

//
func (it *Iterator) Entry() TrackEntry {
	return it.entry
}

//
func (it *Iterator) Err() error {
	return it.err
}
