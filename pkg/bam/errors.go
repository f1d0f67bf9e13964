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
	"errors"
	"fmt"
)

//
var (
	// ErrInvalidArgument signals a track, sector, or byte span outside of the
	// declared bounds. This is always a caller bug.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrAlreadyAllocated = errors.New("sector already allocated")

	ErrAlreadyFree = errors.New("sector already free")

	// ErrConsistency signals a stored free count contradicting its bitmap, or a
	// bitmap without any free sector where one was expected.
	ErrConsistency = errors.New("BAM inconsistent")
)

// ConsistencyError reports a track whose stored free count does not match the
// number of free sectors in its bitmap.
type ConsistencyError struct {
	Track  int
	Stored int
	Actual int
}

//
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: track %d stores free count %d, bitmap has %d free",
		ErrConsistency, e.Track, e.Stored, e.Actual)
}

//
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

//
func invalid(format string, params ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, params...))
}
