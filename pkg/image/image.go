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

package image

import (
	"fmt"

	"github.com/xelalexv/cbmbam/pkg/bam"
	"github.com/xelalexv/cbmbam/pkg/format"
)

// Image is a disk image that gives block access to the BAM engine.
type Image interface {
	bam.Block
	Format() *format.Format
	Close() error
}

// span translates a byte range within block (track, sector) into an absolute
// range within the image.
func span(f *format.Format, track, sector, start, end int) (int, int, error) {

	off, err := f.Offset(track, sector)
	if err != nil {
		return -1, -1, err
	}

	if start < 0 || end > format.BlockSize || start > end {
		return -1, -1, fmt.Errorf(
			"invalid byte range [%d, %d) in block %d/%d", start, end, track, sector)
	}

	return off + start, off + end, nil
}

// checkSize accepts images of the plain format size, and images that carry one
// trailing error info byte per sector.
func checkSize(f *format.Format, size int64) error {
	if size == int64(f.Size()) ||
		size == int64(f.Size()+f.Geometry.SectorCount()) {
		return nil
	}
	return fmt.Errorf("image size %d does not match %s format (%d bytes)",
		size, f.Name, f.Size())
}
