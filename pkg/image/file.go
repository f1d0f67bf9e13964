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

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/xelalexv/cbmbam/pkg/format"
)

// File is an image file accessed in place. Every Get and Set goes straight to
// the file, nothing is cached.
type File struct {
	path   string
	fd     int
	format *format.Format
}

// OpenFile opens the image file at path. With create set, a missing file is
// created as a blank image of format f.
func OpenFile(path string, f *format.Format, create bool) (*File, error) {

	flags := unix.O_RDWR
	if create {
		flags |= unix.O_CREAT
	}

	fd, err := unix.Open(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open image %s: %v", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if create && stat.Size == 0 {
		log.WithField("path", path).Infof("creating blank %s image", f.Name)
		if err := unix.Ftruncate(fd, int64(f.Size())); err != nil {
			unix.Close(fd)
			return nil, err
		}
		stat.Size = int64(f.Size())
	}

	if err := checkSize(f, stat.Size); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	log.WithFields(log.Fields{
		"path":   path,
		"format": f.Name,
	}).Debug("image opened")

	return &File{path: path, fd: fd, format: f}, nil
}

//
func (f *File) Format() *format.Format {
	return f.format
}

//
func (f *File) Get(track, sector, start, end int) ([]byte, error) {

	from, to, err := span(f.format, track, sector, start, end)
	if err != nil {
		return nil, err
	}

	ret := make([]byte, to-from)
	n, err := unix.Pread(f.fd, ret, int64(from))
	if err != nil {
		return nil, err
	}
	if n != len(ret) {
		return nil, fmt.Errorf("short read at %d/%d: %d of %d bytes",
			track, sector, n, len(ret))
	}

	return ret, nil
}

//
func (f *File) Set(track, sector, start int, data []byte) error {

	from, _, err := span(f.format, track, sector, start, start+len(data))
	if err != nil {
		return err
	}

	n, err := unix.Pwrite(f.fd, data, int64(from))
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("short write at %d/%d: %d of %d bytes",
			track, sector, n, len(data))
	}

	return nil
}

// Sync flushes pending writes to the storage device.
func (f *File) Sync() error {
	return unix.Fsync(f.fd)
}

//
func (f *File) Close() error {
	if f.fd < 0 {
		return nil
	}
	log.WithField("path", f.path).Debug("closing image")
	err := unix.Close(f.fd)
	f.fd = -1
	return err
}
