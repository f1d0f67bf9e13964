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
	"io"
	"io/ioutil"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/cbmbam/pkg/format"
)

// Memory is an image held in a byte slice.
type Memory struct {
	format *format.Format
	data   []byte
}

// NewMemory returns a blank image of format f, all bytes zero.
func NewMemory(f *format.Format) *Memory {
	return &Memory{format: f, data: make([]byte, f.Size())}
}

// ReadMemory reads a complete image of format f from in.
func ReadMemory(f *format.Format, in io.Reader) (*Memory, error) {

	// one byte more than the largest valid size, so oversized input is caught
	limit := int64(f.Size()+f.Geometry.SectorCount()) + 1
	data, err := ioutil.ReadAll(io.LimitReader(in, limit))
	if err != nil {
		return nil, err
	}

	if err := checkSize(f, int64(len(data))); err != nil {
		return nil, err
	}

	log.Debugf("%d bytes of %s image loaded", len(data), f.Name)
	return &Memory{format: f, data: data}, nil
}

//
func (m *Memory) Format() *format.Format {
	return m.format
}

//
func (m *Memory) Get(track, sector, start, end int) ([]byte, error) {
	from, to, err := span(m.format, track, sector, start, end)
	if err != nil {
		return nil, err
	}
	ret := make([]byte, to-from)
	copy(ret, m.data[from:to])
	return ret, nil
}

//
func (m *Memory) Set(track, sector, start int, data []byte) error {
	from, _, err := span(m.format, track, sector, start, start+len(data))
	if err != nil {
		return err
	}
	copy(m.data[from:], data)
	return nil
}

//
func (m *Memory) Close() error {
	return nil
}
