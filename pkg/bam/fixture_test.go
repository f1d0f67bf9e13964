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
)

//
const testBlockSize = 256

// 1541 geometry and layout
var testD64Geometry = Geometry{
	MaxTrack: 35,
	DirTrack: 18,
	Zones: []Zone{
		{1, 17, 21},
		{18, 24, 19},
		{25, 30, 18},
		{31, 35, 17},
	},
}

var testD64Layout = Layout{
	Single: SingleRegion{Block: BlockID{18, 0}, BaseOffset: 4, EntrySize: 4},
}

// 1571 geometry and layout, second side split off from track 36
var testD71Geometry = Geometry{
	MaxTrack: 70,
	DirTrack: 18,
	Zones: []Zone{
		{1, 17, 21},
		{18, 24, 19},
		{25, 30, 18},
		{31, 35, 17},
		{36, 52, 21},
		{53, 59, 19},
		{60, 65, 18},
		{66, 70, 17},
	},
}

var testD71Layout = Layout{
	Single: SingleRegion{Block: BlockID{18, 0}, BaseOffset: 4, EntrySize: 4},
	Split: &SplitRegion{
		Threshold:        36,
		Primary:          BlockID{18, 0},
		CountTableOffset: 0xdd - 36,
		Secondary:        BlockID{53, 0},
		EntrySize:        4,
	},
}

// fakeBlock is an in-memory medium that records every write
type fakeBlock struct {
	geometry Geometry
	data     map[BlockID][]byte
	reads    []Region
	writes   []Region
}

//
func newFakeBlock(g Geometry) *fakeBlock {
	return &fakeBlock{geometry: g, data: map[BlockID][]byte{}}
}

//
func (f *fakeBlock) sector(t, s int) ([]byte, error) {
	if !f.geometry.ValidSector(t, s) {
		return nil, fmt.Errorf("no such block: %d/%d", t, s)
	}
	id := BlockID{t, s}
	if _, ok := f.data[id]; !ok {
		f.data[id] = make([]byte, testBlockSize)
	}
	return f.data[id], nil
}

//
func (f *fakeBlock) Get(t, s, start, end int) ([]byte, error) {
	data, err := f.sector(t, s)
	if err != nil {
		return nil, err
	}
	if start < 0 || end > len(data) || start > end {
		return nil, fmt.Errorf("bad range [%d, %d)", start, end)
	}
	f.reads = append(f.reads, Region{BlockID{t, s}, start, end - start})
	ret := make([]byte, end-start)
	copy(ret, data[start:end])
	return ret, nil
}

//
func (f *fakeBlock) Set(t, s, start int, d []byte) error {
	data, err := f.sector(t, s)
	if err != nil {
		return err
	}
	if start < 0 || start+len(d) > len(data) {
		return fmt.Errorf("bad range [%d, %d)", start, start+len(d))
	}
	f.writes = append(f.writes, Region{BlockID{t, s}, start, len(d)})
	copy(data[start:], d)
	return nil
}

//
func (f *fakeBlock) resetLog() {
	f.reads = nil
	f.writes = nil
}

//
func mustParse(s string) Bitmap {
	b, err := ParseBitmap(s)
	if err != nil {
		panic(err)
	}
	return b
}
