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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleRegionLocation(t *testing.T) {
	assert := assert.New(t)
	l := testD64Layout.Single

	assert.Equal(Region{BlockID{18, 0}, 4, 4}, l.EntryLocation(1))
	assert.Equal(Region{BlockID{18, 0}, 0x48, 4}, l.EntryLocation(18))
	assert.Equal(Region{BlockID{18, 0}, 0x8c, 4}, l.EntryLocation(35))
	assert.Equal(0x90, l.EntryLocation(35).End())
}

func TestSplitRegionLocation(t *testing.T) {
	assert := assert.New(t)
	l := testD71Layout.Split

	assert.Equal(Region{BlockID{18, 0}, 0xdd, 1}, l.CountLocation(36))
	assert.Equal(Region{BlockID{18, 0}, 0xff, 1}, l.CountLocation(70))
	assert.Equal(Region{BlockID{53, 0}, 0, 3}, l.BitmapLocation(36))
	assert.Equal(Region{BlockID{53, 0}, 102, 3}, l.BitmapLocation(70))
}

func TestLayoutIsSplit(t *testing.T) {
	assert := assert.New(t)

	assert.False(testD64Layout.IsSplit(35))
	assert.False(testD64Layout.IsSplit(36), "no split region configured")
	assert.False(testD71Layout.IsSplit(1))
	assert.False(testD71Layout.IsSplit(35))
	assert.True(testD71Layout.IsSplit(36))
	assert.True(testD71Layout.IsSplit(70))
}

func TestLayoutValidate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(testD64Layout.validate(testD64Geometry))
	assert.NoError(testD71Layout.validate(testD71Geometry))

	l := testD64Layout
	l.Single.EntrySize = 3
	assert.True(errors.Is(l.validate(testD64Geometry), ErrInvalidArgument),
		"21 sectors do not fit into two bytes")

	split := *testD71Layout.Split
	split.Threshold = 71
	l = Layout{Single: testD71Layout.Single, Split: &split}
	assert.True(errors.Is(l.validate(testD71Geometry), ErrInvalidArgument))

	split = *testD71Layout.Split
	split.Secondary = split.Primary
	l = Layout{Single: testD71Layout.Single, Split: &split}
	assert.True(errors.Is(l.validate(testD71Geometry), ErrInvalidArgument))
}

func TestGeometry(t *testing.T) {
	assert := assert.New(t)
	g := testD64Geometry

	assert.Equal(21, g.SectorsPerTrack(1))
	assert.Equal(21, g.SectorsPerTrack(17))
	assert.Equal(19, g.SectorsPerTrack(18))
	assert.Equal(18, g.SectorsPerTrack(30))
	assert.Equal(17, g.SectorsPerTrack(35))
	assert.Equal(0, g.SectorsPerTrack(0))
	assert.Equal(0, g.SectorsPerTrack(36))
	assert.Equal(21, g.MaxSectors())
	assert.Equal(683, g.SectorCount())
	assert.Equal(1366, testD71Geometry.SectorCount())

	assert.True(g.ValidSector(18, 18))
	assert.False(g.ValidSector(18, 19))
	assert.False(g.ValidSector(18, -1))

	assert.NoError(g.Validate())
	broken := Geometry{MaxTrack: 3, Zones: []Zone{{1, 2, 10}}}
	assert.True(errors.Is(broken.Validate(), ErrInvalidArgument))
	tooWide := Geometry{MaxTrack: 1, Zones: []Zone{{1, 1, MaxSectors + 1}}}
	assert.True(errors.Is(tooWide.Validate(), ErrInvalidArgument))
}
