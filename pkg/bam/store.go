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

	log "github.com/sirupsen/logrus"
)

// Block gives access to the raw bytes of the medium. Get returns the bytes from
// start up to end of block (track, sector), Set writes data at start. Both
// fail when the block is not part of the medium.
type Block interface {
	Get(track, sector, start, end int) ([]byte, error)
	Set(track, sector, start int, data []byte) error
}

// TrackEntry is the allocation state of one track.
type TrackEntry struct {
	Track  int
	Free   uint8
	Bitmap Bitmap
}

// Store is the block availability map of one medium. It holds no state of its
// own besides geometry and layout. Every call reads and writes through the
// backing block, so the caller has to serialize access to one medium.
type Store struct {
	geometry Geometry
	layout   Layout
	block    Block
}

// NewStore creates a store for a medium with given geometry and BAM layout,
// backed by block.
func NewStore(g Geometry, l Layout, b Block) (*Store, error) {

	if b == nil {
		return nil, invalid("no backing block")
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := l.validate(g); err != nil {
		return nil, err
	}

	return &Store{geometry: g, layout: l, block: b}, nil
}

//
func (s *Store) Geometry() Geometry {
	return s.geometry
}

//
func (s *Store) Layout() Layout {
	return s.layout
}

// Entry reads the free count and bitmap of track t.
func (s *Store) Entry(t int) (TrackEntry, error) {

	if err := s.checkTrack(t); err != nil {
		return TrackEntry{}, err
	}

	n := s.geometry.SectorsPerTrack(t)
	ret := TrackEntry{Track: t}

	if s.layout.IsSplit(t) {

		split := s.layout.Split
		count, err := s.read(split.CountLocation(t))
		if err != nil {
			return TrackEntry{}, err
		}

		data, err := s.read(split.BitmapLocation(t))
		if err != nil {
			return TrackEntry{}, err
		}

		codec := EntryCodec{Size: split.EntrySize}
		if ret.Bitmap, err = codec.DecodeBitmap(data, n); err != nil {
			return TrackEntry{}, err
		}
		ret.Free = count[0]

	} else {
		data, err := s.read(s.layout.Single.EntryLocation(t))
		if err != nil {
			return TrackEntry{}, err
		}

		codec := EntryCodec{Size: s.layout.Single.EntrySize}
		if ret.Free, ret.Bitmap, err = codec.Decode(data, n); err != nil {
			return TrackEntry{}, err
		}
	}

	log.WithFields(log.Fields{
		"track":  t,
		"free":   ret.Free,
		"bitmap": ret.Bitmap,
	}).Trace("BAM entry read")

	return ret, nil
}

// SetEntry writes free count and bitmap of track t. Tracks in the split region
// take two writes, one for the count and one for the bitmap, all others one.
// The count is written as given, even if it does not match the bitmap.
func (s *Store) SetEntry(t int, free uint8, b Bitmap) error {

	if err := s.checkTrack(t); err != nil {
		return err
	}

	if n := s.geometry.SectorsPerTrack(t); b.Len() != n {
		return invalid("track %d has %d sectors, bitmap has %d", t, n, b.Len())
	}

	if s.layout.IsSplit(t) {

		split := s.layout.Split
		codec := EntryCodec{Size: split.EntrySize}

		data, err := codec.EncodeBitmap(b)
		if err != nil {
			return err
		}

		if err := s.write(split.CountLocation(t), []byte{free}); err != nil {
			return err
		}
		if err := s.write(split.BitmapLocation(t), data); err != nil {
			return err
		}

	} else {
		codec := EntryCodec{Size: s.layout.Single.EntrySize}
		data, err := codec.Encode(free, b)
		if err != nil {
			return err
		}
		if err := s.write(s.layout.Single.EntryLocation(t), data); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"track":  t,
		"free":   free,
		"bitmap": b,
	}).Debug("BAM entry written")

	return nil
}

// IsAllocated reports whether sector sec of track t is in use.
func (s *Store) IsAllocated(t, sec int) (bool, error) {
	e, err := s.entryForSector(t, sec)
	if err != nil {
		return false, err
	}
	return !e.Bitmap.IsFree(sec), nil
}

// SetAllocated marks sector sec of track t as used. It refuses sectors that are
// already in use, and tracks whose free count is zero while the bitmap still
// shows the sector as free.
func (s *Store) SetAllocated(t, sec int) error {

	e, err := s.entryForSector(t, sec)
	if err != nil {
		return err
	}

	if !e.Bitmap.IsFree(sec) {
		return fmt.Errorf("%w: %d/%d", ErrAlreadyAllocated, t, sec)
	}

	if e.Free == 0 {
		return &ConsistencyError{
			Track: t, Stored: int(e.Free), Actual: e.Bitmap.Count()}
	}

	e.Bitmap.Set(sec, false)
	log.WithFields(log.Fields{"track": t, "sector": sec}).Debug("allocating")
	return s.SetEntry(t, e.Free-1, e.Bitmap)
}

// SetFree marks sector sec of track t as free. It refuses sectors that are
// already free, and tracks whose free count cannot grow any further.
func (s *Store) SetFree(t, sec int) error {

	e, err := s.entryForSector(t, sec)
	if err != nil {
		return err
	}

	if e.Bitmap.IsFree(sec) {
		return fmt.Errorf("%w: %d/%d", ErrAlreadyFree, t, sec)
	}

	if e.Free == 255 {
		return &ConsistencyError{
			Track: t, Stored: int(e.Free), Actual: e.Bitmap.Count()}
	}

	e.Bitmap.Set(sec, true)
	log.WithFields(log.Fields{"track": t, "sector": sec}).Debug("freeing")
	return s.SetEntry(t, e.Free+1, e.Bitmap)
}

// AllocateNext allocates the first free sector of track t at or after start,
// wrapping around to sector 0, and returns it.
func (s *Store) AllocateNext(t, start int) (int, error) {

	e, err := s.Entry(t)
	if err != nil {
		return -1, err
	}

	sec, err := FreeFrom(e.Bitmap, start)
	if err != nil {
		return -1, fmt.Errorf("track %d: %w", t, err)
	}

	if err := s.SetAllocated(t, sec); err != nil {
		return -1, err
	}

	return sec, nil
}

// TotalFree returns the sum of free counts over all tracks except the
// directory track.
func (s *Store) TotalFree() (int, error) {

	ret := 0
	it := s.Entries(false)

	for it.Next() {
		ret += int(it.Entry().Free)
	}

	return ret, it.Err()
}

// Check verifies for every track, including the directory track, that the
// stored free count matches the bitmap. It stops at the first mismatch and
// does not repair anything.
func (s *Store) Check() error {

	it := s.Entries(true)

	for it.Next() {
		e := it.Entry()
		if actual := e.Bitmap.Count(); actual != int(e.Free) {
			log.WithFields(log.Fields{
				"track":  e.Track,
				"stored": e.Free,
				"actual": actual,
			}).Warn("BAM free count mismatch")
			return &ConsistencyError{
				Track: e.Track, Stored: int(e.Free), Actual: actual}
		}
	}

	return it.Err()
}

// FreeAll marks every sector of the medium as free, including the directory
// track. This is a raw reset. The blocks holding the BAM itself, such as 18/0,
// become free as well, so a caller laying out a fresh directory has to allocate
// them again.
func (s *Store) FreeAll() error {
	for t := 1; t <= s.geometry.MaxTrack; t++ {
		b := FullBitmap(s.geometry.SectorsPerTrack(t))
		if err := s.SetEntry(t, uint8(b.Count()), b); err != nil {
			return err
		}
	}
	log.Info("all sectors freed")
	return nil
}

//
func (s *Store) entryForSector(t, sec int) (TrackEntry, error) {

	e, err := s.Entry(t)
	if err != nil {
		return TrackEntry{}, err
	}

	if !s.geometry.ValidSector(t, sec) {
		return TrackEntry{}, invalid("sector %d out of range [0, %d) on track %d",
			sec, s.geometry.SectorsPerTrack(t), t)
	}

	return e, nil
}

//
func (s *Store) checkTrack(t int) error {
	if !s.geometry.ValidTrack(t) {
		return invalid("track %d out of range [1, %d]", t, s.geometry.MaxTrack)
	}
	return nil
}

//
func (s *Store) read(r Region) ([]byte, error) {
	data, err := s.block.Get(r.Block.Track, r.Block.Sector, r.Offset, r.End())
	if err != nil {
		return nil, fmt.Errorf("reading BAM at %v+%d: %w", r.Block, r.Offset, err)
	}
	if len(data) != r.Length {
		return nil, fmt.Errorf("reading BAM at %v+%d: want %d bytes, got %d",
			r.Block, r.Offset, r.Length, len(data))
	}
	return data, nil
}

//
func (s *Store) write(r Region, data []byte) error {
	if err := s.block.Set(r.Block.Track, r.Block.Sector, r.Offset, data); err != nil {
		return fmt.Errorf("writing BAM at %v+%d: %w", r.Block, r.Offset, err)
	}
	return nil
}
