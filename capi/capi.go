/*
 * capi.go, part of goxtc
 *
 * Copyright 2012 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

// Package capi keeps the trajectories opened from a foreign language, behind
// integer handles, and turns errors into status codes.
package capi

import (
	"errors"
	"sync"

	"github.com/rmera/goxtc/traj/xtc"
)

// Status is the result of a ReadFrame call.
type Status int32

const (
	StatusOK              Status = 0
	StatusDecodeFailed    Status = 1
	StatusInvalidArgument Status = 2
	//Same value as exdrENDOFFILE in libxdrfile.
	StatusEndOfStream Status = 11
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusDecodeFailed:
		return "DecodeFailed"
	case StatusInvalidArgument:
		return "InvalidArgument"
	case StatusEndOfStream:
		return "EndOfStream"
	}
	return "Unknown"
}

// StatusOf returns the status code for err, as returned by xtc.XTCObj.ReadFrame.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, xtc.ErrEndOfStream):
		return StatusEndOfStream
	case errors.Is(err, xtc.ErrInvalidArgument):
		return StatusInvalidArgument
	default:
		return StatusDecodeFailed
	}
}

type entry struct {
	sync.Mutex
	traj *xtc.XTCObj
}

// Table maps handles to open trajectories. It is safe for concurrent use.
// Calls on different handles don't block each other.
// The zero value is ready to use.
type Table struct {
	mu      sync.Mutex
	last    int64
	entries map[int64]*entry
	opts    *xtc.Options
}

// NewTable returns a Table that opens trajectories with opts.
func NewTable(opts *xtc.Options) *Table {
	return &Table{opts: opts}
}

// Open opens the trajectory at path, and returns its handle, or 0 if
// it can't be opened.
func (T *Table) Open(path string) int64 {
	traj, err := xtc.Open(path, T.opts)
	if err != nil {
		return 0
	}
	T.mu.Lock()
	defer T.mu.Unlock()
	if T.entries == nil {
		T.entries = make(map[int64]*entry)
	}
	T.last++
	T.entries[T.last] = &entry{traj: traj}
	return T.last
}

// AtomCount returns the number of atoms in the first frame of the trajectory
// at path, or 0 if it can't be read.
func (T *Table) AtomCount(path string) int {
	n, err := xtc.AtomCount(path, T.opts)
	if err != nil {
		return 0
	}
	return n
}

func (T *Table) get(h int64) *entry {
	T.mu.Lock()
	defer T.mu.Unlock()
	return T.entries[h]
}

// ReadFrame reads the next frame of the trajectory with handle h into coords and box,
// in nm, and returns its step and time. An unknown handle is an invalid argument.
func (T *Table) ReadFrame(h int64, natoms int, coords, box []float32) (int32, float32, Status) {
	e := T.get(h)
	if e == nil {
		return 0, 0, StatusInvalidArgument
	}
	e.Lock()
	defer e.Unlock()
	info, err := e.traj.ReadFrame(natoms, coords, box)
	if err != nil {
		return 0, 0, StatusOf(err)
	}
	return int32(info.Step), info.Time, StatusOK
}

// Close closes the trajectory with handle h and forgets the handle.
// Unknown handles are ignored.
func (T *Table) Close(h int64) {
	T.mu.Lock()
	e := T.entries[h]
	delete(T.entries, h)
	T.mu.Unlock()
	if e == nil {
		return
	}
	e.Lock()
	defer e.Unlock()
	e.traj.Close()
}

// Len returns the number of open trajectories.
func (T *Table) Len() int {
	T.mu.Lock()
	defer T.mu.Unlock()
	return len(T.entries)
}
