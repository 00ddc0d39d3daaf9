/*
 * main.go, part of goxtc
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

// Command libxtc is the C interface to goxtc. Build it with
//
//	go build -buildmode=c-shared -o libxtc.so ./cmd/libxtc
//
// which also writes libxtc.h. Handles are int64 values, 0 meaning failure.
// xtc_read_frame returns 0 on success, 11 at the end of the trajectory,
// 1 for a frame that can't be decoded and 2 for invalid arguments.
// Coordinates and box are in nm, and the buffers belong to the caller.
package main

//#include <stdint.h>
import "C"

import (
	"unsafe"

	"github.com/rmera/goxtc/capi"
)

var table = capi.NewTable(nil)

//export xtc_open
func xtc_open(path *C.char) C.int64_t {
	if path == nil {
		return 0
	}
	return C.int64_t(table.Open(C.GoString(path)))
}

//export xtc_natoms
func xtc_natoms(path *C.char) C.int {
	if path == nil {
		return 0
	}
	return C.int(table.AtomCount(C.GoString(path)))
}

// xtc_read_frame fills coords (3*natoms floats) and box (9 floats), and
// writes the step and time of the frame into step and time, if they are not NULL.
//
//export xtc_read_frame
func xtc_read_frame(h C.int64_t, natoms C.int, coords *C.float, box *C.float, step *C.int, time *C.float) C.int {
	if coords == nil || box == nil || natoms <= 0 {
		return C.int(capi.StatusInvalidArgument)
	}
	c := unsafe.Slice((*float32)(unsafe.Pointer(coords)), 3*int(natoms))
	b := unsafe.Slice((*float32)(unsafe.Pointer(box)), 9)
	s, t, st := table.ReadFrame(int64(h), int(natoms), c, b)
	if st == capi.StatusOK {
		if step != nil {
			*step = C.int(s)
		}
		if time != nil {
			*time = C.float(t)
		}
	}
	return C.int(st)
}

//export xtc_close
func xtc_close(h C.int64_t) {
	table.Close(int64(h))
}

func main() {}
