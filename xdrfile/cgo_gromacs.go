//go:build gromacs

/*
 * cgo_gromacs.go, part of goxtc.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package xdrfile

// #cgo LDFLAGS: -lxdrfile -lm
//#include <stdlib.h>
//#include <xdrfile.h>
//#include <xdrfile_xtc.h>
import "C"
import "unsafe"

// CgoCodec is a Codec backed by the C libxdrfile. It is only
// available when building with the "gromacs" tag.
type CgoCodec struct{}

// ProbeAtomCount returns the number of atoms in the first frame of path.
func (CgoCodec) ProbeAtomCount(path string) (int, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var natoms C.int
	if code := C.read_xtc_natoms(cpath, &natoms); code != ExdrOK {
		return 0, decodeErr(int(code), nil, "probing %s", path)
	}
	if natoms <= 0 {
		return 0, decodeErr(ExdrNR, nil, "%d atoms declared in %s", int(natoms), path)
	}
	return int(natoms), nil
}

// Open opens path for reading with xdrfile_open.
func (CgoCodec) Open(path string) (Stream, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cmode := C.CString("r")
	defer C.free(unsafe.Pointer(cmode))
	fp := C.xdrfile_open(cpath, cmode)
	if fp == nil {
		return nil, decodeErr(ExdrFileNotFound, nil, "unable to open %s", path)
	}
	return &cStream{fp: fp}, nil
}

// cStream is the Stream returned by CgoCodec.
type cStream struct {
	fp *C.XDRFILE
}

// DecodeFrame reads the next frame with read_xtc. Code 11 (exdrENDOFFILE)
// becomes ErrEndOfStream, every other nonzero code a DecodeError.
func (s *cStream) DecodeFrame(natoms int, box, coords []float32) (Header, error) {
	h := Header{Natoms: natoms}
	if s.fp == nil {
		return h, decodeErr(ExdrClose, nil, "stream is closed")
	}
	if natoms <= 0 || len(box) < BoxLen || len(coords) < 3*natoms {
		return h, decodeErr(ExdrNR, nil, "buffers too small for %d atoms", natoms)
	}
	var step C.int
	var time, prec C.float
	cbox := (*[DIM]C.float)(unsafe.Pointer(&box[0]))
	cx := (*[DIM]C.float)(unsafe.Pointer(&coords[0]))
	worked := C.read_xtc(s.fp, C.int(natoms), &step, &time, cbox, cx, &prec)
	if worked == ExdrEndOfFile {
		return h, ErrEndOfStream
	}
	if worked != ExdrOK {
		return h, decodeErr(int(worked), nil, "read_xtc")
	}
	h.Step = int(step)
	h.Time = float32(time)
	h.Precision = float32(prec)
	return h, nil
}

// Close closes the file with xdrfile_close. Further calls do nothing.
func (s *cStream) Close() error {
	if s.fp == nil {
		return nil
	}
	code := C.xdrfile_close(s.fp)
	s.fp = nil
	if code != ExdrOK {
		return decodeErr(int(code), nil, "xdrfile_close")
	}
	return nil
}
