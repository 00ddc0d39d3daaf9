//go:build cgo

/*
 * main_test.go, part of goxtc
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


package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/goxtc/capi"
	"github.com/rmera/goxtc/internal/xtctest"
)

var box = [9]float32{4, 0, 0, 0, 4, 0, 0, 0, 4}

func threeAtoms(Te *testing.T) (string, []xtctest.Frame) {
	Te.Helper()
	frames := []xtctest.Frame{
		{Step: 0, Time: 0, Box: box, Coords: []float32{0.1, 0.2, 0.3, 1.1, 1.2, 1.3, 2.1, 2.2, 2.3}},
		{Step: 100, Time: 0.2, Box: box, Coords: []float32{0.15, 0.25, 0.35, 1.15, 1.25, 1.35, 2.15, 2.25, 2.35}},
	}
	path := filepath.Join(Te.TempDir(), "three.xtc")
	if err := xtctest.Write(path, frames...); err != nil {
		Te.Fatal(err)
	}
	return path, frames
}

func TestNullPointers(Te *testing.T) {
	if h := xtc_open(nil); h != 0 {
		Te.Errorf("xtc_open(NULL) gave handle %d", h)
	}
	if n := xtc_natoms(nil); n != 0 {
		Te.Errorf("xtc_natoms(NULL) gave %d atoms", n)
	}
	path, frames := threeAtoms(Te)
	p, free := cString(path)
	defer free()
	h := xtc_open(p)
	if h <= 0 {
		Te.Fatalf("got handle %d", h)
	}
	defer xtc_close(h)
	coords := make([]float32, 9)
	b := make([]float32, 9)
	step, time := int32(-1), float32(-1)
	if st := xtc_read_frame(h, 3, nil, cFloats(b), cInt(&step), cFloat(&time)); capi.Status(st) != capi.StatusInvalidArgument {
		Te.Errorf("NULL coords: %v", capi.Status(st))
	}
	if st := xtc_read_frame(h, 3, cFloats(coords), nil, cInt(&step), cFloat(&time)); capi.Status(st) != capi.StatusInvalidArgument {
		Te.Errorf("NULL box: %v", capi.Status(st))
	}
	if st := xtc_read_frame(h, 0, cFloats(coords), cFloats(b), cInt(&step), cFloat(&time)); capi.Status(st) != capi.StatusInvalidArgument {
		Te.Errorf("no atoms: %v", capi.Status(st))
	}
	if step != -1 || time != -1 {
		Te.Errorf("step %d and time %v written by a failed call", step, time)
	}
	//The calls above must not have consumed a frame.
	if st := xtc_read_frame(h, 3, cFloats(coords), cFloats(b), cInt(&step), cFloat(&time)); capi.Status(st) != capi.StatusOK {
		Te.Fatalf("first frame: %v", capi.Status(st))
	}
	if step != frames[0].Step || coords[0] != frames[0].Coords[0] {
		Te.Errorf("expected the first frame, got step %d coordinates %v", step, coords)
	}
	//step and time are optional.
	if st := xtc_read_frame(h, 3, cFloats(coords), cFloats(b), nil, nil); capi.Status(st) != capi.StatusOK {
		Te.Fatalf("second frame: %v", capi.Status(st))
	}
	if coords[8] != frames[1].Coords[8] || b[4] != 4 {
		Te.Errorf("second frame: coordinates %v box %v", coords, b)
	}
}

func TestForeignSession(Te *testing.T) {
	path, frames := threeAtoms(Te)
	p, free := cString(path)
	defer free()
	natoms := xtc_natoms(p)
	if natoms != 3 {
		Te.Fatalf("got %d atoms", natoms)
	}
	h := xtc_open(p)
	if h <= 0 {
		Te.Fatalf("got handle %d", h)
	}
	coords := make([]float32, 3*natoms)
	b := make([]float32, 9)
	var step int32
	var time float32
	for i, f := range frames {
		st := xtc_read_frame(h, natoms, cFloats(coords), cFloats(b), cInt(&step), cFloat(&time))
		if capi.Status(st) != capi.StatusOK {
			Te.Fatalf("frame %d: %v", i, capi.Status(st))
		}
		if step != f.Step || time != f.Time {
			Te.Errorf("frame %d: step %d time %v", i, step, time)
		}
		for j, v := range f.Coords {
			if coords[j] != v {
				Te.Errorf("frame %d: coordinates %v, expected %v", i, coords, f.Coords)
				break
			}
		}
	}
	//At the end, step and time keep the values of the last frame.
	for again := 0; again < 2; again++ {
		step, time = -1, -1
		st := xtc_read_frame(h, natoms, cFloats(coords), cFloats(b), cInt(&step), cFloat(&time))
		if capi.Status(st) != capi.StatusEndOfStream || int(st) != 11 {
			Te.Errorf("expected the end of the trajectory, got %v", capi.Status(st))
		}
		if step != -1 || time != -1 {
			Te.Errorf("step %d and time %v written at the end of the trajectory", step, time)
		}
	}
	xtc_close(h)
	xtc_close(h)
	xtc_close(0)
	xtc_close(-3)
	if st := xtc_read_frame(h, natoms, cFloats(coords), cFloats(b), nil, nil); capi.Status(st) != capi.StatusInvalidArgument {
		Te.Errorf("reading a closed handle: %v", capi.Status(st))
	}
	if table.Len() != 0 {
		Te.Errorf("%d handles left open", table.Len())
	}
}

func TestBadFiles(Te *testing.T) {
	dir := Te.TempDir()
	missing, free := cString(filepath.Join(dir, "missing.xtc"))
	defer free()
	if h := xtc_open(missing); h != 0 {
		Te.Errorf("missing file: handle %d", h)
	}
	if n := xtc_natoms(missing); n != 0 {
		Te.Errorf("missing file: %d atoms", n)
	}
	//The header claims 2^31-1 atoms, and there is no frame body.
	huge := filepath.Join(dir, "huge.xtc")
	data := []byte{0, 0, 0x07, 0xcb, 0x7f, 0xff, 0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0}
	if err := os.WriteFile(huge, data, 0o644); err != nil {
		Te.Fatal(err)
	}
	p, free2 := cString(huge)
	defer free2()
	h := xtc_open(p)
	if h <= 0 {
		Te.Fatalf("got handle %d", h)
	}
	defer xtc_close(h)
	coords := make([]float32, 9)
	b := make([]float32, 9)
	step := int32(-1)
	if st := xtc_read_frame(h, 3, cFloats(coords), cFloats(b), cInt(&step), nil); capi.Status(st) != capi.StatusDecodeFailed {
		Te.Errorf("expected %v, got %v", capi.StatusDecodeFailed, capi.Status(st))
	}
	if step != -1 {
		Te.Errorf("step %d written by a failed read", step)
	}
}
