/*
 * xtc_test.go, part of goxtc.
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

package xdrfile_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/goxtc/internal/xtctest"
	"github.com/rmera/goxtc/xdrfile"
)

var box = [9]float32{3, 0, 0, 0, 3.5, 0, 0, 0, 4}

func threeAtoms() []xtctest.Frame {
	return []xtctest.Frame{
		{Step: 0, Time: 0, Box: box, Coords: []float32{0.1, 0.2, 0.3, 1.1, 1.2, 1.3, 2.1, 2.2, 2.3}},
		{Step: 100, Time: 0.2, Box: box, Coords: []float32{0.15, 0.25, 0.35, 1.15, 1.25, 1.35, 2.15, 2.25, 2.35}},
	}
}

func waterFrames(natoms, nframes int) []xtctest.Frame {
	frames := make([]xtctest.Frame, nframes)
	for i := range frames {
		frames[i] = xtctest.Frame{
			Step:   int32(i * 500),
			Time:   float32(i),
			Box:    box,
			Coords: xtctest.Waters(natoms, 0.05*float32(i)),
		}
	}
	return frames
}

func writeTemp(Te *testing.T, name string, frames ...xtctest.Frame) string {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), name)
	if err := xtctest.Write(path, frames...); err != nil {
		Te.Fatal(err)
	}
	return path
}

func encode(Te *testing.T, frames ...xtctest.Frame) []byte {
	Te.Helper()
	data, err := xtctest.Encode(frames...)
	if err != nil {
		Te.Fatal(err)
	}
	return data
}

// readAll decodes every frame in s, checking them against frames,
// and expects ErrEndOfStream afterwards.
func readAll(Te *testing.T, s xdrfile.Stream, frames []xtctest.Frame) {
	Te.Helper()
	natoms := frames[0].Natoms()
	coords := make([]float32, 3*natoms)
	b := make([]float32, 9)
	for i, f := range frames {
		h, err := s.DecodeFrame(natoms, b, coords)
		if err != nil {
			Te.Fatalf("frame %d: %v", i, err)
		}
		if h.Step != int(f.Step) || h.Time != f.Time || h.Natoms != natoms {
			Te.Errorf("frame %d: got header %+v", i, h)
		}
		if natoms <= 9 && h.Precision != -1 {
			Te.Errorf("frame %d: uncompressed frame with precision %v", i, h.Precision)
		}
		if natoms > 9 && h.Precision != xtctest.DefaultPrecision {
			Te.Errorf("frame %d: precision %v", i, h.Precision)
		}
		for j, v := range xtctest.Expected(f) {
			if coords[j] != v {
				Te.Fatalf("frame %d, coordinate %d: got %v, want %v", i, j, coords[j], v)
			}
		}
		for j, v := range f.Box {
			if b[j] != v {
				Te.Errorf("frame %d, box %d: got %v, want %v", i, j, b[j], v)
			}
		}
	}
	if _, err := s.DecodeFrame(natoms, b, coords); !errors.Is(err, xdrfile.ErrEndOfStream) {
		Te.Errorf("expected end of stream, got %v", err)
	}
}

func TestDecodeUncompressed(Te *testing.T) {
	frames := threeAtoms()
	s := xdrfile.NewStream(bytes.NewReader(encode(Te, frames...)))
	defer s.Close()
	readAll(Te, s, frames)
}

func TestDecodeCompressed(Te *testing.T) {
	for _, natoms := range []int{10, 40, 301} {
		frames := waterFrames(natoms, 4)
		s := xdrfile.NewStream(bytes.NewReader(encode(Te, frames...)))
		readAll(Te, s, frames)
		s.Close()
	}
}

func TestDecodeLargeMagic(Te *testing.T) {
	frames := waterFrames(50, 2)
	for i := range frames {
		frames[i].Large = true
	}
	s := xdrfile.NewStream(bytes.NewReader(encode(Te, frames...)))
	defer s.Close()
	readAll(Te, s, frames)
}

// Coordinate ranges above 0xffffff are stored one number at a time.
func TestDecodeWideRange(Te *testing.T) {
	c := xtctest.Waters(12, 0)
	c[0] = 20000 //nm, 2e7 in integer units
	frames := []xtctest.Frame{{Step: 1, Box: box, Coords: c}}
	s := xdrfile.NewStream(bytes.NewReader(encode(Te, frames...)))
	defer s.Close()
	readAll(Te, s, frames)
}

func TestGoCodecContainers(Te *testing.T) {
	frames := waterFrames(33, 3)
	for _, name := range []string{"traj.xtc", "traj.xtc.gz", "traj.xtc.zst"} {
		path := writeTemp(Te, name, frames...)
		codec := xdrfile.GoCodec{}
		n, err := codec.ProbeAtomCount(path)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if n != 33 {
			Te.Errorf("%s: probed %d atoms", name, n)
		}
		s, err := codec.Open(path)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		readAll(Te, s, frames)
		if err := s.Close(); err != nil {
			Te.Error(err)
		}
		if err := s.Close(); err != nil {
			Te.Error("second close:", err)
		}
	}
}

func TestGoCodecForcedFormat(Te *testing.T) {
	frames := threeAtoms()
	path := writeTemp(Te, "traj.zst", frames...)
	if _, err := (xdrfile.GoCodec{Format: "zst"}).ProbeAtomCount(path); err != nil {
		Te.Error(err)
	}
	//read as plain XTC, the zstd magic number is not an XTC one.
	if _, err := (xdrfile.GoCodec{Format: "xtc"}).ProbeAtomCount(path); err == nil {
		Te.Error("zstd data read as plain XTC should fail")
	}
}

func TestProbeFailures(Te *testing.T) {
	dir := Te.TempDir()
	empty := filepath.Join(dir, "empty.xtc")
	garbage := filepath.Join(dir, "garbage.xtc")
	zero := filepath.Join(dir, "zero.xtc")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		Te.Fatal(err)
	}
	if err := os.WriteFile(garbage, []byte("this is not a trajectory at all"), 0o644); err != nil {
		Te.Fatal(err)
	}
	data := encode(Te, threeAtoms()[0])
	binary.BigEndian.PutUint32(data[4:8], 0)
	if err := os.WriteFile(zero, data, 0o644); err != nil {
		Te.Fatal(err)
	}
	codec := xdrfile.GoCodec{}
	for _, p := range []string{filepath.Join(dir, "missing.xtc"), empty, garbage, zero} {
		n, err := codec.ProbeAtomCount(p)
		if err == nil || n != 0 {
			Te.Errorf("%s: got %d atoms, error %v", filepath.Base(p), n, err)
		}
		var de *xdrfile.DecodeError
		if !errors.As(err, &de) {
			Te.Errorf("%s: error %v is not a DecodeError", filepath.Base(p), err)
		}
	}
	if _, err := codec.Open(filepath.Join(dir, "missing.xtc")); err == nil {
		Te.Error("opening a missing file should fail")
	}
}

func TestAtomCountMismatch(Te *testing.T) {
	frames := waterFrames(20, 1)
	s := xdrfile.NewStream(bytes.NewReader(encode(Te, frames...)))
	defer s.Close()
	coords := make([]float32, 3*21)
	_, err := s.DecodeFrame(21, make([]float32, 9), coords)
	var de *xdrfile.DecodeError
	if !errors.As(err, &de) || de.Code != xdrfile.ExdrNR {
		Te.Errorf("expected an atom number error, got %v", err)
	}
}

// A compressed block holding more atoms than the header declares must
// not be written past the requested atoms.
func TestNoOverrun(Te *testing.T) {
	c := make([]float32, 0, 75)
	for i := 0; i < 25; i++ {
		c = append(c, 0.005, 0.005, 0.005)
	}
	data := encode(Te, xtctest.Frame{Box: box, Coords: c})
	//identical atoms are packed 10 to a run: 10, 10, 5. Declaring 15
	//makes the second run spill over.
	binary.BigEndian.PutUint32(data[4:8], 15)
	binary.BigEndian.PutUint32(data[52:56], 15)
	coords := make([]float32, 3*15+6)
	for i := range coords {
		coords[i] = -7
	}
	s := xdrfile.NewStream(bytes.NewReader(data))
	defer s.Close()
	_, err := s.DecodeFrame(15, make([]float32, 9), coords[:3*15+6])
	var de *xdrfile.DecodeError
	if !errors.As(err, &de) {
		Te.Fatalf("expected a decode error, got %v", err)
	}
	for i := 3 * 15; i < len(coords); i++ {
		if coords[i] != -7 {
			Te.Errorf("coordinate %d past the requested atoms was written", i)
		}
	}
}

// Cutting a trajectory anywhere but at a frame boundary is corruption,
// cutting it at a boundary is a clean end of stream.
func TestTruncated(Te *testing.T) {
	frames := waterFrames(15, 2)
	first := len(encode(Te, frames[0]))
	data := encode(Te, frames...)
	coords := make([]float32, 45)
	b := make([]float32, 9)
	for cut := 0; cut < len(data); cut++ {
		s := xdrfile.NewStream(bytes.NewReader(data[:cut]))
		var err error
		read := 0
		for ; read < 3; read++ {
			if _, err = s.DecodeFrame(15, b, coords); err != nil {
				break
			}
		}
		switch {
		case cut == 0 || cut == first:
			if !errors.Is(err, xdrfile.ErrEndOfStream) {
				Te.Errorf("cut at %d: expected end of stream, got %v", cut, err)
			}
		default:
			var de *xdrfile.DecodeError
			if !errors.As(err, &de) {
				Te.Errorf("cut at %d: expected a decode error, got %v", cut, err)
			}
		}
	}
}

// Random damage to the compressed block must end in a decode error or in
// some coordinates, never in a panic or a write past the buffer.
func TestCorruptBlocks(Te *testing.T) {
	data := encode(Te, waterFrames(40, 1)...)
	rng := rand.New(rand.NewSource(1995))
	coords := make([]float32, 3*40+3)
	b := make([]float32, 9)
	for trial := 0; trial < 500; trial++ {
		bad := append([]byte(nil), data...)
		for k := 0; k < 1+rng.Intn(4); k++ {
			pos := 56 + rng.Intn(len(bad)-56)
			bad[pos] ^= byte(1 + rng.Intn(255))
		}
		coords[120], coords[121], coords[122] = 1, 2, 3
		s := xdrfile.NewStream(bytes.NewReader(bad))
		s.DecodeFrame(40, b, coords[:120])
		if coords[120] != 1 || coords[121] != 2 || coords[122] != 3 {
			Te.Fatalf("trial %d wrote past the coordinate buffer", trial)
		}
	}
}

func FuzzDecodeFrame(F *testing.F) {
	for _, frames := range [][]xtctest.Frame{threeAtoms(), waterFrames(12, 2)} {
		data, err := xtctest.Encode(frames...)
		if err != nil {
			F.Fatal(err)
		}
		F.Add(data, uint16(frames[0].Natoms()))
	}
	F.Fuzz(func(t *testing.T, data []byte, natoms uint16) {
		n := int(natoms%64) + 1
		s := xdrfile.NewStream(bytes.NewReader(data))
		coords := make([]float32, 3*n)
		b := make([]float32, 9)
		for i := 0; i < 4; i++ {
			if _, err := s.DecodeFrame(n, b, coords); err != nil {
				return
			}
		}
	})
}
