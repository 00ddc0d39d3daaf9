/*
 * xtc.go, part of goxtc.
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

import (
	"errors"
	"io"
)

const (
	// Magic is the number at the start of every XTC frame.
	Magic int32 = 1995
	// MagicLarge marks frames from GROMACS 2023 and later whose compressed
	// block byte count is stored as a 64-bit integer.
	MagicLarge int32 = 2023
	// DIM is the number of spatial dimensions.
	DIM = 3
	// BoxLen is the number of values in a box matrix.
	BoxLen = DIM * DIM
	// maxUncompressed is the largest atom count stored without compression.
	maxUncompressed = 9
)

// Header is the per-frame metadata produced by DecodeFrame.
// Precision is -1 for frames stored without compression.
type Header struct {
	Natoms    int
	Step      int
	Time      float32
	Precision float32
}

// Codec opens XTC trajectories for reading.
type Codec interface {
	// Open opens the trajectory at path for reading.
	Open(path string) (Stream, error)
	// ProbeAtomCount reads the header of the first frame in path and
	// returns the number of atoms declared there.
	ProbeAtomCount(path string) (int, error)
}

// Stream is an open trajectory. A Stream is not safe for concurrent use.
type Stream interface {
	// DecodeFrame decodes the next frame. box must hold at least BoxLen
	// values and coords at least 3*natoms. Only box[:BoxLen] and
	// coords[:3*natoms] are written. The frame must declare exactly natoms atoms.
	DecodeFrame(natoms int, box, coords []float32) (Header, error)
	Close() error
}

// GoCodec is the pure Go Codec.
type GoCodec struct {
	//Container format: "" to detect it from the first bytes of the file,
	//"xtc", "gz" or "zst" to force one.
	Format string
	//Size of the read buffer. 0 means DefaultBufferSize.
	BufferSize int
}

// Open opens path for reading, decompressing it on the fly if needed.
func (G GoCodec) Open(path string) (Stream, error) {
	c, err := openContainer(path, G.Format, G.BufferSize)
	if err != nil {
		return nil, err
	}
	return &stream{c: c, x: xdrReader{r: c}}, nil
}

// ProbeAtomCount returns the number of atoms in the first frame of path.
func (G GoCodec) ProbeAtomCount(path string) (int, error) {
	c, err := openContainer(path, G.Format, G.BufferSize)
	if err != nil {
		return 0, err
	}
	defer c.Close()
	s := &stream{c: c, x: xdrReader{r: c}}
	h, err := s.header()
	if err != nil {
		if errors.Is(err, ErrEndOfStream) {
			return 0, decodeErr(ExdrHeader, nil, "no frames in %s", path)
		}
		return 0, err
	}
	if h.Natoms <= 0 {
		return 0, decodeErr(ExdrNR, nil, "%d atoms declared in %s", h.Natoms, path)
	}
	return h.Natoms, nil
}

// NewStream returns a Stream that decodes plain (uncompressed) XTC data from
// r. Closing the Stream closes r if r is an io.Closer.
func NewStream(r io.Reader) Stream {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	return &stream{c: rc, x: xdrReader{r: rc}}
}

// stream is the Stream returned by GoCodec.
type stream struct {
	c     io.ReadCloser
	x     xdrReader
	magic int32
	block []byte
}

// Close closes the underlying file. Further calls do nothing.
func (s *stream) Close() error {
	if s.c == nil {
		return nil
	}
	err := s.c.Close()
	s.c = nil
	return err
}

// header reads the frame header. A clean EOF before the first byte
// is ErrEndOfStream, a partial header is an error.
func (s *stream) header() (Header, error) {
	var h Header
	magic, err := s.x.int32()
	if err == io.EOF {
		return h, ErrEndOfStream
	}
	if err != nil {
		return h, decodeErr(ExdrInt, err, "frame magic number")
	}
	if magic != Magic && magic != MagicLarge {
		return h, decodeErr(ExdrMagic, nil, "got %d, expected %d", magic, Magic)
	}
	s.magic = magic
	natoms, err := s.x.int32()
	if err != nil {
		return h, decodeErr(ExdrInt, err, "atom count")
	}
	step, err := s.x.int32()
	if err != nil {
		return h, decodeErr(ExdrInt, err, "step")
	}
	time, err := s.x.float32()
	if err != nil {
		return h, decodeErr(ExdrFloat, err, "time")
	}
	h.Natoms = int(natoms)
	h.Step = int(step)
	h.Time = time
	return h, nil
}

// DecodeFrame reads the next frame into box and coords.
func (s *stream) DecodeFrame(natoms int, box, coords []float32) (Header, error) {
	if s.c == nil {
		return Header{}, decodeErr(ExdrClose, nil, "stream is closed")
	}
	if natoms <= 0 || len(box) < BoxLen || len(coords) < 3*natoms {
		return Header{}, decodeErr(ExdrNR, nil, "buffers too small for %d atoms", natoms)
	}
	h, err := s.header()
	if err != nil {
		return h, err
	}
	if h.Natoms != natoms {
		return h, decodeErr(ExdrNR, nil, "frame has %d atoms, %d expected", h.Natoms, natoms)
	}
	if err := s.x.floats32(box[:BoxLen]); err != nil {
		return h, decodeErr(ExdrFloat, err, "box")
	}
	h.Precision, err = s.coords(natoms, coords[:3*natoms])
	return h, err
}

// maxBlock is the largest compressed coordinate block accepted for natoms
// atoms. Each atom takes at most three 32-bit numbers plus a few flag bits.
func maxBlock(natoms int) int64 {
	return int64(natoms)*16 + 64
}

// coords decodes the coordinate block of a frame into out, which has
// exactly 3*natoms elements, and returns the precision.
func (s *stream) coords(natoms int, out []float32) (float32, error) {
	lsize, err := s.x.int32()
	if err != nil {
		return 0, decodeErr(ExdrInt, err, "coordinate count")
	}
	if int(lsize) != natoms {
		return 0, decodeErr(ExdrNR, nil, "coordinate block has %d atoms, %d expected", lsize, natoms)
	}
	if natoms <= maxUncompressed {
		if err := s.x.floats32(out); err != nil {
			return 0, decodeErr(ExdrFloat, err, "uncompressed coordinates")
		}
		return -1, nil
	}
	prec, err := s.x.float32()
	if err != nil {
		return 0, decodeErr(ExdrFloat, err, "precision")
	}
	if !(prec > 0) {
		return 0, decodeErr(Exdr3DX, nil, "invalid precision %g", prec)
	}
	var minint, maxint [3]int32
	for i := range minint {
		if minint[i], err = s.x.int32(); err != nil {
			return 0, decodeErr(ExdrInt, err, "minimum coordinates")
		}
	}
	for i := range maxint {
		if maxint[i], err = s.x.int32(); err != nil {
			return 0, decodeErr(ExdrInt, err, "maximum coordinates")
		}
	}
	var sizeint [3]uint32
	for i := range sizeint {
		size := int64(maxint[i]) - int64(minint[i]) + 1
		if size <= 0 || size > int64(^uint32(0)) {
			return 0, decodeErr(Exdr3DX, nil, "invalid coordinate range [%d, %d]", minint[i], maxint[i])
		}
		sizeint[i] = uint32(size)
	}
	var bitsizeint [3]uint
	bitsize := 0
	if sizeint[0]|sizeint[1]|sizeint[2] > 0xffffff {
		for i, size := range sizeint {
			bitsizeint[i] = sizeOfInt(size)
		}
	} else {
		bitsize = sizeOfInts(sizeint)
	}
	smallidx, err := s.x.int32()
	if err != nil {
		return 0, decodeErr(ExdrInt, err, "small index")
	}
	if smallidx < FirstIdx || int(smallidx) >= len(MagicInts) {
		return 0, decodeErr(Exdr3DX, nil, "small index %d out of range", smallidx)
	}
	var nbytes int64
	if s.magic == MagicLarge {
		nbytes, err = s.x.int64()
	} else {
		var n int32
		n, err = s.x.int32()
		nbytes = int64(n)
	}
	if err != nil {
		return 0, decodeErr(ExdrInt, err, "compressed block size")
	}
	if nbytes < 0 || nbytes > maxBlock(natoms) {
		return 0, decodeErr(Exdr3DX, nil, "compressed block of %d bytes for %d atoms", nbytes, natoms)
	}
	if int64(cap(s.block)) < nbytes {
		s.block = make([]byte, nbytes)
	}
	s.block = s.block[:nbytes]
	if err := s.x.opaque(s.block); err != nil {
		return 0, decodeErr(Exdr3DX, err, "compressed block")
	}
	if err := decompress(s.block, out, prec, minint, sizeint, bitsizeint, bitsize, int(smallidx)); err != nil {
		return 0, err
	}
	return prec, nil
}

// decompress decodes the bit-packed coordinates in block into out.
// It fails, rather than writing past out, if the block holds more atoms
// than out can take.
func decompress(block []byte, out []float32, prec float32, minint [3]int32, sizeint [3]uint32, bitsizeint [3]uint, bitsize int, smallidx int) error {
	natoms := len(out) / 3
	br := &bitReader{buf: block}
	inv := 1 / prec
	smaller := MagicInts[max(FirstIdx, smallidx-1)] / 2
	smallnum := MagicInts[smallidx] / 2
	s := uint32(MagicInts[smallidx])
	sizesmall := [3]uint32{s, s, s}
	var this, prev [3]int32
	o := 0
	put := func(c [3]int32) bool {
		if o+3 > len(out) {
			return false
		}
		out[o] = float32(c[0]) * inv
		out[o+1] = float32(c[1]) * inv
		out[o+2] = float32(c[2]) * inv
		o += 3
		return true
	}
	overrun := func() error {
		return decodeErr(Exdr3DX, nil, "compressed block holds more than %d atoms", natoms)
	}
	run := 0
	for i := 0; i < natoms; {
		if bitsize == 0 {
			for k := range this {
				this[k] = int32(br.bits(bitsizeint[k]))
			}
		} else {
			br.ints(bitsize, sizeint, &this)
		}
		i++
		for k := range this {
			this[k] += minint[k]
		}
		prev = this
		isSmaller := 0
		if br.bits(1) == 1 {
			run = int(br.bits(5))
			isSmaller = run % 3
			run -= isSmaller
			isSmaller--
		}
		if run > 0 {
			for k := 0; k < run; k += 3 {
				br.ints(smallidx, sizesmall, &this)
				i++
				for m := range this {
					this[m] += prev[m] - smallnum
				}
				if k == 0 {
					//The first two atoms of a run are stored swapped
					//(it compresses water better).
					this, prev = prev, this
					if !put(prev) {
						return overrun()
					}
				} else {
					prev = this
				}
				if !put(this) {
					return overrun()
				}
			}
		} else if !put(this) {
			return overrun()
		}
		if br.err != nil {
			return decodeErr(Exdr3DX, br.err, "after %d of %d atoms", o/3, natoms)
		}
		smallidx += isSmaller
		if smallidx < FirstIdx || smallidx >= len(MagicInts) {
			return decodeErr(Exdr3DX, nil, "small index %d out of range", smallidx)
		}
		if isSmaller < 0 {
			smallnum = smaller
			if smallidx > FirstIdx {
				smaller = MagicInts[smallidx-1] / 2
			} else {
				smaller = 0
			}
		} else if isSmaller > 0 {
			smaller = smallnum
			smallnum = MagicInts[smallidx] / 2
		}
		s = uint32(MagicInts[smallidx])
		sizesmall = [3]uint32{s, s, s}
	}
	if o != len(out) {
		return decodeErr(Exdr3DX, nil, "compressed block holds %d atoms, %d expected", o/3, natoms)
	}
	return nil
}
