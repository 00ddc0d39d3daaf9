/*
 * xtctest.go, part of goxtc.
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

//Package xtctest builds small XTC trajectories for the tests of this module.
//The compressed frames it produces follow the same bit layout as GROMACS, but
//the encoder is deliberately simple and is not meant to write real trajectories.
package xtctest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rmera/goxtc/xdrfile"
)

// DefaultPrecision is used for frames with a zero Precision.
const DefaultPrecision = 1000

// Frame is one frame to encode. Coords holds x y z for each atom, in nm.
type Frame struct {
	Step      int32
	Time      float32
	Box       [9]float32
	Coords    []float32
	Precision float32
	//Use the 2023 header, with a 64-bit block size.
	Large bool
}

// Natoms returns the number of atoms in the frame.
func (F Frame) Natoms() int { return len(F.Coords) / 3 }

func (F Frame) precision() float32 {
	if F.Precision <= 0 {
		return DefaultPrecision
	}
	return F.Precision
}

// Expected returns the coordinates a decoder should produce for F.
// Frames of more than 9 atoms are quantized with the frame precision.
func Expected(F Frame) []float32 {
	out := make([]float32, len(F.Coords))
	if F.Natoms() <= 9 {
		copy(out, F.Coords)
		return out
	}
	prec := F.precision()
	inv := 1 / prec
	for i, v := range quantize(F.Coords, prec) {
		out[i] = float32(v) * inv
	}
	return out
}

func quantize(coords []float32, prec float32) []int32 {
	ret := make([]int32, len(coords))
	for i, v := range coords {
		lf := v * prec
		if lf >= 0 {
			lf += 0.5
		} else {
			lf -= 0.5
		}
		ret[i] = int32(lf)
	}
	return ret
}

// Encode returns the XTC representation of frames.
func Encode(frames ...Frame) ([]byte, error) {
	var b bytes.Buffer
	for i, f := range frames {
		if err := encodeFrame(&b, f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return b.Bytes(), nil
}

// Write encodes frames into a new file at path. If the path ends in
// .gz or .zst, the file is compressed accordingly.
func Write(path string, frames ...Frame) error {
	data, err := Encode(frames...)
	if err != nil {
		return err
	}
	switch {
	case hasSuffix(path, ".gz"):
		data, err = Gzip(data)
	case hasSuffix(path, ".zst"):
		data, err = Zstd(data)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Gzip compresses data with gzip.
func Gzip(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Zstd compresses data with zstd.
func Zstd(data []byte) ([]byte, error) {
	w, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer w.Close()
	return w.EncodeAll(data, nil), nil
}

// Waters returns n atoms laid out as water-like triplets on a grid, with
// small distances inside each triplet, so the encoder packs them in runs.
func Waters(n int, shift float32) []float32 {
	c := make([]float32, 0, 3*n)
	for i := 0; i < n; i++ {
		mol := float32(i / 3)
		base := [3]float32{0.5*mol + shift, 0.3 * float32(i%7/3), 1.0 + 0.01*mol}
		off := float32(i%3) * 0.009
		c = append(c, base[0]+off, base[1]-off, base[2]+off/2)
	}
	return c
}

func putInt(b *bytes.Buffer, v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	b.Write(tmp[:])
}

func putFloat(b *bytes.Buffer, v float32) {
	putInt(b, int32(math.Float32bits(v)))
}

func encodeFrame(b *bytes.Buffer, F Frame) error {
	if len(F.Coords)%3 != 0 {
		return fmt.Errorf("%d coordinates is not a multiple of 3", len(F.Coords))
	}
	natoms := F.Natoms()
	magic := xdrfile.Magic
	if F.Large {
		magic = xdrfile.MagicLarge
	}
	putInt(b, magic)
	putInt(b, int32(natoms))
	putInt(b, F.Step)
	putFloat(b, F.Time)
	for _, v := range F.Box {
		putFloat(b, v)
	}
	putInt(b, int32(natoms))
	if natoms <= 9 {
		for _, v := range F.Coords {
			putFloat(b, v)
		}
		return nil
	}
	prec := F.precision()
	ints := quantize(F.Coords, prec)
	minint := [3]int32{math.MaxInt32, math.MaxInt32, math.MaxInt32}
	maxint := [3]int32{math.MinInt32, math.MinInt32, math.MinInt32}
	for i, v := range ints {
		minint[i%3] = min(minint[i%3], v)
		maxint[i%3] = max(maxint[i%3], v)
	}
	var sizeint [3]uint32
	for k := range sizeint {
		sizeint[k] = uint32(int64(maxint[k]) - int64(minint[k]) + 1)
	}
	block, smallidx, err := compress(ints, minint, sizeint)
	if err != nil {
		return err
	}
	putFloat(b, prec)
	for _, v := range minint {
		putInt(b, v)
	}
	for _, v := range maxint {
		putInt(b, v)
	}
	putInt(b, int32(smallidx))
	if F.Large {
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(len(block)))
		b.Write(tmp[:])
	} else {
		putInt(b, int32(len(block)))
	}
	b.Write(block)
	for pad := (4 - len(block)%4) % 4; pad > 0; pad-- {
		b.WriteByte(0)
	}
	return nil
}

// bitWriter writes a most-significant-bit-first bit stream.
type bitWriter struct {
	buf  []byte
	acc  byte
	nacc uint
}

func (w *bitWriter) bits(nbits uint, v uint64) {
	for i := int(nbits) - 1; i >= 0; i-- {
		w.acc = w.acc<<1 | byte(v>>uint(i)&1)
		w.nacc++
		if w.nacc == 8 {
			w.buf = append(w.buf, w.acc)
			w.acc, w.nacc = 0, 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nacc > 0 {
		w.buf = append(w.buf, w.acc<<(8-w.nacc))
		w.acc, w.nacc = 0, 0
	}
	return w.buf
}

// ints packs three numbers, each smaller than its size, in nbits bits,
// the way the decoder unpacks them: as one number, written one byte at a time,
// least significant byte first.
func (w *bitWriter) ints(nbits int, sizes [3]uint32, nums [3]int32) error {
	n := big.NewInt(int64(nums[0]))
	for i := 1; i < 3; i++ {
		if nums[i] < 0 || uint32(nums[i]) >= sizes[i] {
			return fmt.Errorf("%d does not fit in size %d", nums[i], sizes[i])
		}
		n.Mul(n, big.NewInt(int64(sizes[i])))
		n.Add(n, big.NewInt(int64(nums[i])))
	}
	if n.BitLen() > nbits {
		return fmt.Errorf("%v does not fit in %d bits", n, nbits)
	}
	by := n.Bytes() //big endian
	byteAt := func(j int) uint64 {
		if j >= len(by) {
			return 0
		}
		return uint64(by[len(by)-1-j])
	}
	j := 0
	for ; nbits > 8; nbits -= 8 {
		w.bits(8, byteAt(j))
		j++
	}
	if nbits > 0 {
		w.bits(uint(nbits), byteAt(j))
	}
	return nil
}

func sizeOfInt(size uint32) uint {
	var bits uint
	for num := uint64(1); uint64(size) >= num && bits < 32; num <<= 1 {
		bits++
	}
	return bits
}

func bitsFor(sizes [3]uint32) int {
	prod := new(big.Int).SetUint64(uint64(sizes[0]))
	prod.Mul(prod, new(big.Int).SetUint64(uint64(sizes[1])))
	prod.Mul(prod, new(big.Int).SetUint64(uint64(sizes[2])))
	//one bit more than needed when the product is a power of 2, as in GROMACS.
	return prod.BitLen()
}

func atom(ints []int32, i int) [3]int32 {
	return [3]int32{ints[3*i], ints[3*i+1], ints[3*i+2]}
}

func diff(a, ref [3]int32, smallnum int32, size uint32) ([3]int32, bool) {
	var d [3]int32
	for k := range d {
		d[k] = a[k] - ref[k] + smallnum
		if d[k] < 0 || uint32(d[k]) >= size {
			return d, false
		}
	}
	return d, true
}

// compress packs the integer coordinates. Atoms close to each other are
// written in runs, and the size of the small differences grows or shrinks
// as the decoder expects, so all its branches get exercised.
func compress(ints []int32, minint [3]int32, sizeint [3]uint32) ([]byte, int, error) {
	natoms := len(ints) / 3
	w := &bitWriter{}
	large := sizeint[0]|sizeint[1]|sizeint[2] > 0xffffff
	var bitsizeint [3]uint
	bitsize := 0
	if large {
		for k, s := range sizeint {
			bitsizeint[k] = sizeOfInt(s)
		}
	} else {
		bitsize = bitsFor(sizeint)
	}
	const startidx = xdrfile.FirstIdx + 3
	smallidx := startidx
	prevrun := 0
	for i := 0; i < natoms; {
		smallnum := xdrfile.MagicInts[smallidx] / 2
		size := uint32(xdrfile.MagicInts[smallidx])
		//find the run: the second atom is written in full, the first one
		//relative to it, and every following one relative to the one before.
		var smalls [][3]int32
		full := atom(ints, i)
		next := i + 1
		if i+1 < natoms {
			if d, ok := diff(atom(ints, i), atom(ints, i+1), smallnum, size); ok {
				full = atom(ints, i+1)
				smalls = append(smalls, d)
				ref := atom(ints, i)
				next = i + 2
				for next < natoms && len(smalls) < 9 {
					d, ok := diff(atom(ints, next), ref, smallnum, size)
					if !ok {
						break
					}
					smalls = append(smalls, d)
					ref = atom(ints, next)
					next++
				}
			}
		}
		isSmaller := 0
		switch {
		case len(smalls) == 0 && smallidx > xdrfile.FirstIdx:
			isSmaller = -1
		case next < natoms && len(smalls) < 9 && smallidx < len(xdrfile.MagicInts)-1:
			isSmaller = 1
		}
		if large {
			for k := range full {
				w.bits(bitsizeint[k], uint64(full[k]-minint[k]))
			}
		} else {
			var rel [3]int32
			for k := range rel {
				rel[k] = full[k] - minint[k]
			}
			if err := w.ints(bitsize, sizeint, rel); err != nil {
				return nil, 0, err
			}
		}
		run := 3 * len(smalls)
		if run == prevrun && isSmaller == 0 {
			w.bits(1, 0)
		} else {
			w.bits(1, 1)
			w.bits(5, uint64(run+isSmaller+1))
			prevrun = run
		}
		for _, d := range smalls {
			if err := w.ints(smallidx, [3]uint32{size, size, size}, d); err != nil {
				return nil, 0, err
			}
		}
		smallidx += isSmaller
		i = next
	}
	return w.bytes(), startidx, nil
}
