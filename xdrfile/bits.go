/*
 * bits.go, part of goxtc.
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

import "errors"

//The bit-level part of the XTC compression scheme. The names follow
//the ones in the xdrfile C sources (decodebits, decodeints, sizeofint...)
//so both can be compared side by side.

// FirstIdx is the smallest valid index in MagicInts for the size of
// "small" (run-length coded) coordinate differences.
const FirstIdx = 9

// MagicInts holds the sizes used for small coordinate differences. Entry i is
// (roughly) the cube root of 2^i, so three numbers of that size fit in i bits.
var MagicInts = [...]int32{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 10, 12, 16, 20, 25, 32, 40, 50, 64,
	80, 101, 128, 161, 203, 256, 322, 406, 512, 645, 812, 1024, 1290,
	1625, 2048, 2580, 3250, 4096, 5060, 6501, 8192, 10321, 13003,
	16384, 20642, 26007, 32768, 41285, 52015, 65536, 82570, 104031,
	131072, 165140, 208063, 262144, 330280, 416127, 524287, 660561,
	832255, 1048576, 1321122, 1664510, 2097152, 2642245, 3329021,
	4194304, 5284491, 6658042, 8388607, 10568983, 13316085, 16777216,
}

var errShortBlock = errors.New("compressed block ended prematurely")

// bitReader reads a most-significant-bit-first bit stream. Reading past
// the end of buf sets err, which stays set, and yields zeros.
type bitReader struct {
	buf      []byte
	cnt      int
	lastBits uint
	lastByte uint32
	err      error
}

func (b *bitReader) next() uint32 {
	if b.cnt >= len(b.buf) {
		b.err = errShortBlock
		return 0
	}
	c := b.buf[b.cnt]
	b.cnt++
	return uint32(c)
}

// bits returns the next nbits (at most 32) bits as an unsigned number.
func (b *bitReader) bits(nbits uint) uint32 {
	mask := uint32(1)<<nbits - 1
	var num uint32
	for nbits >= 8 {
		b.lastByte = b.lastByte<<8 | b.next()
		num |= (b.lastByte >> b.lastBits) << (nbits - 8)
		nbits -= 8
	}
	if nbits > 0 {
		if b.lastBits < nbits {
			b.lastBits += 8
			b.lastByte = b.lastByte<<8 | b.next()
		}
		b.lastBits -= nbits
		num |= (b.lastByte >> b.lastBits) & (uint32(1)<<nbits - 1)
	}
	return num & mask
}

// ints reads three numbers packed together in nbits bits, the sizes of
// which are given in sizes. None of sizes can be zero.
func (b *bitReader) ints(nbits int, sizes [3]uint32, nums *[3]int32) {
	var bytes [32]uint32
	nbytes := 0
	for nbits > 8 && nbytes < len(bytes)-1 {
		bytes[nbytes] = b.bits(8)
		nbytes++
		nbits -= 8
	}
	if nbits > 0 {
		bytes[nbytes] = b.bits(uint(nbits))
		nbytes++
	}
	for i := 2; i > 0; i-- {
		var num uint64
		size := uint64(sizes[i])
		for j := nbytes - 1; j >= 0; j-- {
			num = num<<8 | uint64(bytes[j])
			p := num / size
			bytes[j] = uint32(p)
			num -= p * size
		}
		nums[i] = int32(num)
	}
	nums[0] = int32(bytes[0] | bytes[1]<<8 | bytes[2]<<16 | bytes[3]<<24)
}

// sizeOfInt returns the number of bits needed to store numbers in [0, size].
func sizeOfInt(size uint32) uint {
	num := uint64(1)
	var bits uint
	for uint64(size) >= num && bits < 32 {
		bits++
		num <<= 1
	}
	return bits
}

// sizeOfInts returns the number of bits needed to store three numbers
// packed together, each smaller than the corresponding element of sizes.
func sizeOfInts(sizes [3]uint32) int {
	var bytes [32]uint32
	nbytes := 1
	bytes[0] = 1
	nbits := 0
	for _, size := range sizes {
		var tmp uint64
		bytecnt := 0
		for ; bytecnt < nbytes; bytecnt++ {
			tmp = uint64(bytes[bytecnt])*uint64(size) + tmp
			bytes[bytecnt] = uint32(tmp & 0xff)
			tmp >>= 8
		}
		for tmp != 0 {
			bytes[bytecnt] = uint32(tmp & 0xff)
			bytecnt++
			tmp >>= 8
		}
		nbytes = bytecnt
	}
	num := uint32(1)
	nbytes--
	for bytes[nbytes] >= num {
		nbits++
		num *= 2
	}
	return nbits + nbytes*8
}
