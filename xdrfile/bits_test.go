/*
 * bits_test.go, part of goxtc.
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
	"testing"

	"github.com/rmera/goxtc/xdrfile"
)

func TestReadBits(Te *testing.T) {
	got, err := xdrfile.ReadBits([]byte{0xB0}, 1, 2, 3)
	if err != nil {
		Te.Fatal(err)
	}
	want := []uint32{1, 1, 4}
	for i := range want {
		if got[i] != want[i] {
			Te.Errorf("field %d: got %d, want %d", i, got[i], want[i])
		}
	}
	got, err = xdrfile.ReadBits([]byte{0xAB, 0xCD, 0xEF, 0x12}, 32)
	if err != nil {
		Te.Fatal(err)
	}
	if got[0] != 0xABCDEF12 {
		Te.Errorf("32 bit read: got %x", got[0])
	}
	if _, err = xdrfile.ReadBits([]byte{0xFF}, 9); err == nil {
		Te.Error("reading past the end of the block should fail")
	}
}

func TestReadInts(Te *testing.T) {
	//(3*10+4)*10+5 = 345, stored as 0x59 and then the 2 bits "01".
	nums, err := xdrfile.ReadInts([]byte{0x59, 0x40}, 10, [3]uint32{10, 10, 10})
	if err != nil {
		Te.Fatal(err)
	}
	if nums != [3]int32{3, 4, 5} {
		Te.Errorf("got %v, want [3 4 5]", nums)
	}
}

func TestSizeOfInt(Te *testing.T) {
	cases := map[uint32]uint{0: 0, 1: 1, 4: 3, 255: 8, 256: 9, 0xffffffff: 32}
	for size, want := range cases {
		if got := xdrfile.SizeOfInt(size); got != want {
			Te.Errorf("SizeOfInt(%d) = %d, want %d", size, got, want)
		}
	}
}

func TestSizeOfInts(Te *testing.T) {
	cases := []struct {
		sizes [3]uint32
		want  int
	}{
		{[3]uint32{1, 1, 1}, 1},
		{[3]uint32{10, 10, 10}, 10},
		{[3]uint32{16, 16, 16}, 13},
		{[3]uint32{256, 256, 256}, 25},
		{[3]uint32{1000, 2000, 3000}, 33},
	}
	for _, c := range cases {
		if got := xdrfile.SizeOfInts(c.sizes); got != c.want {
			Te.Errorf("SizeOfInts(%v) = %d, want %d", c.sizes, got, c.want)
		}
	}
}

func TestMagicInts(Te *testing.T) {
	//three numbers of size MagicInts[i] must fit in i bits.
	for i := xdrfile.FirstIdx; i < 64; i++ {
		m := uint64(xdrfile.MagicInts[i])
		if m*m*m > uint64(1)<<uint(i) {
			Te.Errorf("MagicInts[%d] = %d does not fit in %d bits", i, m, i)
		}
	}
}
