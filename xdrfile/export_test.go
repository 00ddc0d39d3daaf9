/*
 * export_test.go, part of goxtc.
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

//Exposes the bit-level helpers to the xdrfile_test package.

var (
	SizeOfInt  = sizeOfInt
	SizeOfInts = sizeOfInts
)

// ReadBits reads consecutive fields of the given widths from buf.
func ReadBits(buf []byte, widths ...uint) ([]uint32, error) {
	br := &bitReader{buf: buf}
	ret := make([]uint32, 0, len(widths))
	for _, w := range widths {
		ret = append(ret, br.bits(w))
	}
	return ret, br.err
}

// ReadInts unpacks three numbers stored in nbits bits.
func ReadInts(buf []byte, nbits int, sizes [3]uint32) ([3]int32, error) {
	var nums [3]int32
	br := &bitReader{buf: buf}
	br.ints(nbits, sizes, &nums)
	return nums, br.err
}
