/*
 * xdr.go, part of goxtc.
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
	"encoding/binary"
	"io"
	"math"
)

// xdrReader reads XDR primitives. XDR is always big endian, and opaque data
// is padded to a multiple of 4 bytes.
type xdrReader struct {
	r   io.Reader
	buf [8]byte
}

func (x *xdrReader) int32() (int32, error) {
	if _, err := io.ReadFull(x.r, x.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(x.buf[:4])), nil
}

func (x *xdrReader) int64() (int64, error) {
	if _, err := io.ReadFull(x.r, x.buf[:8]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(x.buf[:8])), nil
}

func (x *xdrReader) float32() (float32, error) {
	if _, err := io.ReadFull(x.r, x.buf[:4]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(x.buf[:4])), nil
}

// floats32 fills dst completely.
func (x *xdrReader) floats32(dst []float32) error {
	var err error
	for i := range dst {
		if dst[i], err = x.float32(); err != nil {
			return err
		}
	}
	return nil
}

// opaque fills dst and discards the padding that follows it.
func (x *xdrReader) opaque(dst []byte) error {
	if _, err := io.ReadFull(x.r, dst); err != nil {
		return err
	}
	pad := (4 - len(dst)%4) % 4
	if pad == 0 {
		return nil
	}
	_, err := io.ReadFull(x.r, x.buf[:pad])
	return err
}
