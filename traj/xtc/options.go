/*
 * options.go, part of goxtc
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

package xtc

import "github.com/rmera/goxtc/xdrfile"

// Options contains the settings used to open and read a trajectory.
type Options struct {
	format   string
	angstrom bool
	bufsize  int
	codec    xdrfile.Codec
}

// DefaultOptions returns the settings used when none are given:
// container format detected from the file, Next and friends returning
// coordinates in A, and the default read buffer.
func DefaultOptions() *Options {
	r := new(Options)
	r.angstrom = true
	r.bufsize = xdrfile.DefaultBufferSize
	return r
}

// Returns the container format ("xtc", "gz" or "zst") to be assumed for the file,
// and sets it to a new value, if given. An empty string means the format is
// detected from the first bytes of the file.
func (O *Options) Format(format ...string) string {
	if len(format) > 0 {
		O.format = format[0]
	}
	return O.format
}

// Returns whether the coordinates given by Next, NextConc and ReadFrames
// are converted from nm to A, and sets it to a new value, if given.
// ReadFrame always gives nm.
func (O *Options) Angstrom(angstrom ...bool) bool {
	if len(angstrom) > 0 {
		O.angstrom = angstrom[0]
	}
	return O.angstrom
}

// Returns the size, in bytes, of the buffer used to read the file,
// and sets it to a new value, if a positive one is given.
func (O *Options) BufferSize(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.bufsize = n[0]
	}
	return O.bufsize
}

// Returns the codec used to decode the file, and sets it to a new value, if given.
// By default, the pure Go xdrfile.GoCodec, configured with Format and BufferSize, is used.
// Those two options are ignored when another codec is set.
func (O *Options) Codec(codec ...xdrfile.Codec) xdrfile.Codec {
	if len(codec) > 0 {
		O.codec = codec[0]
	}
	if O.codec == nil {
		return xdrfile.GoCodec{Format: O.format, BufferSize: O.bufsize}
	}
	return O.codec
}

func (O *Options) factor() float64 {
	if O.angstrom {
		return 10 //nm to Angstroms
	}
	return 1
}

func optionsOf(opts []*Options) *Options {
	if len(opts) > 0 && opts[0] != nil {
		return opts[0]
	}
	return DefaultOptions()
}
