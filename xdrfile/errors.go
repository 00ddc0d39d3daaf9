/*
 * errors.go, part of goxtc.
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
	"fmt"
)

// ErrEndOfStream is returned by DecodeFrame when the trajectory ends at a
// frame boundary. It is not corruption.
var ErrEndOfStream = errors.New("xdrfile: end of stream")

// Status codes, numbered as in libxdrfile (exdrOK, exdrHEADER, ...), so
// errors coming from CgoCodec and GoCodec look the same.
const (
	ExdrOK           = 0
	ExdrHeader       = 1
	ExdrString       = 2
	ExdrDouble       = 3
	ExdrInt          = 4
	ExdrFloat        = 5
	ExdrUint         = 6
	Exdr3DX          = 7
	ExdrClose        = 8
	ExdrMagic        = 9
	ExdrNoMem        = 10
	ExdrEndOfFile    = 11
	ExdrFileNotFound = 12
	ExdrNR           = 13
)

var codeMessages = map[int]string{
	ExdrOK:           "OK",
	ExdrHeader:       "header",
	ExdrString:       "string",
	ExdrDouble:       "double",
	ExdrInt:          "integer",
	ExdrFloat:        "float",
	ExdrUint:         "unsigned integer",
	Exdr3DX:          "compressed 3d coordinate",
	ExdrClose:        "closing file",
	ExdrMagic:        "magic number",
	ExdrNoMem:        "not enough memory",
	ExdrEndOfFile:    "end of file",
	ExdrFileNotFound: "file not found",
	ExdrNR:           "number of atoms",
}

// DecodeError is returned for malformed or truncated frames.
// Code is one of the Exdr* constants, Err is the underlying I/O error, if any.
type DecodeError struct {
	Code   int
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg, ok := codeMessages[e.Code]
	if !ok {
		msg = fmt.Sprintf("code %d", e.Code)
	}
	s := "xdrfile: error reading " + msg
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(code int, err error, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Detail: fmt.Sprintf(format, args...), Err: err}
}
