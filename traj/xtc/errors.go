/*
 * errors.go, part of goxtc
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

import (
	"errors"
	"fmt"

	"github.com/rmera/goxtc/xdrfile"
)

// Kind classifies the errors returned by this package.
type Kind int

const (
	OpenFailed Kind = iota + 1
	ProbeFailed
	DecodeFailed
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case OpenFailed:
		return "OpenFailed"
	case ProbeFailed:
		return "ProbeFailed"
	case DecodeFailed:
		return "DecodeFailed"
	case InvalidArgument:
		return "InvalidArgument"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is. Every Error matches the one of its Kind.
var (
	ErrOpenFailed      = errors.New("xtc: unable to open trajectory")
	ErrProbeFailed     = errors.New("xtc: unable to read the number of atoms")
	ErrDecodeFailed    = errors.New("xtc: malformed or truncated frame")
	ErrInvalidArgument = errors.New("xtc: invalid argument")
	//The end of the trajectory. Not a failure.
	ErrEndOfStream = xdrfile.ErrEndOfStream
)

func (k Kind) sentinel() error {
	switch k {
	case OpenFailed:
		return ErrOpenFailed
	case ProbeFailed:
		return ErrProbeFailed
	case DecodeFailed:
		return ErrDecodeFailed
	case InvalidArgument:
		return ErrInvalidArgument
	}
	return nil
}

// Error is the error type returned by this package. It implements chem.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	kind     Kind
	err      error //what caused it, if anything
}

func (err Error) Error() string {
	s := fmt.Sprintf("xtc file %s error: %s", err.filename, err.message)
	if err.err != nil {
		s += ": " + err.err.Error()
	}
	return s
}

// Decorate adds deco to the decoration slice and returns the result.
// The receiver is a value, so the caller only sees the change in the returned slice.
// Use errDecorate to obtain a decorated copy of an error.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Format() string { return "xtc" }

func (err Error) Critical() bool { return err.critical }

// Kind returns the class of the error.
func (err Error) Kind() Kind { return err.kind }

func (err Error) Unwrap() error { return err.err }

// Is reports whether target is the sentinel for the error's Kind.
func (err Error) Is(target error) bool {
	s := err.kind.sentinel()
	return s != nil && target == s
}

const (
	TrajUnIni      = "Traj object uninitialized to read"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	UnableToProbe  = "Unable to read the number of atoms"
	BadBuffers     = "Buffers too small for the requested atoms"
	ClosedTraj     = "Trajectory is closed"
	EOF            = "EOF"
	failedBefore   = "A previous frame could not be read"
	tooSmallOutput = "Buffer v3.Matrix too small to hold trajectory frame"
)

func newError(kind Kind, message, filename, caller string, cause error) Error {
	return Error{message, filename, []string{caller}, true, kind, cause}
}

type lastFrameError struct {
	deco     []string
	fileName string
}

// lastFrameError does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return EOF }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "xtc" }

func (E lastFrameError) Unwrap() error { return ErrEndOfStream }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

// errDecorate returns err with caller added to its decorations, if
// err is one of the errors of this package. Other errors are returned as they are.
func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case Error:
		e.deco = append(e.deco[:len(e.deco):len(e.deco)], caller)
		return e
	case *lastFrameError:
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}
