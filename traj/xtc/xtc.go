/*
 * xtc.go, part of goxtc
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

// Package xtc reads GROMACS XTC trajectories, plain or compressed with gzip or zstd.
package xtc

import (
	"errors"
	"runtime"
	"sync"

	v3 "github.com/rmera/goxtc/v3"
	"github.com/rmera/goxtc/xdrfile"
)

// FrameInfo is the metadata of a frame read with ReadFrame.
// Precision is -1 for frames of 9 or fewer atoms, which are stored uncompressed.
type FrameInfo struct {
	Step      int
	Time      float32
	Precision float32
}

// Container for an GROMACS XTC binary trajectory file.
// An XTCObj must not be used from several goroutines at the same time.
type XTCObj struct {
	readable   bool
	natoms     int
	filename   string
	opts       *Options
	stream     xdrfile.Stream
	eof        bool
	failed     error //the cause of the first frame that could not be read
	cCoords    []float32
	box        []float32
	concBuffer [][]float32
	conv       sync.WaitGroup //conversions started by NextConc
}

// Open opens the trajectory filename for reading. The number of atoms
// of the first frame is read at this point, and returned by Len.
// On failure, a nil *XTCObj is returned.
func Open(filename string, opts ...*Options) (*XTCObj, error) {
	traj := new(XTCObj)
	if err := traj.initRead(filename, optionsOf(opts)); err != nil {
		return nil, errDecorate(err, "Open")
	}
	return traj, nil
}

// AtomCount returns the number of atoms in the first frame of the
// trajectory filename. It doesn't need an open trajectory.
func AtomCount(filename string, opts ...*Options) (int, error) {
	natoms, err := optionsOf(opts).Codec().ProbeAtomCount(filename)
	if err != nil {
		return 0, newError(ProbeFailed, UnableToProbe, filename, "AtomCount", err)
	}
	return natoms, nil
}

// initRead initializes a XTCObj for reading.
// It requires only the filename, which must be valid
func (X *XTCObj) initRead(name string, opts *Options) error {
	codec := opts.Codec()
	natoms, err := codec.ProbeAtomCount(name)
	if err != nil {
		return newError(OpenFailed, UnableToOpen, name, "initRead", err)
	}
	stream, err := codec.Open(name)
	if err != nil {
		return newError(OpenFailed, UnableToOpen, name, "initRead", err)
	}
	X.filename = name
	X.opts = opts
	X.natoms = natoms
	X.stream = stream
	//The coordinate buffers are allocated by Next and NextConc, when first needed.
	//natoms comes from the file, and nothing else has been checked yet.
	X.box = make([]float32, xdrfile.BoxLen)
	//This should close the file.
	runtime.SetFinalizer(X, func(X *XTCObj) {
		X.Close()
	})
	X.readable = true
	return nil
}

// Returns true if the object is ready to be read from
// false otherwise. IT doesnt guarantee that there is something
// to read.
func (X *XTCObj) Readable() bool {
	return X != nil && X.readable
}

// Len returns the number of atoms per frame in the XTCObj.
// 0 means an uninitialized object.
func (X *XTCObj) Len() int {
	if X == nil {
		return 0
	}
	return X.natoms
}

// FileName returns the name of the trajectory file.
func (X *XTCObj) FileName() string {
	if X == nil {
		return ""
	}
	return X.filename
}

// ReadFrame decodes the next frame of the trajectory into coords, which
// must hold at least 3*natoms values, and box, which must hold at least 9.
// Coordinates and box are in nm. Only the first 3*natoms and 9 values are written.
// At the end of the trajectory, it returns an error that satisfies chem.LastFrameError
// and errors.Is(err, ErrEndOfStream), and keeps doing so in later calls. After a frame
// fails to decode, all later calls fail too.
func (X *XTCObj) ReadFrame(natoms int, coords, box []float32) (FrameInfo, error) {
	if X == nil || X.stream == nil {
		return FrameInfo{}, newError(InvalidArgument, ClosedTraj, X.FileName(), "ReadFrame", nil)
	}
	if natoms <= 0 || coords == nil || len(coords) < 3*natoms || len(box) < xdrfile.BoxLen {
		return FrameInfo{}, newError(InvalidArgument, BadBuffers, X.filename, "ReadFrame", nil)
	}
	if X.eof {
		return FrameInfo{}, newlastFrameError(X.filename, "ReadFrame")
	}
	if X.failed != nil {
		return FrameInfo{}, newError(DecodeFailed, failedBefore, X.filename, "ReadFrame", X.failed)
	}
	h, err := X.stream.DecodeFrame(natoms, box, coords)
	if err != nil {
		X.readable = false
		if errors.Is(err, xdrfile.ErrEndOfStream) {
			X.eof = true
			return FrameInfo{}, newlastFrameError(X.filename, "ReadFrame") //This is not really an error and should be catched in the calling function
		}
		X.failed = err
		return FrameInfo{}, newError(DecodeFailed, ReadError, X.filename, "ReadFrame", err)
	}
	return FrameInfo{Step: h.Step, Time: h.Time, Precision: h.Precision}, nil
}

// Next Reads the next frame in a XTCObj. If output is not nil, the coordinates
// are put there, otherwise, the frame is just dropped. If box is given, and has
// at least 9 elements, the box vectors are put there, by rows. Both are in A
// unless the Angstrom option was set to false. It panics if output has fewer
// vectors than there are atoms in a frame.
func (X *XTCObj) Next(output *v3.Matrix, box ...[]float64) error {
	if output != nil && output.NVecs() < X.Len() {
		panic(tooSmallOutput)
	}
	if X == nil || X.stream == nil {
		return newError(InvalidArgument, TrajUnIni, X.FileName(), "Next", nil)
	}
	X.conv.Wait()
	X.setConcBuffer(1)
	if _, err := X.ReadFrame(X.natoms, X.cCoords, X.box); err != nil {
		return errDecorate(err, "Next")
	}
	factor := X.opts.factor()
	if output != nil { //col the frame
		output.View(0, 0, X.natoms, 3).SetFloat32(X.cCoords, factor)
	}
	if len(box) > 0 && len(box[0]) >= xdrfile.BoxLen {
		for i, v := range X.box {
			box[0][i] = factor * float64(v)
		}
	}
	return nil
}

// setConcBuffer makes sure there are at least batchsize frame buffers.
// The first one is also the buffer used by Next. The idea is to reserve less
// memory, using the same buffers many times.
func (X *XTCObj) setConcBuffer(batchsize int) {
	for len(X.concBuffer) < batchsize {
		X.concBuffer = append(X.concBuffer, make([]float32, 3*X.natoms))
	}
	if len(X.concBuffer) > 0 {
		X.cCoords = X.concBuffer[0]
	}
}

/*NextConc takes a slice of matrices and reads as many frames as elements the slice has
from the trajectory. The frames are discarded if the corresponding element of the slice
is nil. The function returns a slice of channels through each of which
the corresponding matrix will be transmitted, once filled. If the trajectory ends
before all the frames are read, the channels for the read frames are returned,
together with a chem.LastFrameError.*/
func (X *XTCObj) NextConc(frames []*v3.Matrix) ([]chan *v3.Matrix, error) {
	if X == nil || X.stream == nil {
		return nil, newError(InvalidArgument, TrajUnIni, X.FileName(), "NextConc", nil)
	}
	for _, v := range frames {
		if v != nil && v.NVecs() < X.natoms {
			panic(tooSmallOutput)
		}
	}
	//The buffers are about to be overwritten.
	X.conv.Wait()
	X.setConcBuffer(len(frames))
	framechans := make([]chan *v3.Matrix, len(frames)) //the slice of chans that will be returned
	factor := X.opts.factor()
	used := false
	for key, val := range frames {
		_, err := X.ReadFrame(X.natoms, X.concBuffer[key], X.box)
		//Error handling
		if err != nil {
			err = errDecorate(err, "NextConc")
			if _, ok := err.(*lastFrameError); ok && used {
				return framechans, err
			}
			return nil, err
		}
		if val == nil {
			framechans[key] = nil //ignored frame
			continue
		}
		used = true
		framechans[key] = make(chan *v3.Matrix, 1)
		X.conv.Add(1)
		//Now the parallel part
		go func(natoms int, cCoords []float32, goCoords *v3.Matrix, pipe chan *v3.Matrix) {
			defer X.conv.Done()
			goCoords.View(0, 0, natoms, 3).SetFloat32(cCoords, factor)
			pipe <- goCoords
		}(X.natoms, X.concBuffer[key], val, framechans[key])
	}
	return framechans, nil
}

// Close closes the trajectory file. Closing a nil or already closed
// XTCObj does nothing.
func (X *XTCObj) Close() {
	if X == nil || X.stream == nil {
		return
	}
	X.conv.Wait()
	X.stream.Close()
	X.stream = nil
	X.readable = false
	runtime.SetFinalizer(X, nil)
}
