/*
 * frames.go, part of goxtc
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
	chem "github.com/rmera/goxtc"
	v3 "github.com/rmera/goxtc/v3"
	"gonum.org/v1/gonum/mat"
)

/*ReadFrames opens the Gromacs trajectory xtc file with name filename
and reads the coordinates for frames starting from ini to end (or the
last frame in the trajectory, if end is negative) keeping one of every
skip frames. The frames are returned as a slice of v3.Matrix.
It returns also the number of frames read from the file (kept or not), and
error/nil in failure/success. Note that if there are less frames than
end, the function wont return error, just the read frames and
the number of them.*/
func ReadFrames(filename string, ini, end, skip int, opts ...*Options) ([]*v3.Matrix, int, error) {
	if ini < 0 {
		ini = 0
	}
	if skip < 1 {
		skip = 1
	}
	traj, err := Open(filename, opts...)
	if err != nil {
		return nil, 0, errDecorate(err, "ReadFrames")
	}
	defer traj.Close()
	coords := make([]*v3.Matrix, 0, 1)
	i := 0
	for ; end < 0 || i <= end; i++ {
		var frame *v3.Matrix
		if i >= ini && (i-ini)%skip == 0 {
			frame = v3.Zeros(traj.Len())
		}
		if err := traj.Next(frame); err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				break //No more frames is not really an error
			}
			return coords, i, errDecorate(err, "ReadFrames")
		}
		if frame != nil {
			coords = append(coords, frame)
		}
	}
	return coords, i, nil
}

// BoxMatrix returns the box vectors in box, as read by ReadFrame or Next,
// as the rows of a 3x3 matrix. box must have at least 9 elements.
func BoxMatrix(box []float32) (*mat.Dense, error) {
	if len(box) < 9 {
		return nil, newError(InvalidArgument, BadBuffers, "", "BoxMatrix", nil)
	}
	data := make([]float64, 9)
	for i := range data {
		data[i] = float64(box[i])
	}
	return mat.NewDense(3, 3, data), nil
}

// BoxVolume returns the volume of the box whose vectors are the rows of box.
func BoxVolume(box *mat.Dense) float64 {
	v := mat.Det(box)
	if v < 0 {
		return -v
	}
	return v
}
