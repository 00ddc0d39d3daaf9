/*
 * doc.go, part of goxtc.
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

/*Package chem holds the interfaces shared by the goxtc packages. goxtc reads
GROMACS XTC trajectories, one frame at a time, for Go programs and, through
a C shared library, for programs written in other languages.


	**goxtc packages**


    xdrfile: the XTC decoder. A pure Go one is used by default, the C libxdrfile
	can be used instead by building with the gromacs tag.

    traj/xtc: the trajectory object. Opens plain, gzip or zstd compressed XTC
	files and reads their frames either into caller-owned float32 buffers
	(in nm) or into v3.Matrix objects (in A), also concurrently.

    capi: a table of integer handles to open trajectories, with status codes
	instead of Go errors.

    cmd/libxtc: the C ABI. Build it with go build -buildmode=c-shared.

    v3: Nx3 coordinate matrices, based on gonum's Dense.

Trajectory readers implement Traj and ConcTraj, and report the end of a trajectory
with an error implementing LastFrameError, which is not a failure.*/
package chem
