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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package xdrfile decodes GROMACS XTC trajectory frames.

The package plays the part that the C libxdrfile played for the old goChem
xtc reader: it opens a trajectory, probes the number of atoms in its first
frame, and decodes frames one at a time (step, time, box and de-scaled
coordinates) into buffers given by the caller. It never keeps a frame after
a call returns.

GoCodec is a pure Go implementation, and the default. It also reads XTC
files compressed with gzip or zstd. When the package is built with the
"gromacs" tag, CgoCodec is also available, which calls the C libxdrfile
directly.

The end of a trajectory is reported with ErrEndOfStream. Anything else that
goes wrong while decoding is a *DecodeError.
*/
package xdrfile
