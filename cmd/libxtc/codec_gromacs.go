//go:build gromacs

/*
 * codec_gromacs.go, part of goxtc
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

package main

import (
	"github.com/rmera/goxtc/capi"
	"github.com/rmera/goxtc/traj/xtc"
	"github.com/rmera/goxtc/xdrfile"
)

//With the gromacs tag, frames are decoded by the C libxdrfile.
func init() {
	opts := xtc.DefaultOptions()
	opts.Codec(xdrfile.CgoCodec{})
	table = capi.NewTable(opts)
}
