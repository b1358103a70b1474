/*
 * options.go, part of polytop.
 *
 * Copyright 2025 The polytop authors
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

package align

import "go.uber.org/zap"

//Options contains the options for alignments and sessions.
type Options struct {
	Log *zap.Logger
	//Fits with an RMSD larger than this (A) are reported as warnings.
	//0 or less disables the check.
	MaxRMSD float64
}

//DefaultOptions returns options with a no-op logger and a 0.5 A RMSD warning threshold.
func DefaultOptions() *Options {
	r := new(Options)
	r.Log = zap.NewNop()
	r.MaxRMSD = 0.5
	return r
}

//returns O with the unset fields filled with defaults, or the default options if O is nil.
func checkOptions(O *Options) *Options {
	if O == nil {
		return DefaultOptions()
	}
	r := *O
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
	return &r
}
