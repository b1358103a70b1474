/*
 * session.go, part of polytop.
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

import (
	"fmt"

	"github.com/rmera/polytop/poly"
)

//Session holds the alignments of several targets on one reference molecule,
//so they can be spliced, or discarded, together.
type Session struct {
	reference  *poly.Molecule
	options    *Options
	alignments []*Alignment
}

//NewSession returns an empty session on reference. O can be nil.
func NewSession(reference *poly.Molecule, O *Options) *Session {
	return &Session{reference: reference, options: checkOptions(O)}
}

//Reference returns the reference molecule of the session.
func (S *Session) Reference() *poly.Molecule { return S.reference }

//Add starts a new alignment of target on the reference of the session.
func (S *Session) Add(target *poly.Molecule) (*Alignment, error) {
	A, err := New(S.reference, target, S.options)
	if err != nil {
		return nil, err
	}
	S.alignments = append(S.alignments, A)
	return A, nil
}

//Alignments returns the pending alignments, in the order they were added.
func (S *Session) Alignments() []*Alignment {
	return append([]*Alignment(nil), S.alignments...)
}

//FinishAll splices every pending alignment that was mapped, in order, and empties
//the session. Each splice is atomic, but if one fails, the previous ones are kept.
//The failed alignment, and those after it, stay in the session.
func (S *Session) FinishAll() error {
	for i, A := range S.alignments {
		if A.State() != Mapped && A.State() != Previewed {
			continue
		}
		amap, err := A.finish()
		if err != nil {
			S.alignments = S.alignments[i:]
			return fmt.Errorf("FinishAll: alignment %d: %w", i, err)
		}
		for _, B := range S.alignments[i+1:] {
			B.remap(amap)
		}
	}
	S.alignments = nil
	return nil
}

//DiscardAll discards every pending alignment and empties the session.
func (S *Session) DiscardAll() {
	for _, A := range S.alignments {
		//terminal alignments can't be discarded, and need not be.
		_ = A.Discard()
	}
	S.alignments = nil
}
