/*
 * chem.go, part of polytop.
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

package chem

import (
	"fmt"
	"sort"

	v3 "github.com/rmera/polytop/v3"
)

//Atom contains the identity of an atom as read from a coordinate file. The
//coordinates themselves are kept in the Coords matrix of the Molecule.
type Atom struct {
	Name      string
	ID        int //serial in the coordinate file
	MolID     int //residue sequence number
	MolName   string
	Chain     byte
	Symbol    string
	Occupancy float64
	Bfactor   float64
	Het       bool // is hetatm in the pdb file?
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

//Molecule is an ordered set of atoms with one set of coordinates, and
//the bonds between them as pairs of 0-based atom indexes.
type Molecule struct {
	Atoms  []*Atom
	Coords *v3.Matrix //nil for an empty molecule
	Bonds  [][2]int
}

//NewMolecule returns a molecule with the given atoms and coordinates.
//coords can be nil only if there are no atoms.
func NewMolecule(atoms []*Atom, coords *v3.Matrix) (*Molecule, error) {
	if coords == nil {
		if len(atoms) != 0 {
			return nil, fmt.Errorf("NewMolecule: %d atoms but no coordinates", len(atoms))
		}
		return &Molecule{}, nil
	}
	if coords.NVecs() != len(atoms) {
		return nil, fmt.Errorf("NewMolecule: %d atoms but %d coordinates: %w", len(atoms), coords.NVecs(), ErrMismatchedCoordinates)
	}
	return &Molecule{Atoms: atoms, Coords: coords}, nil
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//Atom returns the ith atom. It panics if i is out of range.
func (M *Molecule) Atom(i int) *Atom {
	return M.Atoms[i]
}

//Coord returns the coordinates of the ith atom.
func (M *Molecule) Coord(i int) [3]float64 {
	return M.Coords.Vec(i)
}

//SetCoord sets the coordinates of the ith atom.
func (M *Molecule) SetCoord(i int, v [3]float64) {
	M.Coords.SetVec(i, v)
}

//AddBond adds a bond between atoms i and j, if they are different and
//the bond is not already present.
func (M *Molecule) AddBond(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	for _, b := range M.Bonds {
		if b[0] == i && b[1] == j {
			return
		}
	}
	M.Bonds = append(M.Bonds, [2]int{i, j})
}

//SortBonds sorts the bonds by their first, then by their second atom.
func (M *Molecule) SortBonds() {
	sort.Slice(M.Bonds, func(i, j int) bool {
		if M.Bonds[i][0] != M.Bonds[j][0] {
			return M.Bonds[i][0] < M.Bonds[j][0]
		}
		return M.Bonds[i][1] < M.Bonds[j][1]
	})
}

//ApplyRigidTransform applies the rigid transformation T to every atom of the molecule.
func (M *Molecule) ApplyRigidTransform(T *Transform) {
	if M.Coords == nil || T == nil {
		return
	}
	T.Apply(M.Coords)
}

//Copy returns a deep copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	ret := &Molecule{Atoms: make([]*Atom, len(M.Atoms))}
	for i, at := range M.Atoms {
		ret.Atoms[i] = at.Copy()
	}
	if M.Coords != nil {
		ret.Coords = M.Coords.Copy()
	}
	ret.Bonds = append([][2]int(nil), M.Bonds...)
	return ret
}

//SomeCoords returns a new matrix with the coordinates of the atoms in
//indexes, in that order. It returns nil if indexes is empty.
func (M *Molecule) SomeCoords(indexes []int) (*v3.Matrix, error) {
	if len(indexes) == 0 {
		return nil, nil
	}
	if M.Coords == nil {
		return nil, fmt.Errorf("SomeCoords: molecule has no coordinates")
	}
	ret := v3.Zeros(len(indexes))
	if err := ret.SomeVecsSafe(M.Coords, indexes); err != nil {
		return nil, fmt.Errorf("SomeCoords: %w", err)
	}
	return ret, nil
}
