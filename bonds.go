/*
 * bonds.go, part of polytop.
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

	"gonum.org/v1/gonum/floats"
)

const (
	tooclose = 0.63
	bondtol  = 0.45
)

//AssignBonds replaces the bonds of mol with bonds assigned on a simple distance
//criterium, similar to that described in DOI:10.1186/1758-2946-3-33
//Atoms are bonded if their distance is below the sum of their covalent radii
//plus a tolerance. Atoms exceeding their maximum number of bonds lose
//their longest bonds.
func AssignBonds(mol *Molecule) error {
	//all against all, not thought for macromolecules.
	type bond struct {
		at1, at2 int
		dist     float64
	}
	tot := mol.Len()
	bonds := make([]bond, 0, tot)
	perAtom := make([][]int, tot) //indexes in bonds
	for i := 0; i < tot; i++ {
		cov1, ok := symbolCovrad[mol.Atom(i).Symbol]
		if !ok {
			return fmt.Errorf("AssignBonds: couldn't find the covalent radius for %s %d", mol.Atom(i).Symbol, i)
		}
		t1 := mol.Coords.RawRowView(i)
		for j := i + 1; j < tot; j++ {
			cov2, ok := symbolCovrad[mol.Atom(j).Symbol]
			if !ok {
				return fmt.Errorf("AssignBonds: couldn't find the covalent radius for %s %d", mol.Atom(j).Symbol, j)
			}
			d := floats.Distance(t1, mol.Coords.RawRowView(j), 2)
			if d < cov1+cov2+bondtol && d > tooclose {
				perAtom[i] = append(perAtom[i], len(bonds))
				perAtom[j] = append(perAtom[j], len(bonds))
				bonds = append(bonds, bond{i, j, d})
			}
		}
	}
	removed := make([]bool, len(bonds))
	//Now we check that no atom has too many bonds.
	for i := 0; i < tot; i++ {
		max := symbolMaxBonds[mol.Atom(i).Symbol]
		if max == 0 {
			continue
		}
		alive := make([]int, 0, len(perAtom[i]))
		for _, b := range perAtom[i] {
			if !removed[b] {
				alive = append(alive, b)
			}
		}
		sort.Slice(alive, func(k, l int) bool { return bonds[alive[k]].dist < bonds[alive[l]].dist })
		for _, b := range alive[min(max, len(alive)):] {
			removed[b] = true
		}
	}
	mol.Bonds = mol.Bonds[:0]
	for k, b := range bonds {
		if !removed[k] {
			mol.Bonds = append(mol.Bonds, [2]int{b.at1, b.at2})
		}
	}
	return nil
}
