/*
 * object.go, part of polytop.
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

package poly

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//FragmentObject is the serializable form of a fragment.
type FragmentObject struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	AtomIndices []int  `json:"atomIndices"`
	AtomSerials []int  `json:"atomSerials,omitempty"`
}

//Object is the serializable form of a molecule: its name, its coordinates as PDB text,
//its topology as itp text and its valid fragments, by label.
type Object struct {
	Name      string                    `json:"name"`
	PDBString string                    `json:"pdbString"`
	ITPString string                    `json:"itpString"`
	Fragments map[string]FragmentObject `json:"fragments"`
}

//Object returns the serializable form of M. Invalid fragments are left out.
func (M *Molecule) Object() (*Object, error) {
	pdb, err := M.PDB()
	if err != nil {
		return nil, err
	}
	o := &Object{Name: M.Name, PDBString: pdb, ITPString: M.ITP(), Fragments: make(map[string]FragmentObject, len(M.fragments))}
	for _, f := range M.fragments {
		if !f.Valid() {
			continue
		}
		o.Fragments[f.Label()] = FragmentObject{Name: f.name, Color: f.Color, AtomIndices: f.AtomIndices(), AtomSerials: f.AtomSerials()}
	}
	return o, nil
}

//FromObject builds a molecule from its serializable form: the coordinates are read first,
//then the topology, then the fragments, in label order.
func FromObject(o *Object) (*Molecule, error) {
	if o == nil {
		return nil, fmt.Errorf("FromObject: nil object")
	}
	M := New(o.Name)
	if err := M.LoadCoordinates(strings.NewReader(o.PDBString), o.Name); err != nil {
		return nil, fmt.Errorf("FromObject %s: %w", o.Name, err)
	}
	if err := M.LoadTopology(strings.NewReader(o.ITPString)); err != nil {
		return nil, fmt.Errorf("FromObject %s: %w", o.Name, err)
	}
	for _, label := range sortLabels(o.Fragments) {
		f := o.Fragments[label]
		M.AddFragment(f.Name, f.Color, f.AtomIndices)
	}
	return M, nil
}

//sortLabels returns the labels ordered by their text without the counter,
//then by counter, so "x 10" goes after "x 2".
func sortLabels(fragments map[string]FragmentObject) []string {
	ret := make([]string, 0, len(fragments))
	for k := range fragments {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool {
		bi, ci := splitCounter(ret[i])
		bj, cj := splitCounter(ret[j])
		if bi != bj {
			return bi < bj
		}
		return ci < cj
	})
	return ret
}

func splitCounter(label string) (string, int) {
	i := strings.LastIndex(label, " ")
	if i < 0 {
		return label, 1
	}
	c, err := strconv.Atoi(label[i+1:])
	if err != nil {
		return label, 1
	}
	return label[:i], c
}
