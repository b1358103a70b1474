/*
 * edit.go, part of polytop.
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

package top

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

//ErrForeignAtom is returned when an operation receives an atom that doesn't
//belong to the topology.
var ErrForeignAtom = errors.New("top: atom not in topology")

//AtomRow is the data in one line of the atoms section, plus the
//element and position, which come from the coordinates.
type AtomRow struct {
	Serial         int
	AtomType       string
	ResSeq         int
	ResName        string
	Name           string
	ChargeGroupSeq int
	Charge         float64
	Mass           float64
	Element        string
	Position       [3]float64
}

//AddAtoms appends one atom per row to the topology. A new residue is started
//every time ResSeq changes from one row to the next, and a new charge group every
//time ChargeGroupSeq changes, so rows must be grouped contiguously by residue and
//by charge group. A residue without name takes the name of the topology.
//The row serials are not kept, atoms are numbered by position.
func (T *Topology) AddAtoms(rows []AtomRow) []*Atom {
	ret := make([]*Atom, 0, len(rows))
	var res *Residue
	var cg *ChargeGroup
	for i, row := range rows {
		if i == 0 || row.ChargeGroupSeq != rows[i-1].ChargeGroupSeq {
			cg = &ChargeGroup{top: T}
			T.cgs = append(T.cgs, cg)
		}
		if i == 0 || row.ResSeq != rows[i-1].ResSeq {
			name := row.ResName
			if name == "" {
				name = T.Name
			}
			res = &Residue{name: resName(name), top: T}
			T.residues = append(T.residues, res)
		}
		a := &Atom{
			Name:     row.Name,
			AtomType: row.AtomType,
			Element:  row.Element,
			Charge:   row.Charge,
			Mass:     row.Mass,
			Position: row.Position,
			top:      T,
			res:      res,
			cg:       cg,
		}
		res.atoms = append(res.atoms, a)
		cg.atoms = append(cg.atoms, a)
		T.atoms = append(T.atoms, a)
		ret = append(ret, a)
	}
	T.renumber()
	return ret
}

//AddRecord adds a bonded record to section. The function type must be in the
//schema for the section, params must have one value per field of that function
//type, or none at all (parameters taken from the force field), and the atoms,
//as many as the section arity, must belong to T.
func (T *Topology) AddRecord(section string, funct int, params []float64, atoms ...*Atom) (*Record, error) {
	arity, err := Arity(section)
	if err != nil {
		return nil, err
	}
	keys, err := Fields(section, funct)
	if err != nil {
		return nil, err
	}
	if len(atoms) != arity {
		return nil, fmt.Errorf("top: %s records need %d atoms, got %d", section, arity, len(atoms))
	}
	if len(params) != 0 && len(params) != len(keys) {
		return nil, fmt.Errorf("top: %s function type %d needs %d parameters, got %d", section, funct, len(keys), len(params))
	}
	for _, a := range atoms {
		if !T.Contains(a) {
			return nil, fmt.Errorf("AddRecord: %w", ErrForeignAtom)
		}
	}
	r := &Record{Section: section, Funct: funct, Params: append([]float64(nil), params...), atoms: append([]*Atom(nil), atoms...)}
	T.appendRecord(r)
	return r, nil
}

func (T *Topology) appendRecord(r *Record) {
	T.addSection(r.Section)
	T.records[r.Section] = append(T.records[r.Section], r)
}

func (T *Topology) ownsAll(r *Record) bool {
	for _, a := range r.atoms {
		if a.top != T {
			return false
		}
	}
	return true
}

//AddOther appends all the atoms, residues and charge groups of other to T,
//then its records, section by section. A record is only kept if all its atoms are
//in T after the merge. other is left empty. The number of records dropped is returned.
func (T *Topology) AddOther(other *Topology) int {
	if other == nil || other == T {
		return 0
	}
	T.atoms = append(T.atoms, other.atoms...)
	T.residues = append(T.residues, other.residues...)
	T.cgs = append(T.cgs, other.cgs...)
	T.renumber()
	dropped := 0
	for _, s := range other.sections {
		T.addSection(s)
		for _, r := range other.records[s] {
			if T.ownsAll(r) {
				T.records[s] = append(T.records[s], r)
			} else {
				dropped++
			}
		}
	}
	other.atoms = nil
	other.residues = nil
	other.cgs = nil
	other.sections = nil
	other.records = make(map[string][]*Record)
	return dropped
}

func atomSet(atoms []*Atom) map[*Atom]bool {
	ret := make(map[*Atom]bool, len(atoms))
	for _, a := range atoms {
		ret[a] = true
	}
	return ret
}

//DeleteAtoms removes the given atoms from T, from their residues and charge
//groups, and removes every record that references any of them. Residues and
//charge groups left empty are removed. Atoms not in T are ignored. The deleted
//atoms are detached, their Index() is -1 afterwards. It returns the number of
//records removed.
func (T *Topology) DeleteAtoms(atoms []*Atom) int {
	del := make(map[*Atom]bool, len(atoms))
	for _, a := range atoms {
		if T.Contains(a) {
			del[a] = true
		}
	}
	if len(del) == 0 {
		return 0
	}
	kept := T.atoms[:0]
	for _, a := range T.atoms {
		if !del[a] {
			kept = append(kept, a)
			continue
		}
		a.res.atoms = removeAtom(a.res.atoms, a)
		a.cg.atoms = removeAtom(a.cg.atoms, a)
	}
	clear(T.atoms[len(kept):])
	T.atoms = kept
	removed := 0
	for _, s := range T.sections {
		recs := T.records[s][:0]
		for _, r := range T.records[s] {
			if r.anyIn(del) {
				removed++
				continue
			}
			recs = append(recs, r)
		}
		T.records[s] = recs
	}
	for a := range del {
		a.top = nil
		a.res = nil
		a.cg = nil
		a.index = -1
	}
	T.RemoveEmpty()
	return removed
}

func removeAtom(list []*Atom, a *Atom) []*Atom {
	for i, v := range list {
		if v == a {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

//ReplaceAtoms replaces, in every record, each atom of under by the atom at the
//same position in over. Records made up only of atoms in underList are left
//untouched, as they are expected to be deleted. It returns the number of
//replacements made.
func (T *Topology) ReplaceAtoms(under, over, underList []*Atom) (int, error) {
	if len(under) != len(over) {
		return 0, fmt.Errorf("ReplaceAtoms: %d under atoms and %d over atoms", len(under), len(over))
	}
	for _, a := range over {
		if !T.Contains(a) {
			return 0, fmt.Errorf("ReplaceAtoms: %w", ErrForeignAtom)
		}
	}
	set := atomSet(underList)
	n := 0
	for i, u := range under {
		T.EachRecord(func(r *Record) {
			if r.allIn(set) {
				return
			}
			for j, a := range r.atoms {
				if a == u {
					r.atoms[j] = over[i]
					n++
				}
			}
		})
	}
	return n, nil
}

//RemoveEmpty removes the residues and charge groups without atoms.
func (T *Topology) RemoveEmpty() {
	res := T.residues[:0]
	for _, r := range T.residues {
		if len(r.atoms) > 0 {
			res = append(res, r)
		} else {
			r.top = nil
		}
	}
	clear(T.residues[len(res):])
	T.residues = res
	cgs := T.cgs[:0]
	for _, c := range T.cgs {
		if len(c.atoms) > 0 {
			cgs = append(cgs, c)
		} else {
			c.top = nil
		}
	}
	clear(T.cgs[len(cgs):])
	T.cgs = cgs
	T.renumber()
}

//OrderByResidue reorders the atoms so they follow the order of the residues,
//and the charge groups so they follow the order of the atoms.
func (T *Topology) OrderByResidue() {
	atoms := make([]*Atom, 0, len(T.atoms))
	for _, r := range T.residues {
		atoms = append(atoms, r.atoms...)
	}
	T.atoms = atoms
	T.renumber()
	seen := make(map[*ChargeGroup]bool, len(T.cgs))
	cgs := make([]*ChargeGroup, 0, len(T.cgs))
	for _, a := range T.atoms {
		if !seen[a.cg] {
			seen[a.cg] = true
			cgs = append(cgs, a.cg)
		}
	}
	for _, c := range cgs {
		sort.Slice(c.atoms, func(i, j int) bool { return c.atoms[i].index < c.atoms[j].index })
	}
	T.cgs = cgs
	T.renumber()
}

//SetResidue moves the atom a to the residue r, at its end. If the charge group of a
//has atoms outside r, a is put in a new charge group of its own. The atoms are then
//reordered by residue, and the atoms of r renamed to unique names.
func (T *Topology) SetResidue(a *Atom, r *Residue) error {
	if !T.Contains(a) || r == nil || r.top != T {
		return fmt.Errorf("SetResidue: %w", ErrForeignAtom)
	}
	if a.res == r {
		return nil
	}
	a.res.atoms = removeAtom(a.res.atoms, a)
	a.res = r
	r.atoms = append(r.atoms, a)
	for _, o := range a.cg.atoms {
		if o != a && o.res != r {
			a.cg.atoms = removeAtom(a.cg.atoms, a)
			a.cg = &ChargeGroup{top: T, atoms: []*Atom{a}}
			T.cgs = append(T.cgs, a.cg)
			break
		}
	}
	T.RemoveEmpty()
	T.OrderByResidue()
	T.RenameAtomsUnique(r)
	return nil
}

//MoveAtomsToResidue moves every atom in atoms to the residue with the given index.
func (T *Topology) MoveAtomsToResidue(atoms []*Atom, index int) error {
	if index < 0 || index >= len(T.residues) {
		return fmt.Errorf("MoveAtomsToResidue: no residue with index %d", index)
	}
	r := T.residues[index]
	for _, a := range atoms {
		if err := T.SetResidue(a, r); err != nil {
			return fmt.Errorf("MoveAtomsToResidue: %w", err)
		}
	}
	return nil
}

//ToMonomer puts all the atoms of T in one residue called name (the topology name if
//empty), keeping the charge groups, and renames the atoms to unique names.
func (T *Topology) ToMonomer(name string) {
	if name == "" {
		name = T.Name
	}
	res := &Residue{name: resName(name), top: T, atoms: append([]*Atom(nil), T.atoms...)}
	for _, r := range T.residues {
		r.top = nil
		r.atoms = nil
	}
	for _, a := range T.atoms {
		a.res = res
	}
	T.residues = []*Residue{res}
	if len(T.atoms) == 0 {
		T.residues = nil
	}
	T.renumber()
	T.RenameAtomsUnique(res)
}

//RenameAtomsUnique renames the atoms of r that repeat the name of an earlier atom
//in r, to the element symbol followed by a number derived from the atom index.
func (T *Topology) RenameAtomsUnique(r *Residue) {
	named := make(map[string]bool, len(r.atoms))
	for _, a := range r.atoms {
		for i := 1; named[a.Name]; i++ {
			a.Name = a.element() + strconv.Itoa(a.Index()+i)
		}
		named[a.Name] = true
	}
}

//Copy returns a deep copy of T.
func (T *Topology) Copy() *Topology {
	c, _ := T.Clone()
	return c
}

//Clone returns a deep copy of T, and a map from each atom of T to its copy.
func (T *Topology) Clone() (*Topology, map[*Atom]*Atom) {
	ret := New(T.Name)
	ret.Complete = T.Complete
	ret.dropped = T.dropped
	amap := make(map[*Atom]*Atom, len(T.atoms))
	rmap := make(map[*Residue]*Residue, len(T.residues))
	cmap := make(map[*ChargeGroup]*ChargeGroup, len(T.cgs))
	for _, r := range T.residues {
		nr := &Residue{name: r.name, top: ret}
		rmap[r] = nr
		ret.residues = append(ret.residues, nr)
	}
	for _, c := range T.cgs {
		nc := &ChargeGroup{top: ret}
		cmap[c] = nc
		ret.cgs = append(ret.cgs, nc)
	}
	for _, a := range T.atoms {
		na := *a
		na.top = ret
		na.res = rmap[a.res]
		na.cg = cmap[a.cg]
		amap[a] = &na
		ret.atoms = append(ret.atoms, &na)
	}
	for _, r := range T.residues {
		for _, a := range r.atoms {
			rmap[r].atoms = append(rmap[r].atoms, amap[a])
		}
	}
	for _, c := range T.cgs {
		for _, a := range c.atoms {
			cmap[c].atoms = append(cmap[c].atoms, amap[a])
		}
	}
	for _, s := range T.sections {
		ret.addSection(s)
		for _, r := range T.records[s] {
			nr := &Record{Section: r.Section, Funct: r.Funct, Params: append([]float64(nil), r.Params...)}
			for _, a := range r.atoms {
				nr.atoms = append(nr.atoms, amap[a])
			}
			ret.records[s] = append(ret.records[s], nr)
		}
	}
	ret.renumber()
	return ret, amap
}
