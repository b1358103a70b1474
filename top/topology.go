/*
 * topology.go, part of polytop.
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
	"fmt"

	"gonum.org/v1/gonum/floats"
)

//Atom is an atom in a topology.
type Atom struct {
	Name     string
	AtomType string
	Element  string
	Charge   float64
	Mass     float64
	Position [3]float64 //cached from the coordinates

	top   *Topology
	res   *Residue
	cg    *ChargeGroup
	index int
}

//Index returns the 0-based position of the atom in its topology, or -1
//if the atom is not in a topology.
func (A *Atom) Index() int {
	if A.top == nil {
		return -1
	}
	return A.index
}

//Serial returns Index()+1. It is 0 for an atom not in a topology.
func (A *Atom) Serial() int {
	return A.Index() + 1
}

//Topology returns the topology that owns the atom, or nil.
func (A *Atom) Topology() *Topology { return A.top }

//Residue returns the residue the atom belongs to.
func (A *Atom) Residue() *Residue { return A.res }

//ChargeGroup returns the charge group the atom belongs to.
func (A *Atom) ChargeGroup() *ChargeGroup { return A.cg }

//ResSeq returns the sequence number of the atom's residue.
func (A *Atom) ResSeq() int {
	if A.res == nil {
		return 0
	}
	return A.res.Seq()
}

//ResName returns the name of the atom's residue.
func (A *Atom) ResName() string {
	if A.res == nil {
		return ""
	}
	return A.res.name
}

//ChargeGroupSeq returns the sequence number of the atom's charge group.
func (A *Atom) ChargeGroupSeq() int {
	if A.cg == nil {
		return 0
	}
	return A.cg.Seq()
}

//Label returns a human readable identifier for the atom.
func (A *Atom) Label() string {
	return fmt.Sprintf("[%s]%d:%d.%s", A.ResName(), A.ResSeq(), A.Serial(), A.Name)
}

//element returns the element of the atom, guessing it from the name if unset.
func (A *Atom) element() string {
	if A.Element != "" {
		return A.Element
	}
	if A.Name != "" {
		return A.Name[:1]
	}
	return "X"
}

//Residue is a contiguous set of atoms in a topology.
type Residue struct {
	name  string
	top   *Topology
	atoms []*Atom
	index int
}

//Name returns the residue name.
func (R *Residue) Name() string { return R.name }

//SetName sets the residue name, truncated to 4 characters.
func (R *Residue) SetName(name string) { R.name = resName(name) }

//Atoms returns the atoms in the residue. The slice must not be modified.
func (R *Residue) Atoms() []*Atom { return R.atoms }

//Index returns the 0-based position of the residue in its topology, or -1.
func (R *Residue) Index() int {
	if R.top == nil {
		return -1
	}
	return R.index
}

//Seq is Index()+1.
func (R *Residue) Seq() int { return R.Index() + 1 }

func resName(name string) string {
	if len(name) > 4 {
		return name[:4]
	}
	return name
}

//ChargeGroup is a set of atoms sharing a charge group number.
type ChargeGroup struct {
	top   *Topology
	atoms []*Atom
	index int
}

//Atoms returns the atoms in the charge group. The slice must not be modified.
func (C *ChargeGroup) Atoms() []*Atom { return C.atoms }

//Index returns the 0-based position of the group in its topology, or -1.
func (C *ChargeGroup) Index() int {
	if C.top == nil {
		return -1
	}
	return C.index
}

//Seq is Index()+1.
func (C *ChargeGroup) Seq() int { return C.Index() + 1 }

//Record is a bonded interaction. Params follow the order of Keys().
type Record struct {
	Section string
	Funct   int
	Params  []float64
	atoms   []*Atom
}

//Atoms returns the atoms referenced by the record. The slice must not be modified.
func (R *Record) Atoms() []*Atom { return R.atoms }

//Keys returns the names of the parameters of the record.
func (R *Record) Keys() []string {
	k, err := Fields(R.Section, R.Funct)
	if err != nil {
		return nil
	}
	return k
}

//Param returns the value of the parameter key, and whether it exists.
func (R *Record) Param(key string) (float64, bool) {
	for i, k := range R.Keys() {
		if k == key && i < len(R.Params) {
			return R.Params[i], true
		}
	}
	return 0, false
}

//AtomIndices returns the indices of the atoms of the record.
func (R *Record) AtomIndices() []int {
	ret := make([]int, len(R.atoms))
	for i, a := range R.atoms {
		ret[i] = a.Index()
	}
	return ret
}

//AtomSerials returns the serials of the atoms of the record.
func (R *Record) AtomSerials() []int {
	ret := make([]int, len(R.atoms))
	for i, a := range R.atoms {
		ret[i] = a.Serial()
	}
	return ret
}

func (R *Record) anyIn(set map[*Atom]bool) bool {
	for _, a := range R.atoms {
		if set[a] {
			return true
		}
	}
	return false
}

func (R *Record) allIn(set map[*Atom]bool) bool {
	for _, a := range R.atoms {
		if !set[a] {
			return false
		}
	}
	return true
}

//Topology is the bonded description of one molecule.
type Topology struct {
	Name string
	//Complete is true when the topology was read from an itp file, false
	//when it was only built from coordinates.
	Complete bool

	atoms    []*Atom
	residues []*Residue
	cgs      []*ChargeGroup
	sections []string //in the order they were first populated
	records  map[string][]*Record
	dropped  int
}

//New returns an empty topology with the given molecule name.
func New(name string) *Topology {
	return &Topology{Name: name, records: make(map[string][]*Record)}
}

//Len returns the number of atoms.
func (T *Topology) Len() int { return len(T.atoms) }

//Atom returns the ith atom. It panics if i is out of range.
func (T *Topology) Atom(i int) *Atom { return T.atoms[i] }

//Atoms returns the atoms of the topology. The slice must not be modified.
func (T *Topology) Atoms() []*Atom { return T.atoms }

//Residues returns the residues of the topology. The slice must not be modified.
func (T *Topology) Residues() []*Residue { return T.residues }

//ChargeGroups returns the charge groups of the topology. The slice must not be modified.
func (T *Topology) ChargeGroups() []*ChargeGroup { return T.cgs }

//Sections returns the bonded sections that have been populated, in the order
//they were first populated.
func (T *Topology) Sections() []string {
	return append([]string(nil), T.sections...)
}

//Records returns the records of section. The slice must not be modified.
func (T *Topology) Records(section string) []*Record { return T.records[section] }

//EachRecord calls f for every record, section by section.
func (T *Topology) EachRecord(f func(r *Record)) {
	for _, s := range T.sections {
		for _, r := range T.records[s] {
			f(r)
		}
	}
}

//NRecords returns the total number of bonded records.
func (T *Topology) NRecords() int {
	n := 0
	for _, s := range T.sections {
		n += len(T.records[s])
	}
	return n
}

//Contains returns true if the atom belongs to T.
func (T *Topology) Contains(a *Atom) bool {
	return a != nil && a.top == T
}

//DroppedReferences returns the number of references to absent atoms that
//were dropped from records when the topology was read.
func (T *Topology) DroppedReferences() int { return T.dropped }

//TotalCharge returns the sum of the charges of all atoms.
func (T *Topology) TotalCharge() float64 {
	c := make([]float64, len(T.atoms))
	for i, a := range T.atoms {
		c[i] = a.Charge
	}
	return floats.Sum(c)
}

//Bonds returns the pairs of atom indexes in the bonds section, the smaller first.
func (T *Topology) Bonds() [][2]int {
	ret := make([][2]int, 0, len(T.records[Bonds]))
	for _, r := range T.records[Bonds] {
		if len(r.atoms) < 2 {
			continue
		}
		i, j := r.atoms[0].Index(), r.atoms[1].Index()
		if i < 0 || j < 0 {
			continue
		}
		ret = append(ret, [2]int{min(i, j), max(i, j)})
	}
	return ret
}

//TypeTags returns an integer tag for each atom, the same for atoms sharing
//atom type and element. Tags are given in order of first appearance, starting at 0.
func (T *Topology) TypeTags() []int {
	seen := make(map[[2]string]int)
	ret := make([]int, len(T.atoms))
	for i, a := range T.atoms {
		k := [2]string{a.AtomType, a.Element}
		tag, ok := seen[k]
		if !ok {
			tag = len(seen)
			seen[k] = tag
		}
		ret[i] = tag
	}
	return ret
}

//renumber is the only writer of the position-derived indexes.
func (T *Topology) renumber() {
	for i, a := range T.atoms {
		a.top = T
		a.index = i
	}
	for i, r := range T.residues {
		r.top = T
		r.index = i
	}
	for i, c := range T.cgs {
		c.top = T
		c.index = i
	}
}

func (T *Topology) addSection(section string) {
	if _, ok := T.records[section]; ok {
		return
	}
	T.sections = append(T.sections, section)
	T.records[section] = make([]*Record, 0)
}

//Validate checks the structural invariants of the topology: every atom belongs to
//exactly one residue and one charge group of T; atoms are contiguous by residue,
//and by charge group within a residue; no group is empty; indexes match positions;
//every atom referenced by a record is in T.
func (T *Topology) Validate() error {
	inRes := make(map[*Atom]int, len(T.atoms))
	inCG := make(map[*Atom]int, len(T.atoms))
	for i, a := range T.atoms {
		if a.top != T || a.index != i {
			return fmt.Errorf("atom %d (%s) has index %d", i, a.Name, a.Index())
		}
	}
	pos := 0
	for i, r := range T.residues {
		if r.top != T || r.index != i {
			return fmt.Errorf("residue %d has index %d", i, r.Index())
		}
		if len(r.atoms) == 0 {
			return fmt.Errorf("residue %d (%s) is empty", i, r.name)
		}
		for _, a := range r.atoms {
			inRes[a]++
			if a.res != r {
				return fmt.Errorf("atom %s is listed in residue %d but belongs to another", a.Label(), r.Seq())
			}
			if a.top != T || a.index != pos {
				return fmt.Errorf("atom %s is not contiguous with residue %d", a.Label(), r.Seq())
			}
			pos++
		}
	}
	if pos != len(T.atoms) {
		return fmt.Errorf("%d atoms in residues, %d in topology", pos, len(T.atoms))
	}
	pos = 0
	for i, c := range T.cgs {
		if c.top != T || c.index != i {
			return fmt.Errorf("charge group %d has index %d", i, c.Index())
		}
		if len(c.atoms) == 0 {
			return fmt.Errorf("charge group %d is empty", i)
		}
		for _, a := range c.atoms {
			inCG[a]++
			if a.cg != c {
				return fmt.Errorf("atom %s is listed in charge group %d but belongs to another", a.Label(), c.Seq())
			}
			if a.top != T || a.index != pos {
				return fmt.Errorf("atom %s is not contiguous with charge group %d", a.Label(), c.Seq())
			}
			pos++
		}
	}
	if pos != len(T.atoms) {
		return fmt.Errorf("%d atoms in charge groups, %d in topology", pos, len(T.atoms))
	}
	for _, a := range T.atoms {
		if inRes[a] != 1 || inCG[a] != 1 {
			return fmt.Errorf("atom %s is in %d residues and %d charge groups", a.Label(), inRes[a], inCG[a])
		}
	}
	var err error
	T.EachRecord(func(r *Record) {
		if err != nil {
			return
		}
		for _, a := range r.atoms {
			if a.top != T {
				err = fmt.Errorf("%s record references atom %s not in the topology", r.Section, a.Name)
				return
			}
		}
	})
	return err
}
