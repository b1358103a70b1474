/*
 * fragment.go, part of polytop.
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
	"strconv"
	"strings"

	"github.com/rmera/polytop/top"
)

//Fragment defaults.
const (
	DefaultFragmentName  = "fragment"
	DefaultFragmentColor = "#f3f3f3"
)

//Fragment is a named, colored selection of atoms of a molecule.
type Fragment struct {
	Color string

	name  string
	atoms []*top.Atom
	ctr   string //"" for the first fragment with a name, " 2" for the second, and so on.
	mol   *Molecule
}

//Name returns the name of the fragment.
func (F *Fragment) Name() string { return F.name }

//Atoms returns the atoms of the fragment. The slice must not be modified.
func (F *Fragment) Atoms() []*top.Atom { return F.atoms }

//Len returns the number of atoms in the fragment.
func (F *Fragment) Len() int { return len(F.atoms) }

//Label identifies the fragment in its molecule. It is "[RES]seq:name" for the residue
//of the first atom, followed by the counter of the name, if it is not the first.
func (F *Fragment) Label() string {
	return F.labelWithoutCounter() + F.ctr
}

func (F *Fragment) labelWithoutCounter() string {
	if len(F.atoms) == 0 {
		return F.name
	}
	first := F.atoms[0]
	return fmt.Sprintf("[%s]%d:%s", first.ResName(), first.ResSeq(), F.name)
}

//AtomIndices returns the current indexes of the fragment atoms. Deleted atoms have index -1.
func (F *Fragment) AtomIndices() []int {
	ret := make([]int, len(F.atoms))
	for i, a := range F.atoms {
		ret[i] = a.Index()
	}
	return ret
}

//AtomSerials returns the current serials of the fragment atoms.
func (F *Fragment) AtomSerials() []int {
	ret := make([]int, len(F.atoms))
	for i, a := range F.atoms {
		ret[i] = a.Serial()
	}
	return ret
}

//Valid returns true if every atom of the fragment is still in the topology of its molecule.
func (F *Fragment) Valid() bool {
	if F.mol == nil {
		return false
	}
	for _, a := range F.atoms {
		if a.Index() < 0 || a.Topology() != F.mol.Top {
			return false
		}
	}
	return true
}

//Selection returns the fragment as a viewer selection string, "@i,j,k", or "none" for
//an empty fragment.
func (F *Fragment) Selection() string {
	if len(F.atoms) == 0 {
		return "none"
	}
	s := make([]string, len(F.atoms))
	for i, v := range F.AtomIndices() {
		s[i] = strconv.Itoa(v)
	}
	return "@" + strings.Join(s, ",")
}

//ReplaceAtoms replaces each atom of under in the fragment by the atom at the same
//position in over, unless all the atoms of the fragment are in underList.
func (F *Fragment) ReplaceAtoms(under, over, underList []*top.Atom) int {
	set := make(map[*top.Atom]bool, len(underList))
	for _, a := range underList {
		set[a] = true
	}
	all := true
	for _, a := range F.atoms {
		if !set[a] {
			all = false
			break
		}
	}
	if all {
		return 0
	}
	pos := make(map[*top.Atom]int, len(under))
	for i, a := range under {
		if _, ok := pos[a]; !ok {
			pos[a] = i
		}
	}
	n := 0
	for i, a := range F.atoms {
		if j, ok := pos[a]; ok && j < len(over) {
			F.atoms[i] = over[j]
			n++
		}
	}
	return n
}

//AddFragment adds to M a fragment with the atoms of the given indexes. Empty values
//of name or color get the defaults. The fragment is not added, and nil is returned,
//if it has no atoms or any index is not that of an atom of M.
func (M *Molecule) AddFragment(name, color string, indices []int) *Fragment {
	if name == "" {
		name = DefaultFragmentName
	}
	if color == "" {
		color = DefaultFragmentColor
	}
	if len(indices) == 0 {
		return nil
	}
	F := &Fragment{name: name, Color: color, mol: M, atoms: make([]*top.Atom, 0, len(indices))}
	for _, i := range indices {
		if i < 0 || i >= M.Top.Len() {
			return nil
		}
		F.atoms = append(F.atoms, M.Top.Atom(i))
	}
	M.addFragment(F)
	return F
}

func (M *Molecule) addFragment(F *Fragment) {
	if M.counter == nil {
		M.counter = make(map[string]int)
	}
	M.counter[F.name]++
	F.ctr = ""
	if c := M.counter[F.name]; c > 1 {
		F.ctr = " " + strconv.Itoa(c)
	}
	F.mol = M
	M.fragments = append(M.fragments, F)
}

//Fragments returns the fragments of M, in the order they were added.
func (M *Molecule) Fragments() []*Fragment {
	return append([]*Fragment(nil), M.fragments...)
}

//Labels returns the labels of the fragments of M, in the order they were added.
func (M *Molecule) Labels() []string {
	ret := make([]string, len(M.fragments))
	for i, f := range M.fragments {
		ret[i] = f.Label()
	}
	return ret
}

//Fragment returns the fragment with the given label, or nil.
func (M *Molecule) Fragment(label string) *Fragment {
	for _, f := range M.fragments {
		if f.Label() == label {
			return f
		}
	}
	return nil
}

//FindFragment returns the fragment with the given label or, if there is none,
//the first fragment with that name. It returns nil if nothing matches.
func (M *Molecule) FindFragment(key string) *Fragment {
	if f := M.Fragment(key); f != nil {
		return f
	}
	for _, f := range M.fragments {
		if f.name == key {
			return f
		}
	}
	return nil
}

//DeleteFragment removes the fragment with the given label from M.
//It returns false if there is no such fragment.
func (M *Molecule) DeleteFragment(label string) bool {
	for i, f := range M.fragments {
		if f.Label() == label {
			M.removeFragment(i)
			return true
		}
	}
	return false
}

func (M *Molecule) removeFragment(i int) {
	M.fragments[i].mol = nil
	M.fragments = append(M.fragments[:i], M.fragments[i+1:]...)
}

//RenameFragment gives a new name to the fragment with the given label. The fragment
//is added again under the new name, so it goes to the end of the fragment list and gets
//the counter of the new name. It returns the renamed fragment, or nil if there is no
//fragment with that label.
func (M *Molecule) RenameFragment(label, name string) *Fragment {
	for i, f := range M.fragments {
		if f.Label() == label {
			M.removeFragment(i)
			f.name = name
			M.addFragment(f)
			return f
		}
	}
	return nil
}

//RemoveInvalidFragments removes the fragments that are no longer valid
//and returns how many were removed.
func (M *Molecule) RemoveInvalidFragments() int {
	n := 0
	for i := 0; i < len(M.fragments); {
		if !M.fragments[i].Valid() {
			M.removeFragment(i)
			n++
			continue
		}
		i++
	}
	return n
}

//AddFragmentsFromOther removes the invalid fragments of M, then adds to M a copy of each valid
//fragment of other, with the same name, color and atom indexes. The atoms of other must have
//been moved to M already. It returns the number of fragments added.
func (M *Molecule) AddFragmentsFromOther(other *Molecule) int {
	M.RemoveInvalidFragments()
	n := 0
	for _, f := range other.fragments {
		idx := make([]int, 0, len(f.atoms))
		ok := len(f.atoms) > 0
		for _, a := range f.atoms {
			if a.Index() < 0 || a.Topology() != M.Top {
				ok = false
				break
			}
			idx = append(idx, a.Index())
		}
		if !ok {
			continue
		}
		if M.AddFragment(f.name, f.Color, idx) != nil {
			n++
		}
	}
	return n
}

//ReplaceAtoms replaces the atoms of under by those of over, in the topology records and
//in the fragments of M. See top.Topology.ReplaceAtoms and Fragment.ReplaceAtoms.
func (M *Molecule) ReplaceAtoms(under, over, underList []*top.Atom) (int, error) {
	n, err := M.Top.ReplaceAtoms(under, over, underList)
	if err != nil {
		return 0, err
	}
	for _, f := range M.fragments {
		n += f.ReplaceAtoms(under, over, underList)
	}
	return n, nil
}
