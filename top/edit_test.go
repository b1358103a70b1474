/*
 * edit_test.go, part of polytop.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNumbering(Te *testing.T, T *Topology) {
	Te.Helper()
	for i, a := range T.Atoms() {
		require.Equal(Te, i, a.Index())
		require.Equal(Te, a.Index()+1, a.Serial())
	}
	require.NoError(Te, T.Validate())
}

func TestDeleteAtomsCascade(Te *testing.T) {
	T := readEthanol(Te)
	c2 := T.Atom(3)
	removed := T.DeleteAtoms([]*Atom{c2})
	//bonds 1-4 and 4-5, both angles and both dihedrals.
	assert.Equal(Te, 6, removed)
	assert.Equal(Te, 5, T.Len())
	assert.Len(Te, T.Residues(), 2)
	assert.Len(Te, T.ChargeGroups(), 2)
	assert.Len(Te, T.Records(Bonds), 3)
	assert.Len(Te, T.Records(Pairs), 2)
	assert.Empty(Te, T.Records(Angles))
	assert.Empty(Te, T.Records(Dihedrals))
	assert.Len(Te, T.Records(Exclusions), 1)
	assert.Equal(Te, -1, c2.Index())
	assert.Equal(Te, 0, c2.Serial())
	assert.Nil(Te, c2.Residue())
	assertNumbering(Te, T)
	assert.Equal(Te, "O1", T.Atom(3).Name)
	assert.Equal(Te, 4, T.Atom(3).Serial())
	T.EachRecord(func(r *Record) {
		for _, a := range r.Atoms() {
			assert.True(Te, T.Contains(a))
		}
	})

	//the whole second residue.
	removed = T.DeleteAtoms([]*Atom{T.Atom(3), T.Atom(4)})
	assert.Equal(Te, 4, removed) //bond 5-6, both pairs and the exclusion
	assert.Len(Te, T.Residues(), 1)
	assert.Len(Te, T.ChargeGroups(), 1)
	assert.Equal(Te, 2, T.NRecords())
	assertNumbering(Te, T)

	//foreign atoms are ignored
	other := readEthanol(Te)
	assert.Zero(Te, T.DeleteAtoms([]*Atom{other.Atom(0)}))
	assert.Equal(Te, 3, T.Len())
	assert.Equal(Te, 6, other.Len())
}

func TestAddRecord(Te *testing.T) {
	T := readEthanol(Te)
	r, err := T.AddRecord(Angles, 1, []float64{109.5, 400}, T.Atom(0), T.Atom(3), T.Atom(4))
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 3, 4}, r.AtomIndices())
	assert.Len(Te, T.Records(Angles), 3)

	_, err = T.AddRecord(Pairs, 1, nil, T.Atom(0), T.Atom(5))
	require.NoError(Te, err)
	_, err = T.AddRecord(Bonds, 11, nil, T.Atom(0), T.Atom(1))
	assert.ErrorIs(Te, err, ErrUnknownFunctionType)
	_, err = T.AddRecord("impropers", 1, nil, T.Atom(0), T.Atom(1))
	assert.ErrorIs(Te, err, ErrUnknownSection)
	_, err = T.AddRecord(Bonds, 1, []float64{0.1}, T.Atom(0), T.Atom(1))
	assert.Error(Te, err)
	_, err = T.AddRecord(Bonds, 1, nil, T.Atom(0))
	assert.Error(Te, err)
	other := readEthanol(Te)
	_, err = T.AddRecord(Bonds, 1, nil, T.Atom(0), other.Atom(1))
	assert.ErrorIs(Te, err, ErrForeignAtom)
}

func TestAddOther(Te *testing.T) {
	T := readEthanol(Te)
	other := readEthanol(Te)
	_, err := other.AddRecord(Pairs, 1, nil, other.Atom(2), other.Atom(4))
	require.NoError(Te, err)
	first := other.Atom(0)
	dropped := T.AddOther(other)
	assert.Zero(Te, dropped)
	assert.Equal(Te, 12, T.Len())
	assert.Len(Te, T.Residues(), 4)
	assert.Len(Te, T.ChargeGroups(), 6)
	assert.Equal(Te, 6, first.Index())
	assert.Equal(Te, 12+13, T.NRecords())
	assert.Equal(Te, []int{6, 7}, T.Records(Bonds)[5].AtomIndices())
	assert.Equal(Te, 3, T.Atom(6).ResSeq())
	assert.Zero(Te, other.Len())
	assert.Zero(Te, other.NRecords())
	assertNumbering(Te, T)
	assert.InDelta(Te, -0.36, T.TotalCharge(), 1e-9)
}

func TestReplaceAtoms(Te *testing.T) {
	T := readEthanol(Te)
	h12 := T.Atom(2)
	o1 := T.Atom(4)
	h1 := T.Atom(5)
	//replace H12 by O1, H1 by O1 except where all atoms are to be deleted.
	n, err := T.ReplaceAtoms([]*Atom{h12}, []*Atom{o1}, []*Atom{h12})
	require.NoError(Te, err)
	assert.Equal(Te, 1, n)
	assert.Equal(Te, []int{0, 4}, T.Records(Bonds)[1].AtomIndices())

	//the exclusion 1-6 is made only of atoms in the list, and is left alone
	n, err = T.ReplaceAtoms([]*Atom{h1}, []*Atom{o1}, []*Atom{T.Atom(0), h1})
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 5}, T.Records(Exclusions)[0].AtomIndices())
	assert.Equal(Te, []int{4, 4}, T.Records(Bonds)[4].AtomIndices())
	assert.Equal(Te, 2, n) //the bond and the dihedral

	_, err = T.ReplaceAtoms([]*Atom{h1}, nil, nil)
	assert.Error(Te, err)
}

func TestSetResidue(Te *testing.T) {
	T := readEthanol(Te)
	h11 := T.Atom(1)
	alc := T.Residues()[1]
	require.NoError(Te, T.SetResidue(h11, alc))
	assertNumbering(Te, T)
	assert.Equal(Te, alc, h11.Residue())
	//moved to the end of the second residue, in a new charge group
	assert.Equal(Te, 5, h11.Index())
	assert.Equal(Te, "H11", h11.Name)
	assert.Len(Te, T.ChargeGroups(), 4)
	assert.Len(Te, h11.ChargeGroup().Atoms(), 1)
	assert.Equal(Te, []string{"C1", "H12", "C2", "O1", "H1", "H11"}, names(T))
	//records follow the atom
	assert.Equal(Te, []int{0, 5}, T.Records(Bonds)[0].AtomIndices())

	//a repeated name is renamed
	h12 := T.Atom(1)
	h12.Name = "H1"
	require.NoError(Te, T.MoveAtomsToResidue([]*Atom{h12}, 1))
	assert.Equal(Te, "H6", h12.Name) //element guessed from the name, index 5+1
	assertNumbering(Te, T)

	assert.Error(Te, T.MoveAtomsToResidue([]*Atom{h12}, 7))
	assert.ErrorIs(Te, T.SetResidue(readEthanol(Te).Atom(0), alc), ErrForeignAtom)
}

func names(T *Topology) []string {
	ret := make([]string, 0, T.Len())
	for _, a := range T.Atoms() {
		ret = append(ret, a.Name)
	}
	return ret
}

func TestToMonomer(Te *testing.T) {
	T := readEthanol(Te)
	T.Atom(4).Name = "C1"
	T.Atom(4).Element = "O"
	T.ToMonomer("LONGNAME")
	require.Len(Te, T.Residues(), 1)
	assert.Equal(Te, "LONG", T.Residues()[0].Name())
	assert.Len(Te, T.ChargeGroups(), 3)
	assert.Equal(Te, []string{"C1", "H11", "H12", "C2", "O5", "H1"}, names(T))
	assertNumbering(Te, T)

	e := New("EMPTY")
	e.ToMonomer("")
	assert.Empty(Te, e.Residues())
	require.NoError(Te, e.Validate())
}

func TestClone(Te *testing.T) {
	T := readEthanol(Te)
	c, amap := T.Clone()
	require.Len(Te, amap, T.Len())
	assertNumbering(Te, c)
	assert.Equal(Te, T.ITP(), c.ITP())
	assert.Equal(Te, c.Atom(3), amap[T.Atom(3)])
	assert.True(Te, c.Contains(amap[T.Atom(3)]))
	assert.False(Te, T.Contains(amap[T.Atom(3)]))

	c.DeleteAtoms([]*Atom{c.Atom(0)})
	c.Atom(0).Charge = 5
	assert.Equal(Te, 6, T.Len())
	assert.Equal(Te, 12, T.NRecords())
	assert.InDelta(Te, 0.06, T.Atom(1).Charge, 1e-12)
	assert.Equal(Te, T.ITP(), T.Copy().ITP())
}

func TestValidateCatchesBrokenInvariants(Te *testing.T) {
	T := readEthanol(Te)
	T.residues[0].atoms = T.residues[0].atoms[:3]
	assert.Error(Te, T.Validate())

	T = readEthanol(Te)
	T.atoms[0], T.atoms[1] = T.atoms[1], T.atoms[0]
	assert.Error(Te, T.Validate())

	T = readEthanol(Te)
	other := readEthanol(Te)
	T.records[Bonds][0].atoms[0] = other.Atom(0)
	assert.Error(Te, T.Validate())
}

func TestAtomLabel(Te *testing.T) {
	T := readEthanol(Te)
	assert.Equal(Te, "[ALC]2:5.O1", T.Atom(4).Label())
}
