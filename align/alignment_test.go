/*
 * alignment_test.go, part of polytop.
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
	"strings"
	"testing"

	"github.com/rmera/polytop/poly"
	"github.com/rmera/polytop/top"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monomerPDB = `ATOM      1  C1  MON A   1       0.000   0.000   0.000  1.00  0.00           C
ATOM      2  C2  MON A   1       1.500   0.000   0.000  1.00  0.00           C
ATOM      3  C3  MON A   2       2.000   1.414   0.000  1.00  0.00           C
ATOM      4  C4  MON A   2       3.500   1.414   0.000  1.00  0.00           C
END
`

const monomerITP = `[ moleculetype ]
MON  3

[ atoms ]
  1  CT  1  MON  C1  1   0.1000  12.0110
  2  CT  1  MON  C2  1  -0.1000  12.0110
  3  CT  2  MON  C3  2   0.2500  12.0110
  4  CT  2  MON  C4  2  -0.0500  12.0110

[ bonds ]
  1  2  1  1.5300e-01  2.2418e+05
  2  3  1  1.5300e-01  2.2418e+05
  3  4  1  1.5300e-01  2.2418e+05

[ angles ]
  1  2  3  1  111.00  4.1840e+02
  2  3  4  1  111.00  4.1840e+02
`

func monomer(Te *testing.T, name string) *poly.Molecule {
	M := poly.New(name)
	require.NoError(Te, M.LoadCoordinates(strings.NewReader(monomerPDB), name))
	require.NoError(Te, M.LoadTopology(strings.NewReader(monomerITP)))
	return M
}

//The reference has F1={0,1}, the target F2={0,1,2}.
func scenario(Te *testing.T) (ref, tg *poly.Molecule) {
	ref = monomer(Te, "ref")
	tg = monomer(Te, "tg")
	require.NotNil(Te, ref.AddFragment("F1", "", []int{0, 1}))
	require.NotNil(Te, tg.AddFragment("F2", "", []int{0, 1, 2}))
	require.NotNil(Te, tg.AddFragment("tail", "", []int{3}))
	tg.Top.Atom(0).Charge = 0.5
	tg.Top.Atom(1).Charge = 0.7
	tg.UpdateTotalCharge()
	return ref, tg
}

func names(atoms []*top.Atom) []string {
	ret := make([]string, len(atoms))
	for i, a := range atoms {
		ret[i] = a.Topology().Name + ":" + a.Name
	}
	return ret
}

func TestMapUnitSelect(Te *testing.T) {
	ref, tg := scenario(Te)
	A, err := New(ref, tg, nil)
	require.NoError(Te, err)
	assert.Equal(Te, Created, A.State())
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "F2", Reference: "F1", Over: true}}))
	assert.Equal(Te, Mapped, A.State())
	assert.Equal(Te, []int{0, 1}, A.ReferenceAtomIndices())
	assert.Equal(Te, []int{0, 1}, A.TargetAtomIndices())
	assert.Equal(Te, "@0,1", A.ReferenceSelection())
	assert.Equal(Te, []string{"tg:C1", "tg:C2"}, names(A.OverAtoms()))
	assert.Same(Te, A.Target().Top, A.OverAtoms()[0].Topology())
	assert.Same(Te, ref.Top, A.UnderAtoms()[0].Topology())
	del := A.DeleteAtoms()
	require.Len(Te, del, 3)
	assert.Same(Te, ref.Top.Atom(0), del[0])
	assert.Same(Te, ref.Top.Atom(1), del[1])
	assert.Same(Te, A.Target().Top.Atom(2), del[2])

	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "F2", Reference: "F1"}}))
	assert.Same(Te, ref.Top.Atom(0), A.OverAtoms()[0])
	//all of the target fragment, nothing of the reference one.
	assert.Len(Te, A.DeleteAtoms(), 3)
	assert.Same(Te, A.Target().Top, A.DeleteAtoms()[0].Topology())

	//units without a reference fragment are ignored.
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "F2"}}))
	assert.Empty(Te, A.ReferenceAtomIndices())
}

func TestMapUnitSelectErrors(Te *testing.T) {
	ref, tg := scenario(Te)
	A, err := New(ref, tg, nil)
	require.NoError(Te, err)
	err = A.MapUnitSelect([]Unit{{Target: "F2", Reference: "nope"}})
	assert.ErrorIs(Te, err, ErrUnknownFragment)
	err = A.MapUnitSelect([]Unit{{Target: "nope", Reference: "F1"}})
	assert.ErrorIs(Te, err, ErrUnknownFragment)
	assert.Equal(Te, Created, A.State())

	ref.DeleteAtoms([]int{1})
	err = A.MapUnitSelect([]Unit{{Target: "F2", Reference: "F1"}})
	assert.ErrorIs(Te, err, ErrInvalidFragment)
	assert.Equal(Te, Created, A.State())
}

func TestTransitions(Te *testing.T) {
	ref, tg := scenario(Te)
	A, err := New(ref, tg, nil)
	require.NoError(Te, err)
	_, err = A.Superpose()
	assert.ErrorIs(Te, err, ErrInvalidTransition)
	_, err = A.Preview()
	assert.ErrorIs(Te, err, ErrInvalidTransition)
	assert.ErrorIs(Te, A.FinishTransition(), ErrInvalidTransition)

	units := []Unit{{Target: "F2", Reference: "F1", Over: true}}
	require.NoError(Te, A.MapUnitSelect(units))
	pdb, err := A.Preview()
	require.NoError(Te, err)
	assert.Contains(Te, pdb, "ATOM")
	assert.Equal(Te, Previewed, A.State())
	_, err = A.Preview()
	require.NoError(Te, err)
	require.NoError(Te, A.MapUnitSelect(units))
	assert.Equal(Te, Mapped, A.State())

	require.NoError(Te, A.Discard())
	assert.Equal(Te, Discarded, A.State())
	assert.ErrorIs(Te, A.Discard(), ErrInvalidTransition)
	assert.ErrorIs(Te, A.MapUnitSelect(units), ErrInvalidTransition)
	assert.ErrorIs(Te, A.FinishTransition(), ErrInvalidTransition)
	assert.Equal(Te, 4, ref.Len())
	assert.Equal(Te, "discarded", A.State().String())
}

func TestSuperposeIdentity(Te *testing.T) {
	ref := monomer(Te, "ref")
	ref.AddFragment("all", "", []int{0, 1, 2})
	A, err := New(ref, ref, nil)
	require.NoError(Te, err)
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "all", Reference: "all"}}))
	F, err := A.Superpose()
	require.NoError(Te, err)
	assert.True(Te, F.Transform.IsIdentity(1e-6))
	assert.InDelta(Te, 0, F.RMSD, 1e-9)
	require.Len(Te, F.Deviations, 3)
	assert.Equal(Te, "[MON]1:1.C1", F.Labels[0])
}

func TestSuperposeMoved(Te *testing.T) {
	ref, tg := scenario(Te)
	for i := 0; i < tg.Coords.Len(); i++ {
		v := tg.Coords.Coord(i)
		tg.Coords.SetCoord(i, [3]float64{-v[1] + 5, v[0] - 2, v[2] + 1})
	}
	require.NoError(Te, tg.RefreshFromCoordinates())
	tg.AddFragment("all", "", []int{0, 1, 2, 3})
	ref.AddFragment("all", "", []int{0, 1, 2, 3})
	A, err := New(ref, tg, nil)
	require.NoError(Te, err)
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "all", Reference: "all"}}))
	F, err := A.Superpose()
	require.NoError(Te, err)
	assert.False(Te, F.Transform.IsIdentity(1e-3))
	assert.InDelta(Te, 0, F.RMSD, 1e-3)
	for i := 0; i < 4; i++ {
		want := ref.Top.Atom(i).Position
		got := A.Target().Top.Atom(i).Position
		for j := 0; j < 3; j++ {
			assert.InDelta(Te, want[j], got[j], 1e-3)
		}
	}
	//the original target doesn't move
	assert.InDelta(Te, 5.0, tg.Coords.Coord(0)[0], 1e-9)
}

func TestFinishTransitionOver(Te *testing.T) {
	ref, tg := scenario(Te)
	A, err := New(ref, tg, nil)
	require.NoError(Te, err)
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "F2", Reference: "F1", Over: true}}))
	_, err = A.Superpose()
	require.NoError(Te, err)
	require.NoError(Te, A.FinishTransition())
	assert.Equal(Te, Spliced, A.State())
	assert.ErrorIs(Te, A.FinishTransition(), ErrInvalidTransition)

	//4 - 2 deleted + 4 appended - 1 excess target atom.
	require.Equal(Te, 5, ref.Len())
	require.NoError(Te, ref.Top.Validate())
	assert.Equal(Te, 5, ref.Coords.Len())
	assert.Equal(Te, "ref", ref.Top.Name)
	assert.Contains(Te, ref.ITP(), "\nref       3")
	got := make([]string, 5)
	for i, a := range ref.Top.Atoms() {
		got[i] = a.Name
	}
	assert.Equal(Te, []string{"C3", "C4", "C1", "C2", "C4"}, got)
	assert.InDelta(Te, 0.25-0.05+0.5+0.7-0.05, ref.TotalCharge, 1e-9)

	//the reference atoms the under atoms were bonded to are now bonded to the target ones.
	bonds := ref.Top.Bonds()
	assert.ElementsMatch(Te, [][2]int{{0, 3}, {0, 1}, {2, 3}}, bonds)
	assert.InDelta(Te, 0.7, ref.Top.Atom(3).Charge, 1e-9)
	assert.Len(Te, ref.Top.Records(top.Angles), 2)
	assert.Equal(Te, 5, ref.Top.NRecords())

	//F1 and F2 lost atoms, only the tail of the target is left.
	require.Len(Te, ref.Fragments(), 1)
	f := ref.Fragments()[0]
	assert.Equal(Te, "tail", f.Name())
	assert.Equal(Te, []int{4}, f.AtomIndices())
	assert.Equal(Te, "[MON]3:tail", f.Label())

	//the molecule given as target is untouched.
	assert.Equal(Te, 4, tg.Len())
	assert.Len(Te, tg.Fragments(), 2)
}

func TestFinishTransitionUnder(Te *testing.T) {
	ref, tg := scenario(Te)
	A, err := New(ref, tg, nil)
	require.NoError(Te, err)
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "F2", Reference: "F1"}}))
	require.NoError(Te, A.FinishTransition())
	require.Equal(Te, 5, ref.Len())
	require.NoError(Te, ref.Top.Validate())
	assert.InDelta(Te, 0.1-0.1+0.25-0.05-0.05, ref.TotalCharge, 1e-9)
	assert.Equal(Te, 5, ref.Top.NRecords())
	assert.Equal(Te, []string{"F1", "tail"}, []string{ref.Fragments()[0].Name(), ref.Fragments()[1].Name()})
}

func TestSession(Te *testing.T) {
	ref := monomer(Te, "ref")
	ref.AddFragment("head", "", []int{0})
	ref.AddFragment("tail", "", []int{3})
	t1 := monomer(Te, "t1")
	t1.AddFragment("x", "", []int{0})
	t2 := monomer(Te, "t2")
	t2.AddFragment("y", "", []int{3})

	S := NewSession(ref, nil)
	A1, err := S.Add(t1)
	require.NoError(Te, err)
	require.NoError(Te, A1.MapUnitSelect([]Unit{{Target: "x", Reference: "tail", Over: true}}))
	A2, err := S.Add(t2)
	require.NoError(Te, err)
	require.NoError(Te, A2.MapUnitSelect([]Unit{{Target: "y", Reference: "head", Over: true}}))
	//never mapped, left alone.
	_, err = S.Add(t2)
	require.NoError(Te, err)
	assert.Len(Te, S.Alignments(), 3)

	require.NoError(Te, S.FinishAll())
	assert.Empty(Te, S.Alignments())
	assert.Equal(Te, Spliced, A2.State())
	assert.Equal(Te, 10, ref.Len())
	assert.Equal(Te, 15, ref.Top.NRecords())
	require.NoError(Te, ref.Top.Validate())
	var fnames []string
	for _, f := range ref.Fragments() {
		fnames = append(fnames, f.Name())
	}
	assert.Equal(Te, []string{"x", "y"}, fnames)
}

func TestSessionDiscardAll(Te *testing.T) {
	ref := monomer(Te, "ref")
	ref.AddFragment("head", "", []int{0})
	t1 := monomer(Te, "t1")
	t1.AddFragment("x", "", []int{0})
	S := NewSession(ref, DefaultOptions())
	A, err := S.Add(t1)
	require.NoError(Te, err)
	require.NoError(Te, A.MapUnitSelect([]Unit{{Target: "x", Reference: "head"}}))
	S.DiscardAll()
	assert.Equal(Te, Discarded, A.State())
	assert.Empty(Te, S.Alignments())
	assert.Equal(Te, 4, ref.Len())
}
