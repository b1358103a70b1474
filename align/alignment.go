/*
 * alignment.go, part of polytop.
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
	"errors"
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/polytop"
	"github.com/rmera/polytop/poly"
	"github.com/rmera/polytop/top"
	"go.uber.org/zap"
)

//Errors returned by alignments.
var (
	ErrInvalidTransition = errors.New("align: invalid state transition")
	ErrUnknownFragment   = errors.New("align: unknown fragment")
	ErrInvalidFragment   = errors.New("align: fragment with atoms not in its molecule")
)

//State is the state of an alignment.
type State int

//The states of an alignment. Spliced and Discarded are terminal.
const (
	Created State = iota
	Mapped
	Previewed
	Spliced
	Discarded
)

var stateNames = [...]string{"created", "mapped", "previewed", "spliced", "discarded"}

func (S State) String() string {
	if S < 0 || int(S) >= len(stateNames) {
		return "State(" + strconv.Itoa(int(S)) + ")"
	}
	return stateNames[S]
}

//Unit pairs a fragment of the target with a fragment of the reference. If Over is
//true the target atoms are kept where the two fragments overlap, otherwise the
//reference atoms are.
type Unit struct {
	Target    string //label or name of a target fragment
	Reference string //label or name of a reference fragment
	Over      bool
}

//Fit is the result of superimposing the target on the reference.
type Fit struct {
	Transform  *chem.Transform
	RMSD       float64
	Deviations []float64 //one per pair of corresponding atoms, after the fit
	Labels     []string  //labels of the target atoms in each pair
}

//Alignment joins a target molecule to a reference molecule, by pairs of fragments.
//The target is copied when the alignment is created, so the original
//target molecule is never modified.
type Alignment struct {
	reference *poly.Molecule
	target    *poly.Molecule
	state     State
	log       *zap.Logger
	maxRMSD   float64

	refAtoms      []*top.Atom
	tgAtoms       []*top.Atom
	overAtoms     []*top.Atom
	underAtoms    []*top.Atom
	toDeleteAtoms []*top.Atom
}

//New returns an alignment of a copy of target on reference. O can be nil.
func New(reference, target *poly.Molecule, O *Options) (*Alignment, error) {
	O = checkOptions(O)
	tg, err := target.Copy()
	if err != nil {
		return nil, fmt.Errorf("align.New: %w", err)
	}
	A := &Alignment{reference: reference, target: tg, log: O.Log, maxRMSD: O.MaxRMSD}
	A.log.Debug("alignment created", zap.String("reference", reference.Name), zap.String("target", tg.Name))
	return A, nil
}

//State returns the current state of the alignment.
func (A *Alignment) State() State { return A.state }

//Reference returns the reference molecule.
func (A *Alignment) Reference() *poly.Molecule { return A.reference }

//Target returns the copy of the target molecule that is aligned and spliced.
func (A *Alignment) Target() *poly.Molecule { return A.target }

func (A *Alignment) transition(to State, from ...State) error {
	for _, f := range from {
		if A.state == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, A.state, to)
}

func findFragment(M *poly.Molecule, key, side string) (*poly.Fragment, error) {
	f := M.FindFragment(key)
	if f == nil {
		return nil, fmt.Errorf("%w: %s fragment %q in %s", ErrUnknownFragment, side, key, M.Name)
	}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %s fragment %q in %s", ErrInvalidFragment, side, key, M.Name)
	}
	return f, nil
}

//MapUnitSelect builds the atom lists of the alignment from units. For each unit, the
//first n atoms of both fragments are paired, where n is the size of the smaller fragment.
//All the atoms of the fragment on the side not kept, plus the atoms beyond n of the
//other fragment, are marked for deletion. Units without a reference fragment are ignored.
//Calling it again replaces the previous lists. On error, the alignment is not modified.
func (A *Alignment) MapUnitSelect(units []Unit) error {
	if err := A.transition(Mapped, Created, Mapped, Previewed); err != nil {
		return err
	}
	var ref, tg, over, under, del []*top.Atom
	for _, u := range units {
		if u.Reference == "" {
			continue
		}
		rf, err := findFragment(A.reference, u.Reference, "reference")
		if err != nil {
			return err
		}
		tf, err := findFragment(A.target, u.Target, "target")
		if err != nil {
			return err
		}
		rfAtoms, tgAtoms := rf.Atoms(), tf.Atoms()
		n := min(len(rfAtoms), len(tgAtoms))
		ref = append(ref, rfAtoms[:n]...)
		tg = append(tg, tgAtoms[:n]...)
		if u.Over {
			over = append(over, tgAtoms[:n]...)
			under = append(under, rfAtoms[:n]...)
			del = append(del, rfAtoms...)
			del = append(del, tgAtoms[n:]...)
		} else {
			over = append(over, rfAtoms[:n]...)
			under = append(under, tgAtoms[:n]...)
			del = append(del, tgAtoms...)
			del = append(del, rfAtoms[n:]...)
		}
		A.log.Debug("unit mapped", zap.String("target", tf.Label()), zap.String("reference", rf.Label()), zap.Int("paired", n), zap.Bool("over", u.Over))
	}
	A.refAtoms, A.tgAtoms = ref, tg
	A.overAtoms, A.underAtoms, A.toDeleteAtoms = over, under, del
	A.state = Mapped
	return nil
}

func indices(atoms []*top.Atom) []int {
	ret := make([]int, len(atoms))
	for i, a := range atoms {
		ret[i] = a.Index()
	}
	return ret
}

func selection(atoms []*top.Atom) string {
	s := make([]string, len(atoms))
	for i, a := range atoms {
		s[i] = strconv.Itoa(a.Index())
	}
	return "@" + strings.Join(s, ",")
}

//ReferenceAtomIndices returns the indexes of the paired reference atoms.
func (A *Alignment) ReferenceAtomIndices() []int { return indices(A.refAtoms) }

//TargetAtomIndices returns the indexes of the paired target atoms.
func (A *Alignment) TargetAtomIndices() []int { return indices(A.tgAtoms) }

//ReferenceSelection returns the paired reference atoms as a selection, "@i,j".
func (A *Alignment) ReferenceSelection() string { return selection(A.refAtoms) }

//TargetSelection returns the paired target atoms as a selection.
func (A *Alignment) TargetSelection() string { return selection(A.tgAtoms) }

//OverAtoms returns the atoms that are kept where the fragments overlap.
func (A *Alignment) OverAtoms() []*top.Atom { return append([]*top.Atom(nil), A.overAtoms...) }

//UnderAtoms returns the atoms replaced by the over atoms, in the same order.
func (A *Alignment) UnderAtoms() []*top.Atom { return append([]*top.Atom(nil), A.underAtoms...) }

//DeleteAtoms returns the atoms that are deleted by the splice.
func (A *Alignment) DeleteAtoms() []*top.Atom { return append([]*top.Atom(nil), A.toDeleteAtoms...) }

//Superpose moves the target so its paired atoms are superimposed on those of the
//reference, and returns the quality of the fit. Without paired atoms
//nothing is moved, and an identity fit is returned.
func (A *Alignment) Superpose() (*Fit, error) {
	if err := A.transition(A.state, Mapped, Previewed); err != nil {
		return nil, err
	}
	if len(A.refAtoms) == 0 {
		return &Fit{Transform: chem.IdentityTransform()}, nil
	}
	tgIdx, refIdx := A.TargetAtomIndices(), A.ReferenceAtomIndices()
	T, err := A.target.SuperposeOnto(A.reference, tgIdx, refIdx)
	if err != nil {
		return nil, fmt.Errorf("Superpose: %w", err)
	}
	tc, err := A.target.Coords.SomeCoords(tgIdx)
	if err != nil {
		return nil, fmt.Errorf("Superpose: %w", err)
	}
	rc, err := A.reference.Coords.SomeCoords(refIdx)
	if err != nil {
		return nil, fmt.Errorf("Superpose: %w", err)
	}
	devs, err := chem.Deviations(tc, rc)
	if err != nil {
		return nil, fmt.Errorf("Superpose: %w", err)
	}
	rmsd, err := chem.RMSD(tc, rc)
	if err != nil {
		return nil, fmt.Errorf("Superpose: %w", err)
	}
	F := &Fit{Transform: T, RMSD: rmsd, Deviations: devs, Labels: make([]string, len(A.tgAtoms))}
	for i, a := range A.tgAtoms {
		F.Labels[i] = a.Label()
	}
	A.log.Debug("target superposed", zap.Int("atoms", len(tgIdx)), zap.Float64("rmsd", rmsd))
	if A.maxRMSD > 0 && rmsd > A.maxRMSD {
		A.log.Warn("poor fit of target on reference", zap.String("target", A.target.Name), zap.Float64("rmsd", rmsd), zap.Float64("max", A.maxRMSD))
	}
	return F, nil
}

//Preview returns the target, as it would be spliced, in PDB format, to be shown
//over the reference. It is empty if no atoms are paired.
func (A *Alignment) Preview() (string, error) {
	if err := A.transition(Previewed, Mapped, Previewed); err != nil {
		return "", err
	}
	A.state = Previewed
	if len(A.refAtoms) == 0 {
		return "", nil
	}
	return A.target.PDB()
}

//FinishTransition splices the target into the reference: the target atoms, residues,
//charge groups and records are added to the reference, the under atoms are replaced by
//the over atoms in records and fragments, the atoms marked are deleted, with every
//record that involves them, the total charge is updated and the valid target fragments
//are added to the reference. Either all of that happens, or, on error, nothing.
//The target of the alignment is consumed.
func (A *Alignment) FinishTransition() error {
	_, err := A.finish()
	return err
}

//finish does the splice, and returns the map from the atoms of the reference before
//the splice to those after.
func (A *Alignment) finish() (map[*top.Atom]*top.Atom, error) {
	if err := A.transition(Spliced, Mapped, Previewed); err != nil {
		return nil, err
	}
	ref, refMap := A.reference.Clone()
	tg, tgMap := A.target.Clone()
	mapAtoms := func(atoms []*top.Atom) []*top.Atom {
		ret := make([]*top.Atom, 0, len(atoms))
		for _, a := range atoms {
			if n, ok := refMap[a]; ok {
				ret = append(ret, n)
			} else if n, ok := tgMap[a]; ok {
				ret = append(ret, n)
			}
		}
		return ret
	}
	over, under, del := mapAtoms(A.overAtoms), mapAtoms(A.underAtoms), mapAtoms(A.toDeleteAtoms)
	dropped := ref.Top.AddOther(tg.Top)
	replaced, err := ref.ReplaceAtoms(under, over, del)
	if err != nil {
		return nil, fmt.Errorf("FinishTransition: %w", err)
	}
	removed := ref.Top.DeleteAtoms(del)
	ref.PushToCoordinates()
	ref.UpdateTotalCharge()
	added := ref.AddFragmentsFromOther(tg)
	if err := ref.Top.Validate(); err != nil {
		return nil, fmt.Errorf("FinishTransition: spliced topology is broken: %w", err)
	}
	A.reference.Swap(ref)
	A.target = tg
	A.state = Spliced
	A.log.Debug("splice details", zap.Int("records_dropped", dropped), zap.Int("atoms_replaced", replaced), zap.Int("atoms_deleted", len(del)), zap.Int("records_removed", removed), zap.Int("fragments_added", added))
	A.log.Info("alignment spliced", zap.String("reference", A.reference.Name), zap.Int("atoms", A.reference.Len()), zap.Float64("charge", A.reference.TotalCharge))
	return refMap, nil
}

//remap replaces the reference atoms of the alignment by their images in amap.
func (A *Alignment) remap(amap map[*top.Atom]*top.Atom) {
	for _, list := range [][]*top.Atom{A.refAtoms, A.overAtoms, A.underAtoms, A.toDeleteAtoms} {
		for i, a := range list {
			if n, ok := amap[a]; ok {
				list[i] = n
			}
		}
	}
}

//Discard cancels the alignment. The reference is left as it is.
func (A *Alignment) Discard() error {
	if err := A.transition(Discarded, Created, Mapped, Previewed); err != nil {
		return err
	}
	A.state = Discarded
	A.log.Info("alignment discarded", zap.String("reference", A.reference.Name), zap.String("target", A.target.Name))
	return nil
}
