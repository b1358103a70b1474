/*
 * molecule.go, part of polytop.
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
	"bufio"
	"bytes"
	"fmt"
	"io"

	chem "github.com/rmera/polytop"
	"github.com/rmera/polytop/top"
	v3 "github.com/rmera/polytop/v3"
)

//DefaultName is the name of a molecule created without one.
const DefaultName = "UNK"

//Molecule is one molecule in polytop: a set of coordinates and a topology,
//with the same atoms in the same order, and the fragments defined on it.
type Molecule struct {
	Name        string
	Top         *top.Topology
	Coords      *chem.Molecule
	TotalCharge float64

	fragments []*Fragment
	counter   map[string]int
}

//New returns an empty molecule with the given name, or DefaultName.
func New(name string) *Molecule {
	if name == "" {
		name = DefaultName
	}
	return &Molecule{Name: name, Top: top.New(name), Coords: &chem.Molecule{}, counter: make(map[string]int)}
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return M.Top.Len()
}

//LoadCoordinates reads PDB data from r and replaces both the coordinates and the topology
//of M. The new topology has one charge group per atom, atom types equal to the element
//symbols and masses from the element. If the PDB has no CONECT records, bonds are assigned
//from the interatomic distances. A non-empty name renames the molecule.
func (M *Molecule) LoadCoordinates(r io.Reader, name string) error {
	mol, err := chem.PDBRead(r)
	if err != nil {
		return fmt.Errorf("LoadCoordinates: %w", err)
	}
	if len(mol.Bonds) == 0 && mol.Len() > 1 {
		//unknown elements leave the molecule without bonds.
		_ = chem.AssignBonds(mol)
	}
	if name != "" {
		M.Name = name
	}
	M.Coords = mol
	M.Top = topologyFromCoordinates(M.Name, mol)
	M.UpdateTotalCharge()
	return nil
}

func topologyFromCoordinates(name string, mol *chem.Molecule) *top.Topology {
	T := top.New(name)
	rows := make([]top.AtomRow, mol.Len())
	for i, at := range mol.Atoms {
		rows[i] = top.AtomRow{
			Serial:         i + 1,
			AtomType:       atomType(at),
			ResSeq:         at.MolID,
			ResName:        at.MolName,
			Name:           at.Name,
			ChargeGroupSeq: i + 1,
			Mass:           chem.SymbolMass(at.Symbol),
			Element:        at.Symbol,
			Position:       mol.Coord(i),
		}
	}
	T.AddAtoms(rows)
	return T
}

//the element symbol, or the atom name when the element is not known.
func atomType(at *chem.Atom) string {
	if at.Symbol != "" {
		return at.Symbol
	}
	return at.Name
}

//LoadTopology reads itp data from r. If the data has atoms, they replace the topology of M,
//which must then have as many atoms as the coordinates, unless M has no coordinates. The
//coordinates are rebuilt from the new topology, keeping positions and elements.
func (M *Molecule) LoadTopology(r io.Reader, defines ...string) error {
	T, err := top.Read(bufio.NewReader(r), defines...)
	if err != nil {
		return fmt.Errorf("LoadTopology: %w", err)
	}
	if T.Len() == 0 {
		return nil
	}
	n := M.Coords.Len()
	if n != 0 && n != T.Len() {
		return fmt.Errorf("LoadTopology: %d atoms in topology, %d in coordinates: %w", T.Len(), n, chem.ErrMismatchedCoordinates)
	}
	T.Complete = true
	T.Name = M.Name
	old := M.Top
	M.Top = T
	if n != 0 {
		if err := M.RefreshFromCoordinates(); err != nil {
			M.Top = old
			return fmt.Errorf("LoadTopology: %w", err)
		}
	}
	M.PushToCoordinates()
	M.UpdateTotalCharge()
	return nil
}

//RefreshFromCoordinates copies positions and elements from the coordinates to the
//topology atoms at the same position.
func (M *Molecule) RefreshFromCoordinates() error {
	if M.Coords.Len() != M.Top.Len() {
		return fmt.Errorf("RefreshFromCoordinates: %d atoms in topology, %d in coordinates: %w", M.Top.Len(), M.Coords.Len(), chem.ErrMismatchedCoordinates)
	}
	for i, a := range M.Top.Atoms() {
		a.Position = M.Coords.Coord(i)
		if s := M.Coords.Atom(i).Symbol; s != "" {
			a.Element = s
		}
	}
	return nil
}

//PushToCoordinates rebuilds the coordinates from the topology: one atom per topology atom,
//in the same order, numbered by serial and residue sequence, at the cached positions.
//Bonds are taken from the bonds section of the topology, or assigned from distances if
//the topology has none.
func (M *Molecule) PushToCoordinates() {
	var chain byte = 'A'
	if M.Coords != nil && M.Coords.Len() > 0 && M.Coords.Atom(0).Chain != 0 {
		chain = M.Coords.Atom(0).Chain
	}
	n := M.Top.Len()
	if n == 0 {
		M.Coords = &chem.Molecule{}
		return
	}
	atoms := make([]*chem.Atom, n)
	coords := v3.Zeros(n)
	for i, a := range M.Top.Atoms() {
		atoms[i] = &chem.Atom{
			Name:      a.Name,
			ID:        a.Serial(),
			MolID:     a.ResSeq(),
			MolName:   a.ResName(),
			Chain:     chain,
			Symbol:    a.Element,
			Occupancy: 1,
		}
		coords.SetVec(i, a.Position)
	}
	//atoms and coords were built with the same length.
	mol, _ := chem.NewMolecule(atoms, coords)
	if len(M.Top.Records(top.Bonds)) > 0 {
		for _, b := range M.Top.Bonds() {
			mol.AddBond(b[0], b[1])
		}
		mol.SortBonds()
	} else if n > 1 {
		//only fails for molecules without coordinates.
		_ = chem.AssignBonds(mol)
	}
	M.Coords = mol
}

//UpdateTotalCharge recomputes the total charge of the molecule from its atoms, and returns it.
func (M *Molecule) UpdateTotalCharge() float64 {
	M.TotalCharge = M.Top.TotalCharge()
	return M.TotalCharge
}

//PDB returns the coordinates of M in PDB format.
func (M *Molecule) PDB() (string, error) {
	var b bytes.Buffer
	if err := chem.PDBWrite(&b, M.Coords); err != nil {
		return "", fmt.Errorf("PDB: %w", err)
	}
	return b.String(), nil
}

//ITP returns the topology of M in itp format.
//The molecule type is called like M.
func (M *Molecule) ITP() string {
	return M.Top.ITPAs(M.Name)
}

//SetName renames M and its topology.
func (M *Molecule) SetName(name string) {
	M.Name = name
	M.Top.Name = name
}

//Copy returns a copy of M, built by writing M to an Object and reading it back.
func (M *Molecule) Copy() (*Molecule, error) {
	o, err := M.Object()
	if err != nil {
		return nil, fmt.Errorf("Copy: %w", err)
	}
	return FromObject(o)
}

//ToMonomer returns a copy of M with all its atoms in one residue, called name, or the name
//of M followed by "_monomer" if name is empty. The atoms of the copy get unique names.
func (M *Molecule) ToMonomer(name string) (*Molecule, error) {
	if name == "" {
		name = M.Name + "_monomer"
	}
	c, err := M.Copy()
	if err != nil {
		return nil, fmt.Errorf("ToMonomer: %w", err)
	}
	c.SetName(name)
	c.Top.ToMonomer(name)
	c.PushToCoordinates()
	return c, nil
}

//AtomsByIndex returns the topology atoms with the given indexes, in that order.
//Indexes with no atom are skipped.
func (M *Molecule) AtomsByIndex(indices []int) []*top.Atom {
	ret := make([]*top.Atom, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < M.Top.Len() {
			ret = append(ret, M.Top.Atom(i))
		}
	}
	return ret
}

//DeleteAtoms deletes the atoms with the given indexes, and every bonded record
//that involves them, then rebuilds the coordinates. Fragments left with deleted atoms
//become invalid. It returns the number of records removed.
func (M *Molecule) DeleteAtoms(indices []int) int {
	n := M.Top.DeleteAtoms(M.AtomsByIndex(indices))
	M.PushToCoordinates()
	M.UpdateTotalCharge()
	return n
}

//MoveAtomsToResidue moves the atoms with the given indexes to the residue with index
//residue. Nothing is done if there is no such residue.
func (M *Molecule) MoveAtomsToResidue(indices []int, residue int) error {
	if residue < 0 || residue >= len(M.Top.Residues()) {
		return nil
	}
	if err := M.Top.MoveAtomsToResidue(M.AtomsByIndex(indices), residue); err != nil {
		return err
	}
	M.PushToCoordinates()
	return nil
}

//SuperposeOnto moves M rigidly so its atoms with indexes selfIdx are superimposed, with
//least squares, on the atoms of other with indexes otherIdx. The transformation applied
//is returned. Both lists empty is a no-op.
func (M *Molecule) SuperposeOnto(other *Molecule, selfIdx, otherIdx []int) (*chem.Transform, error) {
	if len(selfIdx) == 0 && len(otherIdx) == 0 {
		return chem.IdentityTransform(), nil
	}
	if M.Coords.Coords == nil || other.Coords.Coords == nil {
		return nil, fmt.Errorf("SuperposeOnto: molecule without coordinates")
	}
	T, err := chem.Super(M.Coords.Coords, other.Coords.Coords, selfIdx, otherIdx)
	if err != nil {
		return nil, fmt.Errorf("SuperposeOnto: %w", err)
	}
	if err := M.RefreshFromCoordinates(); err != nil {
		return nil, fmt.Errorf("SuperposeOnto: %w", err)
	}
	return T, nil
}

//String returns a one line summary of the molecule.
func (M *Molecule) String() string {
	return fmt.Sprintf("%s: %d atoms, %d residues, %d records, charge %.4f", M.Name, M.Len(), len(M.Top.Residues()), M.Top.NRecords(), M.TotalCharge)
}

//Clone returns a deep copy of M, fragments included, without going through
//text, and the map from the atoms of M to those of the copy.
func (M *Molecule) Clone() (*Molecule, map[*top.Atom]*top.Atom) {
	T, amap := M.Top.Clone()
	c := &Molecule{Name: M.Name, Top: T, Coords: M.Coords.Copy(), TotalCharge: M.TotalCharge, counter: make(map[string]int, len(M.counter))}
	for k, v := range M.counter {
		c.counter[k] = v
	}
	for _, f := range M.fragments {
		nf := &Fragment{name: f.name, Color: f.Color, ctr: f.ctr, mol: c, atoms: make([]*top.Atom, len(f.atoms))}
		for i, a := range f.atoms {
			if na, ok := amap[a]; ok {
				nf.atoms[i] = na
			} else {
				nf.atoms[i] = a
			}
		}
		c.fragments = append(c.fragments, nf)
	}
	return c, amap
}

//Swap makes M take the contents of other, which must not be used afterwards.
func (M *Molecule) Swap(other *Molecule) {
	if other == M {
		return
	}
	*M = *other
	for _, f := range M.fragments {
		f.mol = M
	}
	other.fragments = nil
}
