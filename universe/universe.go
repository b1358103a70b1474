/*
 * universe.go, part of polytop.
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

//Package universe keeps the molecules of a polytop session by name, and saves
//and restores them as snapshot documents, with an undo log of snapshots.
package universe

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rmera/polytop/chemjson"
	"github.com/rmera/polytop/poly"
	"go.uber.org/zap"
)

//Errors returned by the universe and its history.
var (
	ErrUnknownMolecule = errors.New("universe: unknown molecule")
	ErrNameTaken       = errors.New("universe: molecule name already in use")
	ErrNoState         = errors.New("universe: no state to restore")
)

//Universe is a set of molecules with unique names.
type Universe struct {
	molecules  map[string]*poly.Molecule
	molCounter int
	log        *zap.Logger
}

//New returns an empty universe. log can be nil.
func New(log *zap.Logger) *Universe {
	if log == nil {
		log = zap.NewNop()
	}
	return &Universe{molecules: make(map[string]*poly.Molecule), molCounter: 1, log: log}
}

//Len returns the number of molecules.
func (U *Universe) Len() int { return len(U.molecules) }

//NextPolymerName returns the name the next unnamed molecule gets: polymer001,
//polymer002 and so on.
func (U *Universe) NextPolymerName() string {
	return fmt.Sprintf("polymer%03d", U.molCounter)
}

//takes a name for a new molecule, the next polymer name if name is empty.
func (U *Universe) newName(name string) string {
	if name != "" {
		return name
	}
	name = U.NextPolymerName()
	U.molCounter++
	return name
}

//CreateMolecule adds an empty molecule called name, or the next polymer name,
//and returns it. A molecule with the same name is replaced.
func (U *Universe) CreateMolecule(name string) *poly.Molecule {
	if name == "" {
		name = U.NextPolymerName()
	}
	//the counter goes up even for named molecules.
	U.molCounter++
	M := poly.New(name)
	U.molecules[name] = M
	return M
}

//Add adds M to the universe, under its name. A molecule with the same name is replaced.
func (U *Universe) Add(M *poly.Molecule) {
	U.molecules[M.Name] = M
}

//Get returns the molecule called name.
func (U *Universe) Get(name string) (*poly.Molecule, error) {
	M, ok := U.molecules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMolecule, name)
	}
	return M, nil
}

//Names returns the names of the molecules, sorted.
func (U *Universe) Names() []string {
	ret := make([]string, 0, len(U.molecules))
	for k := range U.molecules {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Rename changes the name of a molecule. The new name must not be in use.
func (U *Universe) Rename(oldName, newName string) error {
	M, err := U.Get(oldName)
	if err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if _, ok := U.molecules[newName]; ok {
		return fmt.Errorf("Rename: %w: %q", ErrNameTaken, newName)
	}
	delete(U.molecules, oldName)
	M.SetName(newName)
	U.molecules[newName] = M
	return nil
}

//Duplicate adds a copy of the molecule called name, as name_copy, and returns it.
func (U *Universe) Duplicate(name string) (*poly.Molecule, error) {
	M, err := U.Get(name)
	if err != nil {
		return nil, err
	}
	cname := name + "_copy"
	if _, ok := U.molecules[cname]; ok {
		return nil, fmt.Errorf("Duplicate: %w: %q", ErrNameTaken, cname)
	}
	C, err := M.Copy()
	if err != nil {
		return nil, fmt.Errorf("Duplicate: %w", err)
	}
	C.SetName(cname)
	U.molecules[cname] = C
	return C, nil
}

//Remove removes the molecule called name.
func (U *Universe) Remove(name string) error {
	if _, err := U.Get(name); err != nil {
		return err
	}
	delete(U.molecules, name)
	return nil
}

//Clear removes all the molecules and resets the polymer counter.
func (U *Universe) Clear() {
	U.molecules = make(map[string]*poly.Molecule)
	U.molCounter = 1
}

//LoadCoordinates reads a PDB from r into a new molecule called name, or the
//next polymer name, and returns it.
func (U *Universe) LoadCoordinates(r io.Reader, name string) (*poly.Molecule, error) {
	name = U.newName(name)
	M := poly.New(name)
	if err := M.LoadCoordinates(r, name); err != nil {
		return nil, err
	}
	U.molecules[name] = M
	U.log.Debug("coordinates loaded", zap.String("molecule", name), zap.Int("atoms", M.Len()))
	return M, nil
}

//LoadTopology reads an itp from r into the molecule called molName.
func (U *Universe) LoadTopology(r io.Reader, molName string, defines ...string) error {
	M, err := U.Get(molName)
	if err != nil {
		return err
	}
	if err := M.LoadTopology(r, defines...); err != nil {
		return err
	}
	if d := M.Top.DroppedReferences(); d > 0 {
		U.log.Warn("itp records reference atoms not in the atoms section", zap.String("molecule", molName), zap.Int("dropped", d))
	}
	U.log.Debug("topology loaded", zap.String("molecule", molName), zap.Int("records", M.Top.NRecords()))
	return nil
}

//Snapshot returns the document with every molecule of U. Invalid fragments are left out.
func (U *Universe) Snapshot() (*chemjson.Document, error) {
	D := &chemjson.Document{Molecules: make(map[string]*poly.Object, len(U.molecules)), MolCounter: U.molCounter}
	for _, name := range U.Names() {
		o, err := U.molecules[name].Object()
		if err != nil {
			return nil, fmt.Errorf("Snapshot: %s: %w", name, err)
		}
		D.Molecules[name] = o
	}
	return D, nil
}

//Restore replaces the contents of U by those of the document D. On error, U is
//not modified.
func (U *Universe) Restore(D *chemjson.Document) error {
	mols := make(map[string]*poly.Molecule, len(D.Molecules))
	for _, name := range D.Names() {
		M, err := poly.FromObject(D.Molecules[name])
		if err != nil {
			return fmt.Errorf("Restore: %w", err)
		}
		M.SetName(name)
		mols[name] = M
	}
	U.molecules = mols
	U.molCounter = max(D.MolCounter, 1)
	return nil
}

//Save writes a snapshot of U to w, with compression c.
func (U *Universe) Save(w io.Writer, c chemjson.Compression) error {
	D, err := U.Snapshot()
	if err != nil {
		return err
	}
	if err := chemjson.Encode(w, D, c); err != nil {
		return err
	}
	U.log.Info("universe saved", zap.Int("molecules", len(D.Molecules)), zap.String("compression", string(c)))
	return nil
}

//Load replaces the contents of U by the snapshot read from r, which
//can be compressed. See Restore.
func (U *Universe) Load(r io.Reader) error {
	D, err := chemjson.Decode(r)
	if err != nil {
		return err
	}
	if err := U.Restore(D); err != nil {
		return err
	}
	U.log.Info("universe loaded", zap.Int("molecules", U.Len()))
	return nil
}

//Info returns a summary of U.
func (U *Universe) Info() *chemjson.Info {
	names := U.Names()
	I := &chemjson.Info{Molecules: len(names), Names: names}
	for _, n := range names {
		M := U.molecules[n]
		I.AtomsPerMolecule = append(I.AtomsPerMolecule, M.Len())
		I.Fragments = append(I.Fragments, M.Labels())
		I.Charges = append(I.Charges, M.TotalCharge)
	}
	return I
}
