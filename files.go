/*
 * files.go, part of polytop.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/polytop/v3"
)

//PDBError is returned when a line of a PDB file can't be parsed.
type PDBError struct {
	Line int
	Text string
	Err  error
}

func (E *PDBError) Error() string {
	return fmt.Sprintf("PDB line %d (%q): %v", E.Line, E.Text, E.Err)
}

func (E *PDBError) Unwrap() error { return E.Err }

//This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
//It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	symbol := ""
	if name == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from empty PDB name")
	}
	if len(name) == 4 || name[0] == 'H' { //I thiiink only Hs can have 4-char names in amber.
		symbol = "H"
	} else if name[0] == 'C' { //Ca is not considered here
		switch name {
		case "CU":
			symbol = "Cu"
		case "CO":
			symbol = "Co"
		case "CL":
			symbol = "Cl"
		default:
			symbol = "C"
		}
	} else if name[0] == 'N' {
		if name == "NA" {
			symbol = "Na"
		} else {
			symbol = "N"
		}
	} else if name[0] == 'O' {
		symbol = "O"
	} else if name[0] == 'P' {
		symbol = "P"
	} else if name[0] == 'S' {
		if name == "SE" {
			symbol = "Se"
		} else {
			symbol = "S"
		}
	} else if strings.HasPrefix(name, "ZN") {
		symbol = "Zn"
	} else if name[0] == 'F' {
		symbol = "F"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}

//returns the trimmed field from..to of line, or "" if the line is shorter.
func column(line string, from, to int) string {
	if len(line) <= from {
		return ""
	}
	if len(line) < to {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

//Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
//object with the info except for the coordinates, which are returned
//separately.
func readPDBAtomLine(line string) (*Atom, [3]float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return nil, coords, fmt.Errorf("line too short for an atom record")
	}
	var err error
	atom := new(Atom)
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err = strconv.Atoi(column(line, 6, 11))
	if err != nil {
		return nil, coords, fmt.Errorf("serial: %w", err)
	}
	atom.Name = column(line, 12, 16)
	//column 21 is blank in the standard, but 4-letter residue names use it.
	atom.MolName = column(line, 17, 21)
	if line[21] != ' ' {
		atom.Chain = line[21]
	}
	atom.MolID, err = strconv.Atoi(column(line, 22, 26))
	if err != nil {
		return nil, coords, fmt.Errorf("residue number: %w", err)
	}
	for i, from := range []int{30, 38, 46} {
		coords[i], err = strconv.ParseFloat(column(line, from, from+8), 64)
		if err != nil {
			return nil, coords, fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	//occupancy and b-factor are optional
	atom.Occupancy = 1
	if s := column(line, 54, 60); s != "" {
		if atom.Occupancy, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, coords, fmt.Errorf("occupancy: %w", err)
		}
	}
	if s := column(line, 60, 66); s != "" {
		if atom.Bfactor, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, coords, fmt.Errorf("b-factor: %w", err)
		}
	}
	atom.Symbol = normalizeSymbol(column(line, 76, 78))
	//No error checking here, if all fails the symbol is just empty.
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name)
	}
	return atom, coords, nil
}

//PDB files often have element symbols in uppercase.
func normalizeSymbol(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

//returns the atom serials in a CONECT line.
func readConectLine(line string) ([]int, error) {
	ret := make([]int, 0, 5)
	for from := 6; from < len(line); from += 5 {
		s := column(line, from, from+5)
		if s == "" {
			continue
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("CONECT serial: %w", err)
		}
		ret = append(ret, i)
	}
	return ret, nil
}

//PDBFileRead reads the PDB file pdbname. See PDBRead.
func PDBFileRead(pdbname string) (*Molecule, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, err
	}
	defer pdbfile.Close()
	return PDBRead(pdbfile)
}

//PDBRead reads the ATOM and HETATM entries of the first model in a PDB stream,
//and the bonds in its CONECT records. Bonds to serials that are not in the
//first model are ignored. A stream without atoms gives an empty molecule.
func PDBRead(r io.Reader) (*Molecule, error) {
	pdb := bufio.NewReader(r)
	atoms := make([]*Atom, 0, 50)
	coords := make([]float64, 0, 150)
	conects := make([][]int, 0)
	firstModel := true
	contlines := 0
	for {
		line, err := pdb.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" && err == io.EOF {
			break
		}
		contlines++
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			if !firstModel {
				break
			}
			at, c, err2 := readPDBAtomLine(line)
			if err2 != nil {
				return nil, &PDBError{Line: contlines, Text: line, Err: err2}
			}
			atoms = append(atoms, at)
			coords = append(coords, c[:]...)
		case strings.HasPrefix(line, "ENDMDL"):
			firstModel = false
		case strings.HasPrefix(line, "CONECT"):
			c, err2 := readConectLine(line)
			if err2 != nil {
				return nil, &PDBError{Line: contlines, Text: line, Err: err2}
			}
			conects = append(conects, c)
		}
		if err == io.EOF {
			break
		}
	}
	if len(atoms) == 0 {
		return &Molecule{}, nil
	}
	mcoords, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, err
	}
	mol, err := NewMolecule(atoms, mcoords)
	if err != nil {
		return nil, err
	}
	serials := make(map[int]int, len(atoms))
	for i, at := range atoms {
		serials[at.ID] = i
	}
	for _, c := range conects {
		if len(c) < 2 {
			continue
		}
		from, ok := serials[c[0]]
		if !ok {
			continue
		}
		for _, s := range c[1:] {
			if to, ok := serials[s]; ok {
				mol.AddBond(from, to)
			}
		}
	}
	mol.SortBonds()
	return mol, nil
}

//PDBFileWrite writes mol to the file pdbname. See PDBWrite.
func PDBFileWrite(pdbname string, mol *Molecule) error {
	out, err := os.Create(pdbname)
	if err != nil {
		return err
	}
	defer out.Close()
	return PDBWrite(out, mol)
}

//PDBWrite writes mol in PDB format to out. Atoms are numbered with their IDs,
//the bonds are written as CONECT records.
func PDBWrite(out io.Writer, mol *Molecule) error {
	w := bufio.NewWriter(out)
	for i, at := range mol.Atoms {
		rec := "ATOM"
		if at.Het {
			rec = "HETATM"
		}
		name := at.Name
		if len(name) < 4 {
			name = " " + name
		}
		chain := at.Chain
		if chain == 0 {
			chain = ' '
		}
		c := mol.Coord(i)
		_, err := fmt.Fprintf(w, "%-6s%5d %-4s %-4s%c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			rec, at.ID, name, at.MolName, chain, at.MolID, c[0], c[1], c[2], at.Occupancy, at.Bfactor, strings.ToUpper(at.Symbol))
		if err != nil {
			return err
		}
	}
	for i, partners := range bondPartners(mol) {
		//at most 4 partners per record
		for len(partners) > 0 {
			n := min(4, len(partners))
			line := fmt.Sprintf("CONECT%5d", mol.Atoms[i].ID)
			for _, p := range partners[:n] {
				line += fmt.Sprintf("%5d", mol.Atoms[p].ID)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			partners = partners[n:]
		}
	}
	if _, err := fmt.Fprintln(w, "END"); err != nil {
		return err
	}
	return w.Flush()
}

//returns, for each atom, the atoms bonded to it with a larger index.
func bondPartners(mol *Molecule) [][]int {
	ret := make([][]int, mol.Len())
	for _, b := range mol.Bonds {
		if b[0] < 0 || b[1] < 0 || b[0] >= mol.Len() || b[1] >= mol.Len() {
			continue
		}
		ret[b[0]] = append(ret[b[0]], b[1])
	}
	return ret
}
