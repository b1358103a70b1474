/*
 * groio.go, part of polytop.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	//ErrUnsupportedDirective is returned when an itp file tries to include another file.
	ErrUnsupportedDirective = errors.New("top: unsupported directive")
	//ErrMalformedValue is returned when a field is missing or can't be parsed.
	ErrMalformedValue = errors.New("top: malformed value")
)

//ParseError is returned by the reader for any fatal problem in a line.
type ParseError struct {
	Line    int //1-based
	Section string
	Text    string
	Err     error
}

func (E *ParseError) Error() string {
	return sf("top: line %d, section [ %s ]: %v: %q", E.Line, E.Section, E.Err, E.Text)
}

func (E *ParseError) Unwrap() error { return E.Err }

const (
	moleculetype = "moleculetype"
	atomsSection = "atoms"
	//molecule name used when atoms appear before any moleculetype
	defaultMolName = "UNK"
)

//A record as read, with atoms given by their serial in the file.
type rawRecord struct {
	section string
	serials []int
	funct   int
	params  []float64
}

type rawMolecule struct {
	name    string
	atoms   []AtomRow
	records []rawRecord
}

type itpReader struct {
	defines []string
	cond    *cond
	header  *topHeader
	section string
	mols    []*rawMolecule
}

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedValue, sf(format, a...))
}

func (R *itpReader) current() *rawMolecule {
	if len(R.mols) == 0 {
		R.mols = append(R.mols, &rawMolecule{name: defaultMolName})
	}
	return R.mols[len(R.mols)-1]
}

//processes one line, already without comments.
func (R *itpReader) line(s string) error {
	if strings.HasPrefix(s, "#") {
		//no file is ever included, not even from a block that is not read.
		if strings.HasPrefix(s, "#include") {
			return fmt.Errorf("%w: %s", ErrUnsupportedDirective, s)
		}
		//#define and friends only matter for the force field parameters.
		R.cond.read(s, R.defines)
		return nil
	}
	if !R.cond.read(s, R.defines) {
		return nil
	}
	if R.header.Is(s) {
		R.section = R.header.Which(s)
		if R.section == moleculetype {
			R.mols = append(R.mols, &rawMolecule{name: defaultMolName})
		}
		return nil
	}
	f := fi(s)
	switch {
	case R.section == moleculetype:
		m := R.current()
		m.name = f[0]
		//nrexcl is always written as 3, but it must be a number.
		if len(f) > 1 {
			if _, err := strconv.Atoi(f[1]); err != nil {
				return malformed("nrexcl %s", f[1])
			}
		}
	case R.section == atomsSection:
		row, err := atomFromGro(f)
		if err != nil {
			return err
		}
		m := R.current()
		m.atoms = append(m.atoms, row)
	case IsSection(R.section):
		rec, err := recordFromGro(R.section, f)
		if err != nil {
			return err
		}
		m := R.current()
		m.records = append(m.records, rec)
	}
	//anything else is ignored
	return nil
}

//parses the fields of a line in the atoms section. charge and mass are optional.
func atomFromGro(f []string) (AtomRow, error) {
	var row AtomRow
	var err error
	if len(f) < 6 {
		return row, malformed("atoms line needs at least 6 fields, got %d", len(f))
	}
	ints, err := parseints(f[0], f[2], f[5])
	if err != nil {
		return row, malformed("atoms: %v", err)
	}
	row.Serial, row.ResSeq, row.ChargeGroupSeq = ints[0], ints[1], ints[2]
	row.AtomType = f[1]
	row.ResName = f[3]
	row.Name = f[4]
	if len(f) > 6 {
		if row.Charge, err = strconv.ParseFloat(f[6], 64); err != nil {
			return row, malformed("charge %s", f[6])
		}
	}
	if len(f) > 7 {
		if row.Mass, err = strconv.ParseFloat(f[7], 64); err != nil {
			return row, malformed("mass %s", f[7])
		}
	}
	return row, nil
}

//parses the fields of a line in a bonded section. The parameters can be
//all absent, but not only some of them. Tokens after the parameters are ignored.
func recordFromGro(section string, f []string) (rawRecord, error) {
	rec := rawRecord{section: section}
	arity, err := Arity(section)
	if err != nil {
		return rec, err
	}
	if len(f) < arity+1 {
		return rec, malformed("%s line needs %d atoms and a function type", section, arity)
	}
	rec.serials, err = parseints(f[:arity]...)
	if err != nil {
		return rec, malformed("atom serial: %v", err)
	}
	rec.funct, err = strconv.Atoi(f[arity])
	if err != nil {
		return rec, malformed("function type %s", f[arity])
	}
	keys, err := Fields(section, rec.funct)
	if err != nil {
		return rec, err
	}
	vals := f[arity+1:]
	if len(vals) == 0 {
		return rec, nil
	}
	if len(vals) < len(keys) {
		return rec, malformed("%s function type %d needs %d parameters, got %d", section, rec.funct, len(keys), len(vals))
	}
	rec.params = make([]float64, len(keys))
	for i, k := range keys {
		var v float64
		if KindOf(k) == Integer {
			var n int
			n, err = strconv.Atoi(vals[i])
			v = float64(n)
		} else {
			v, err = strconv.ParseFloat(vals[i], 64)
		}
		if err != nil {
			return rec, malformed("%s %s", k, vals[i])
		}
		rec.params[i] = v
	}
	return rec, nil
}

//builds the topology, resolving the atom serials of the records.
func (M *rawMolecule) topology() *Topology {
	T := New(M.name)
	T.Complete = true
	atoms := T.AddAtoms(M.atoms)
	bySerial := make(map[int]*Atom, len(atoms))
	for i, row := range M.atoms {
		bySerial[row.Serial] = atoms[i] //the last atom with a repeated serial wins
	}
	for _, raw := range M.records {
		r := &Record{Section: raw.section, Funct: raw.funct, Params: raw.params}
		for _, s := range raw.serials {
			a, ok := bySerial[s]
			if !ok {
				T.dropped++
				continue
			}
			r.atoms = append(r.atoms, a)
		}
		T.appendRecord(r)
	}
	return T
}

//ReadAll reads every molecule type in the itp data from r. Conditional blocks
//(#ifdef/#ifndef/#else/#endif) are read according to defines. Any error aborts
//the whole read, and is a *ParseError.
func ReadAll(r StringReader, defines ...string) ([]*Topology, error) {
	R := &itpReader{defines: defines, cond: newCond(), header: newTopHeader()}
	var line int
	for {
		s, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if s != "" {
			line++
			c := strings.TrimSpace(s)
			if c != "" && c[0] != '*' && c[0] != ';' {
				if c = cleanString(c); c != "" {
					if err2 := R.line(c); err2 != nil {
						return nil, &ParseError{Line: line, Section: R.section, Text: strings.TrimRight(s, "\r\n"), Err: err2}
					}
				}
			}
		}
		if err != nil {
			break
		}
	}
	ret := make([]*Topology, 0, len(R.mols))
	for _, m := range R.mols {
		ret = append(ret, m.topology())
	}
	return ret, nil
}

//Read reads itp data from r and returns the last molecule type in it. If there
//is no molecule type, an empty topology is returned. See ReadAll.
func Read(r StringReader, defines ...string) (*Topology, error) {
	all, err := ReadAll(r, defines...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		T := New(defaultMolName)
		T.Complete = true
		return T, nil
	}
	return all[len(all)-1], nil
}

//ReadString reads itp data from a string. See Read.
func ReadString(s string, defines ...string) (*Topology, error) {
	return Read(bufio.NewReader(strings.NewReader(s)), defines...)
}

//ReadFile reads the itp file name. See Read.
func ReadFile(name string, defines ...string) (*Topology, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f), defines...)
}
