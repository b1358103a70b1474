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

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/polytop/align"
	"github.com/rmera/polytop/poly"
	"github.com/rmera/polytop/universe"
)

//parseSerials turns a list like "1,2,5-7" of 1-based atom serials into 0-based indices.
func parseSerials(s string) ([]int, error) {
	var ret []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		from, to, isRange := strings.Cut(f, "-")
		a, err := strconv.Atoi(from)
		if err != nil || a < 1 {
			return nil, fmt.Errorf("invalid atom serial %q", f)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(to); err != nil || b < a {
				return nil, fmt.Errorf("invalid atom range %q", f)
			}
		}
		for i := a; i <= b; i++ {
			ret = append(ret, i-1)
		}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("empty atom list %q", s)
	}
	return ret, nil
}

//parseFragment reads a NAME=serials fragment definition.
func parseFragment(s string) (string, []int, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("fragment %q: expected NAME=serials", s)
	}
	idx, err := parseSerials(list)
	if err != nil {
		return "", nil, fmt.Errorf("fragment %q: %w", name, err)
	}
	return name, idx, nil
}

//addFragments adds the fragments defined in defs to M, with the given color.
func addFragments(M *poly.Molecule, defs []string, color string) error {
	for _, d := range defs {
		name, idx, err := parseFragment(d)
		if err != nil {
			return err
		}
		if M.AddFragment(name, color, idx) == nil {
			return fmt.Errorf("fragment %q: atoms out of range for %s (%d atoms)", name, M.Name, M.Len())
		}
	}
	return nil
}

//parseUnit reads a TARGET:REFERENCE[:over|:under] correspondence. The default is over.
func parseUnit(s string) (align.Unit, error) {
	f := strings.Split(s, ":")
	if len(f) < 2 || len(f) > 3 || f[0] == "" || f[1] == "" {
		return align.Unit{}, fmt.Errorf("unit %q: expected TARGET:REFERENCE[:over|:under]", s)
	}
	u := align.Unit{Target: f[0], Reference: f[1], Over: true}
	if len(f) == 3 {
		switch strings.ToLower(f[2]) {
		case "over":
		case "under":
			u.Over = false
		default:
			return align.Unit{}, fmt.Errorf("unit %q: mode must be over or under", s)
		}
	}
	return u, nil
}

//loadMolecule reads into U a molecule called name from a PDB file and, if itp is
//not empty, an itp file.
func loadMolecule(U *universe.Universe, name, pdb, itp string, defines []string) (*poly.Molecule, error) {
	f, err := os.Open(pdb)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	M, err := U.LoadCoordinates(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pdb, err)
	}
	if itp == "" {
		return M, nil
	}
	t, err := os.Open(itp)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	if err := U.LoadTopology(t, name, defines...); err != nil {
		return nil, fmt.Errorf("%s: %w", itp, err)
	}
	return M, nil
}

//writeMolecule writes M to prefix.pdb and prefix.itp.
func writeMolecule(M *poly.Molecule, prefix string) error {
	pdb, err := M.PDB()
	if err != nil {
		return err
	}
	if err := os.WriteFile(prefix+".pdb", []byte(pdb), 0o644); err != nil {
		return err
	}
	return os.WriteFile(prefix+".itp", []byte(M.ITP()), 0o644)
}
