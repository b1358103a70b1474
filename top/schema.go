/*
 * schema.go, part of polytop.
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
	"errors"
	"fmt"
	"sort"
)

var (
	//ErrUnknownSection is returned when a section is not in the schema.
	ErrUnknownSection = errors.New("top: unknown section")
	//ErrUnknownFunctionType is returned when a function type is not registered for a section.
	ErrUnknownFunctionType = errors.New("top: unknown function type")
)

//FieldKind is the scalar kind of a field in a topology line.
type FieldKind int

const (
	Float FieldKind = iota
	Integer
	String
)

func (K FieldKind) String() string {
	switch K {
	case Integer:
		return "integer"
	case String:
		return "string"
	default:
		return "float"
	}
}

//the kind of every field that is not a float.
var fieldKinds = map[string]FieldKind{
	"serial":         Integer,
	"resSeq":         Integer,
	"chargeGroupSeq": Integer,
	"table_number":   Integer,
	"mult":           Integer,
	"nrexcl":         Integer,
	"funct":          Integer,
	"atomType":       String,
	"resName":        String,
	"name":           String,
}

//KindOf returns the scalar kind of the field name. Unregistered names are floats.
func KindOf(name string) FieldKind {
	if k, ok := fieldKinds[name]; ok {
		return k
	}
	return Float
}

//AtomFields is the order of the fields in a line of the atoms section.
var AtomFields = []string{"serial", "atomType", "resSeq", "resName", "name", "chargeGroupSeq", "charge", "mass"}

//Bonded sections
const (
	Bonds      = "bonds"
	Pairs      = "pairs"
	Angles     = "angles"
	Dihedrals  = "dihedrals"
	Exclusions = "exclusions"
)

type sectionSchema struct {
	atoms  int
	functs map[int][]string
}

var schema = map[string]sectionSchema{
	Bonds: {2, map[int][]string{
		1:  {"keq", "fc"},
		2:  {"keq", "fc"},
		3:  {"keq", "D", "beta"},
		4:  {"keq", "C23"},
		5:  {},
		6:  {"keq", "fc"},
		7:  {"keq", "fc"},
		8:  {"table_number", "k"},
		9:  {"table_number", "k"},
		10: {"low", "up1", "up2", "kdr"},
	}},
	Pairs:      {2, map[int][]string{1: {}}},
	Exclusions: {2, map[int][]string{1: {}}},
	Angles: {3, map[int][]string{
		1: {"angle", "fc"},
		2: {"angle", "fc"},
	}},
	Dihedrals: {4, map[int][]string{
		1: {"phase", "fc", "mult"},
		2: {"keq", "fc"},
		3: {"C0", "C1", "C2", "C3", "C4", "C5"},
		4: {"phase", "fc", "mult"},
		9: {"phase", "fc", "mult"},
	}},
}

//Sections returns the names of the bonded sections in the schema, sorted.
func Sections() []string {
	ret := make([]string, 0, len(schema))
	for k := range schema {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//IsSection returns true if section is a bonded section in the schema.
func IsSection(section string) bool {
	_, ok := schema[section]
	return ok
}

//Arity returns the number of atoms referenced by each record of section.
func Arity(section string) (int, error) {
	s, ok := schema[section]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return s.atoms, nil
}

//Fields returns the ordered names of the fields that follow the function type
//in a record of section with the function type funct. The slice must not be modified.
func Fields(section string, funct int) ([]string, error) {
	s, ok := schema[section]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	f, ok := s.functs[funct]
	if !ok {
		return nil, fmt.Errorf("%w: %d in section %s", ErrUnknownFunctionType, funct, section)
	}
	return f, nil
}

//FunctionTypes returns the function types registered for section, sorted.
func FunctionTypes(section string) []int {
	s := schema[section]
	ret := make([]int, 0, len(s.functs))
	for k := range s.functs {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}
