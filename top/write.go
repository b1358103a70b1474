/*
 * write.go, part of polytop.
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
	"io"
	"math"
	"regexp"
	"strings"
)

//column formats for the fields that have one. Other numbers are
//written with floatFormat, other strings with stringFormat.
var fieldFormats = map[string]string{
	"serial":         "%-6d",
	"nrexcl":         "%-6d",
	"resSeq":         "%-6d",
	"chargeGroupSeq": "%-6d",
	"table_number":   "%-6d",
	"mult":           "%-6d",
	"funct":          "%-4d",
	"charge":         "%-8.4f",
	"mass":           "%-8.4f",
	"phase":          "%-6.2f",
	"angle":          "%-6.2f",
}

const (
	headerFormat = "[ %s ]"
	floatFormat  = "%-.7e"
	stringFormat = "%-8s"
	emptyField   = "X" //written for empty strings
)

var atomLetters = []string{"i", "j", "k", "l"}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

//FormatField returns the value formatted in the column format of the field name.
//value can be an int, a float64 or a string. Integers are written as integers if
//the field is an integer field, floats are rounded for integer fields. Numbers
//that are not negative get a leading space, to align with the sign of negative ones.
func FormatField(name string, value interface{}) string {
	var ret string
	var num float64
	isnum := true
	switch v := value.(type) {
	case int:
		num = float64(v)
	case float64:
		num = v
	case string:
		isnum = false
		if v == "" {
			v = emptyField
		}
		ret = sf(stringFormat, v)
	default:
		isnum = false
		ret = sf(stringFormat, sf("%v", v))
	}
	if !isnum {
		return ret
	}
	if num == 0 {
		num = 0 //no negative zeros
	}
	format, ok := fieldFormats[name]
	switch {
	case !ok:
		ret = sf(floatFormat, num)
	case KindOf(name) == Integer:
		ret = sf(format, int(math.Round(num)))
	default:
		ret = sf(format, num)
	}
	if num >= 0 {
		ret = " " + ret
	}
	return ret
}

func safeName(s string) string {
	if s == "" {
		return defaultMolName
	}
	return unsafeChars.ReplaceAllString(s, "_")
}

//a record can be written if all its atoms are in the topology,
//and it has as many as the section requires.
func writable(r *Record) bool {
	arity, err := Arity(r.Section)
	if err != nil || len(r.atoms) < arity {
		return false
	}
	for _, a := range r.atoms {
		if a.Serial() <= 0 {
			return false
		}
	}
	return true
}

func atomLine(a *Atom) string {
	values := []interface{}{a.Serial(), a.AtomType, a.ResSeq(), a.ResName(), a.Name, a.ChargeGroupSeq(), a.Charge, a.Mass}
	var b strings.Builder
	for i, k := range AtomFields {
		b.WriteString(" ")
		b.WriteString(FormatField(k, values[i]))
	}
	return b.String()
}

func recordLine(r *Record) string {
	var b strings.Builder
	for _, a := range r.atoms {
		b.WriteString(FormatField("serial", a.Serial()))
	}
	b.WriteString(" ")
	b.WriteString(FormatField("funct", r.Funct))
	for i, k := range r.Keys() {
		if i >= len(r.Params) {
			break
		}
		b.WriteString(" ")
		b.WriteString(FormatField(k, r.Params[i]))
	}
	return b.String()
}

func recordKeysLine(r *Record) string {
	var b strings.Builder
	b.WriteString(";")
	arity, _ := Arity(r.Section)
	for i := 0; i < arity && i < len(atomLetters); i++ {
		b.WriteString("  a" + atomLetters[i])
	}
	b.WriteString(" ")
	b.WriteString(strings.Join(append([]string{"funct"}, r.Keys()...), "  "))
	return b.String()
}

//lines returns the itp lines for T, as the molecule type name.
func (T *Topology) lines(name string) []string {
	ret := make([]string, 0, len(T.atoms)+T.NRecords()+20)
	ret = append(ret, ";")
	ret = append(ret, sf(headerFormat, moleculetype), "; name        nrexcl")
	ret = append(ret, FormatField("name", safeName(name))+" "+FormatField("nrexcl", 3), "")
	if len(T.atoms) > 0 {
		ret = append(ret, sf(headerFormat, atomsSection), "; "+strings.Join(AtomFields, "  "))
		for _, a := range T.atoms {
			ret = append(ret, atomLine(a))
		}
		ret = append(ret, "")
	}
	for _, s := range T.sections {
		recs := make([]*Record, 0, len(T.records[s]))
		for _, r := range T.records[s] {
			if writable(r) {
				recs = append(recs, r)
			}
		}
		if len(recs) == 0 {
			continue
		}
		ret = append(ret, sf(headerFormat, s), recordKeysLine(recs[0]))
		for _, r := range recs {
			ret = append(ret, recordLine(r))
		}
		ret = append(ret, "")
	}
	return ret
}

//ITP returns T in itp format.
func (T *Topology) ITP() string {
	return T.ITPAs(T.Name)
}

//ITPAs is like ITP, but the molecule type is called name.
func (T *Topology) ITPAs(name string) string {
	return strings.Join(T.lines(name), "\n")
}

//Write writes T in itp format to w.
func Write(w io.Writer, T *Topology) error {
	_, err := io.WriteString(w, T.ITP())
	return err
}
