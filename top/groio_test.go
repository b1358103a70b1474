/*
 * groio_test.go, part of polytop.
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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethanolITP = `; a test molecule
[ moleculetype ]
; name nrexcl
ETH   3

[ atoms ]
;  nr type resnr res atom cgnr charge mass
   1   CH3   1   ETH   C1   1   -0.1800  12.0110
   2   HC    1   ETH   H11  1    0.0600   1.0080
   3   HC    1   ETH   H12  1    0.0600   1.0080
   4   CH2   1   ETH   C2   2    0.1450  12.0110
   5   OH    2   ALC   O1   3   -0.6830  15.9994 ; the hydroxyl
   6   HO    2   ALC   H1   3    0.4180   1.0080

[ bonds ]
  1  2  1  1.0900e-01  2.8451e+05
  1  3  1  1.0900e-01  2.8451e+05
  1  4  1  1.5290e-01  2.2418e+05
  4  5  1  1.4100e-01  2.6778e+05
  5  6  1  9.4500e-02  4.6275e+05

[ pairs ]
  1  5  1
  2  5  1

[ angles ]
  1  4  5  1  109.50  4.1840e+02
  2  1  4  2  110.70  3.1380e+02

[ dihedrals ]
  1  4  5  6  9  0.00  1.2552e+00  3
* a comment with an asterisk
  2  1  4  5  3  0.6276 1.8828 0.0 -2.5104 0.0 0.0
[ exclusions ]
  1  6  1
`

func readEthanol(Te *testing.T) *Topology {
	T, err := ReadString(ethanolITP)
	require.NoError(Te, err)
	return T
}

func TestRead(Te *testing.T) {
	T := readEthanol(Te)
	assert.Equal(Te, "ETH", T.Name)
	assert.True(Te, T.Complete)
	require.Equal(Te, 6, T.Len())
	require.Len(Te, T.Residues(), 2)
	require.Len(Te, T.ChargeGroups(), 3)
	assert.Equal(Te, []string{Bonds, Pairs, Angles, Dihedrals, Exclusions}, T.Sections())
	assert.Len(Te, T.Records(Bonds), 5)
	assert.Len(Te, T.Records(Pairs), 2)
	assert.Len(Te, T.Records(Angles), 2)
	assert.Len(Te, T.Records(Dihedrals), 2)
	assert.Len(Te, T.Records(Exclusions), 1)
	assert.Equal(Te, 12, T.NRecords())
	assert.Zero(Te, T.DroppedReferences())

	o := T.Atom(4)
	assert.Equal(Te, "O1", o.Name)
	assert.Equal(Te, "OH", o.AtomType)
	assert.Equal(Te, "ALC", o.ResName())
	assert.Equal(Te, 2, o.ResSeq())
	assert.Equal(Te, 3, o.ChargeGroupSeq())
	assert.Equal(Te, 5, o.Serial())
	assert.InDelta(Te, -0.683, o.Charge, 1e-12)
	assert.InDelta(Te, 15.9994, o.Mass, 1e-12)
	assert.InDelta(Te, -0.18, T.TotalCharge(), 1e-9)

	d := T.Records(Dihedrals)[0]
	assert.Equal(Te, 9, d.Funct)
	assert.Equal(Te, []int{0, 3, 4, 5}, d.AtomIndices())
	assert.Equal(Te, []int{1, 4, 5, 6}, d.AtomSerials())
	mult, ok := d.Param("mult")
	assert.True(Te, ok)
	assert.Equal(Te, 3.0, mult)
	_, ok = d.Param("keq")
	assert.False(Te, ok)
	assert.Empty(Te, T.Records(Pairs)[0].Params)

	assert.Equal(Te, [][2]int{{0, 1}, {0, 2}, {0, 3}, {3, 4}, {4, 5}}, T.Bonds())
	assert.Equal(Te, []int{0, 1, 1, 2, 3, 4}, T.TypeTags())
	require.NoError(Te, T.Validate())
}

func TestReadErrors(Te *testing.T) {
	cases := []struct {
		name string
		itp  string
		line int
		err  error
	}{
		{"include", "[ moleculetype ]\nA 3\n#include \"other.itp\"\n", 3, ErrUnsupportedDirective},
		{"include without a space", "[ moleculetype ]\nA 3\n#include\"other.itp\"\n", 3, ErrUnsupportedDirective},
		{"include in a skipped block", "#ifdef POSRES\n#include \"posre.itp\"\n#endif\n", 2, ErrUnsupportedDirective},
		{"unknown function type", "[ atoms ]\n1 C 1 R C1 1 0 12\n2 C 1 R C2 1 0 12\n[ bonds ]\n1 2 11 0.1 100\n", 5, ErrUnknownFunctionType},
		{"malformed float", "[ atoms ]\n1 C 1 R C1 1 0 12\n2 C 1 R C2 1 0 12\n[ bonds ]\n1 2 1 abc 100\n", 5, ErrMalformedValue},
		{"malformed integer", "[ atoms ]\n1 C x R C1 1 0 12\n", 2, ErrMalformedValue},
		{"malformed charge", "[ atoms ]\n1 C 1 R C1 1 zero 12\n", 2, ErrMalformedValue},
		{"missing atom fields", "[ atoms ]\n1 C 1 R\n", 2, ErrMalformedValue},
		{"missing function type", "[ atoms ]\n1 C 1 R C1 1 0 12\n[ pairs ]\n1 2\n", 4, ErrMalformedValue},
		{"partial parameters", "[ atoms ]\n1 C 1 R C1 1 0 12\n2 C 1 R C2 1 0 12\n[ bonds ]\n1 2 1 0.1\n", 5, ErrMalformedValue},
		{"malformed multiplicity", "[ dihedrals ]\n1 2 3 4 9 180.0 10.0 2.5\n", 2, ErrMalformedValue},
	}
	for _, c := range cases {
		T, err := ReadString(c.itp)
		assert.Nil(Te, T, c.name)
		require.ErrorIs(Te, err, c.err, c.name)
		var perr *ParseError
		require.ErrorAs(Te, err, &perr, c.name)
		assert.Equal(Te, c.line, perr.Line, c.name)
		assert.NotEmpty(Te, perr.Text, c.name)
	}
}

func TestReadConditionals(Te *testing.T) {
	itp := `[ moleculetype ]
A 3
[ atoms ]
1 C 1 R C1 1 0.0 12.0
#define SOMETHING
#ifdef EXTRA
2 C 1 R C2 2 0.0 12.0
#ifndef NESTED
3 C 1 R C3 3 0.0 12.0
#endif
#else
2 O 1 R O2 2 0.0 16.0
#endif
`
	T, err := ReadString(itp, "EXTRA")
	require.NoError(Te, err)
	require.Equal(Te, 3, T.Len())
	assert.Equal(Te, "C2", T.Atom(1).Name)
	assert.Equal(Te, "C3", T.Atom(2).Name)

	T, err = ReadString(itp, "EXTRA", "NESTED")
	require.NoError(Te, err)
	assert.Equal(Te, 2, T.Len())

	T, err = ReadString(itp)
	require.NoError(Te, err)
	require.Equal(Te, 2, T.Len())
	assert.Equal(Te, "O2", T.Atom(1).Name)
}

func TestReadDanglingReferences(Te *testing.T) {
	itp := `[ moleculetype ]
A 3
[ system ]
this section is not read
[ atoms ]
1 C 1 R C1 1 0.0 12.0
2 C 1 R C2 1 0.0 12.0
[ bonds ]
1 2 1 0.15 1000
1 7 1 0.15 1000
`
	T, err := ReadString(itp)
	require.NoError(Te, err)
	assert.Equal(Te, 1, T.DroppedReferences())
	require.Len(Te, T.Records(Bonds), 2)
	assert.Equal(Te, []int{0}, T.Records(Bonds)[1].AtomIndices())
	//the incomplete record is never written
	again, err := ReadString(T.ITP())
	require.NoError(Te, err)
	assert.Len(Te, again.Records(Bonds), 1)
	assert.Zero(Te, again.DroppedReferences())
}

func TestReadAll(Te *testing.T) {
	itp := `[ moleculetype ]
FIRST 3
[ atoms ]
1 C 1 R C1 1 0.0 12.0
[ moleculetype ]
SECOND 3
[atoms]
1 O 1 S O1 1 0.0 16.0
2 H 1 S H1 1 0.0 1.0
`
	all, err := ReadAll(bufio.NewReader(strings.NewReader(itp)))
	require.NoError(Te, err)
	require.Len(Te, all, 2)
	assert.Equal(Te, "FIRST", all[0].Name)
	assert.Equal(Te, 1, all[0].Len())
	assert.Equal(Te, 2, all[1].Len())
	last, err := ReadString(itp)
	require.NoError(Te, err)
	assert.Equal(Te, "SECOND", last.Name)

	//atoms before any moleculetype
	T, err := ReadString("[ atoms ]\n1 C 1 R C1 1\n")
	require.NoError(Te, err)
	assert.Equal(Te, defaultMolName, T.Name)
	assert.Zero(Te, T.Atom(0).Charge)

	T, err = ReadString("")
	require.NoError(Te, err)
	assert.Zero(Te, T.Len())
}

func TestFormatField(Te *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"charge", -0.5, "-0.5000 "},
		{"charge", 0.5, " 0.5000  "},
		{"mass", 12.011, " 12.0110 "},
		{"serial", 12, " 12    "},
		{"funct", 1, " 1   "},
		{"mult", 3.0, " 3     "},
		{"phase", 180.0, " 180.00"},
		{"angle", -109.5, "-109.50"},
		{"keq", 0.109, " 1.0900000e-01"},
		{"fc", -284510.0, "-2.8451000e+05"},
		{"atomType", "CH3", "CH3     "},
		{"name", "C1", "C1      "},
		{"something", 1.0, " 1.0000000e+00"},
		{"charge", -0.0, " 0.0000  "},
		{"atomType", "", "X       "},
	}
	for _, c := range cases {
		assert.Equal(Te, c.want, FormatField(c.name, c.value), "%s %v", c.name, c.value)
	}
}

func TestWrite(Te *testing.T) {
	T := New("my-mol")
	atoms := T.AddAtoms([]AtomRow{
		{Serial: 1, AtomType: "C", ResSeq: 1, ResName: "RES", Name: "C1", ChargeGroupSeq: 1, Charge: -0.5, Mass: 12.011},
		{Serial: 2, AtomType: "H", ResSeq: 1, ResName: "RES", Name: "H1", ChargeGroupSeq: 1, Charge: 0.5, Mass: 1.008},
	})
	_, err := T.AddRecord(Bonds, 1, []float64{0.1, 1000}, atoms...)
	require.NoError(Te, err)
	want := strings.Join([]string{
		";",
		"[ moleculetype ]",
		"; name        nrexcl",
		"my_mol    3     ",
		"",
		"[ atoms ]",
		"; serial  atomType  resSeq  resName  name  chargeGroupSeq  charge  mass",
		"  1      C         1      RES      C1        1      -0.5000   12.0110 ",
		"  2      H         1      RES      H1        1       0.5000    1.0080  ",
		"",
		"[ bonds ]",
		";  ai  aj funct  keq  fc",
		" 1      2       1     1.0000000e-01  1.0000000e+03",
		"",
	}, "\n")
	assert.Equal(Te, want, T.ITP())
	var buf bytes.Buffer
	require.NoError(Te, Write(&buf, T))
	assert.Equal(Te, want, buf.String())
}

func TestWriteWithoutAtoms(Te *testing.T) {
	want := ";\n[ moleculetype ]\n; name        nrexcl\nempty     3     \n"
	assert.Equal(Te, want, New("empty").ITP())
}

//atoms with empty string fields are written with a placeholder, so the
//fields of the line don't shift.
func TestWriteEmptyStrings(Te *testing.T) {
	T := New("ion")
	T.AddAtoms([]AtomRow{
		{Serial: 1, AtomType: "", ResSeq: 1, ResName: "", Name: "", ChargeGroupSeq: 1, Charge: 2, Mass: 24.305},
	})
	again, err := ReadString(T.ITP())
	require.NoError(Te, err)
	require.Equal(Te, 1, again.Len())
	a := again.Atom(0)
	assert.Equal(Te, emptyField, a.AtomType)
	assert.Equal(Te, emptyField, a.Name)
	assert.InDelta(Te, 2.0, a.Charge, 1e-9)
	assert.InDelta(Te, 24.305, a.Mass, 1e-4)
}

func TestRoundTrip(Te *testing.T) {
	T := readEthanol(Te)
	text := T.ITP()
	again, err := ReadString(text)
	require.NoError(Te, err)
	require.Equal(Te, T.Len(), again.Len())
	for i := 0; i < T.Len(); i++ {
		a, b := T.Atom(i), again.Atom(i)
		assert.Equal(Te, a.Name, b.Name)
		assert.Equal(Te, a.AtomType, b.AtomType)
		assert.Equal(Te, a.ResName(), b.ResName())
		assert.Equal(Te, a.ResSeq(), b.ResSeq())
		assert.Equal(Te, a.ChargeGroupSeq(), b.ChargeGroupSeq())
		assert.InDelta(Te, a.Charge, b.Charge, 1e-4)
		assert.InDelta(Te, a.Mass, b.Mass, 1e-4)
	}
	require.Equal(Te, T.Sections(), again.Sections())
	for _, s := range T.Sections() {
		r1, r2 := T.Records(s), again.Records(s)
		require.Len(Te, r2, len(r1), s)
		for i := range r1 {
			assert.Equal(Te, r1[i].Funct, r2[i].Funct)
			assert.Equal(Te, r1[i].AtomIndices(), r2[i].AtomIndices())
			require.Len(Te, r2[i].Params, len(r1[i].Params))
			for j, v := range r1[i].Params {
				assert.InEpsilon(Te, v+1, r2[i].Params[j]+1, 1e-6, "%s %d %s", s, i, r1[i].Keys()[j])
			}
		}
	}
	//writing is deterministic
	assert.Equal(Te, text, T.ITP())
	assert.Equal(Te, text, again.ITP())
}

func TestSchemaAndFormatsAgree(Te *testing.T) {
	names := append([]string(nil), AtomFields...)
	for _, s := range Sections() {
		_, err := Arity(s)
		require.NoError(Te, err)
		for _, f := range FunctionTypes(s) {
			keys, err := Fields(s, f)
			require.NoError(Te, err)
			names = append(names, keys...)
		}
	}
	for _, n := range names {
		_, hasFormat := fieldFormats[n]
		switch KindOf(n) {
		case Integer:
			assert.True(Te, hasFormat, "integer field %s has no column format", n)
		case String:
			assert.False(Te, hasFormat, "string field %s has a numeric format", n)
		}
	}
	for n := range fieldFormats {
		if KindOf(n) == Integer {
			assert.Contains(Te, fieldFormats[n], "d", n)
		} else {
			assert.Contains(Te, fieldFormats[n], "f", n)
		}
	}
	_, err := Fields("bonds", 11)
	assert.ErrorIs(Te, err, ErrUnknownFunctionType)
	_, err = Fields("impropers", 1)
	assert.ErrorIs(Te, err, ErrUnknownSection)
	_, err = Arity("impropers")
	assert.ErrorIs(Te, err, ErrUnknownSection)
	assert.Equal(Te, Float, KindOf("keq"))
	assert.Equal(Te, Float, KindOf("not_a_field"))
	assert.Equal(Te, Integer, KindOf("mult"))
}
