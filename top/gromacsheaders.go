/*
 * gromacsheaders.go, part of polytop.
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
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var fi = strings.Fields
var sf = fmt.Sprintf

//StringReader is the input the topology reader needs. *bufio.Reader and
//*strings.Reader (through bufio) implement it.
type StringReader interface {
	ReadString(delim byte) (string, error)
}

func parseints(s ...string) ([]int, error) {
	r := make([]int, 0, len(s))
	for _, v := range s {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		r = append(r, i)
	}
	return r, nil
}

// Returns a string without gromacs comments (sequences starting with ';'),
// trailing and leading spaces, tabs and newlines
func cleanString(s string) string {
	f := strings.Split(s, ";")[0]
	return strings.Trim(f, "\r\n\t ")
}

//recognizes section headers, i.e. [ name ]
type topHeader struct {
	any *regexp.Regexp
}

func newTopHeader() *topHeader {
	return &topHeader{any: regexp.MustCompile(`^\[\p{Zs}*(\S+)\p{Zs}*\]$`)}
}

//Is returns true if line is a section header.
func (T *topHeader) Is(line string) bool {
	return T.any.MatchString(line)
}

//Which returns the name of the section in the header line, or "" if
//line is not a header.
func (T *topHeader) Which(line string) string {
	m := T.any.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

//cond keeps track of the conditional parts of gromacs topologies,
//depending on the defined flags that should be in 'defines'. Blocks can be nested.
type cond struct {
	stack []bool
}

func newCond() *cond {
	return &cond{stack: make([]bool, 0, 2)}
}

func (c *cond) reading() bool {
	for _, v := range c.stack {
		if !v {
			return false
		}
	}
	return true
}

//read processes line, and returns true if the line is to be read, false if it
//is a conditional directive or it is in a block that is not to be read.
func (c *cond) read(line string, defines []string) bool {
	f := fi(line)
	switch f[0] {
	case "#ifdef", "#ifndef":
		defined := len(f) > 1 && slices.Contains(defines, f[1])
		c.stack = append(c.stack, defined == (f[0] == "#ifdef"))
		return false
	case "#else":
		if len(c.stack) > 0 {
			c.stack[len(c.stack)-1] = !c.stack[len(c.stack)-1]
		}
		return false
	case "#endif":
		if len(c.stack) > 0 {
			c.stack = c.stack[:len(c.stack)-1]
		}
		return false
	}
	return c.reading()
}
