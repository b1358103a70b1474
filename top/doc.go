/*
 * doc.go, part of polytop.
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

/*
Package top reads, edits and writes the topology of a molecule: its atoms,
residues, charge groups and bonded interactions (bonds, pairs, angles,
dihedrals, exclusions), in the Gromacs itp format.

The Topology keeps every cross reference as a pointer to a live Atom. The
index and serial of an atom are not stored by the user, they are derived
from the atom's position in the topology and recomputed after every
structural edit, so Serial()==Index()+1 always holds.

The interaction schema (the fields each function type of each section
carries, and their scalar kind) is a static table shared by the reader
and the writer. Numeric values are stored and written back, never checked
for physical sense.
*/
package top
