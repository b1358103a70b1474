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
Package chem is the coordinate side of polytop. It provides atom and molecule
structures holding identities and cartesian coordinates, reading and writing
of PDB files, and the rigid-body superposition used to bring one molecule
onto another before two topologies are spliced.

Chemical semantics (charges, masses used by a force field, bonded terms)
are not kept here. They live in the topology package (polytop/top), and the
two stores are joined by atom position in polytop/poly.

Coordinates are kept in a v3.Matrix (polytop/v3), one row per atom.
*/
package chem
