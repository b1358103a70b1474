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
Package poly joins the coordinates of a molecule (a chem.Molecule) with its
topology (a top.Topology), atom by atom, and keeps the fragments the user
selected on it. The two stores are independent, and are synchronized
explicitly with RefreshFromCoordinates and PushToCoordinates.

A Molecule can be turned into an Object, and rebuilt from one. The Object
is the unit of the polytop snapshot format, and is also how molecules are
copied.
*/
package poly
