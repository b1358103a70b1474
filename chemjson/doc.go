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

//Package chemjson implements the polytop snapshot document: a JSON object with
//the serializable form of every molecule in a universe, by name, and the counter
//used to name new molecules. The field names are those of the saved files of
//the PolyTop web tool, so those files can be read.
//Documents can be written plain, or compressed with gzip or zstd. The
//compression is detected when reading.
package chemjson
