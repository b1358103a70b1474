/*
 * gonum.go, part of polytop.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const cols int = 3

// Matrix is a set of vectors in 3D space, one per row.
type Matrix struct {
	*mat.Dense
}

// Dense2Matrix wraps a Dense with 3 columns. Panics otherwise.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// data is used as backing storage, not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	l := len(data)
	if l == 0 {
		return nil, Error{"v3: empty data for NewMatrix", []string{"NewMatrix"}, true}
	}
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("v3: input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors.
// vecs must be positive, gonum doesn't allow empty matrices.
func Zeros(vecs int) *Matrix {
	return &Matrix{mat.NewDense(vecs, cols, nil)}
}

// Eye returns a 3x3 identity matrix.
func Eye() *Matrix {
	return &Matrix{mat.NewDense(cols, cols, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})}
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// VecView returns a view of the ith vector of F. Changes in the view
// are reflected in F and vice versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, cols).(*mat.Dense)}
}

// Vec returns a copy of the ith vector of F.
func (F *Matrix) Vec(i int) [3]float64 {
	var r [3]float64
	copy(r[:], F.Dense.RawRowView(i))
	return r
}

// SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	F.Dense.SetRow(i, v[:])
}

// SomeVecs puts in F all the vectors of A with index in clist,
// in the order of clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	fr := F.NVecs()
	ar := A.NVecs()
	if fr != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		if val < 0 || val >= ar {
			panic(ErrIndexOutOfRange)
		}
		F.Dense.SetRow(key, A.Dense.RawRowView(val))
	}
}

// SomeVecsSafe is like SomeVecs but returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = Error{string(e), []string{"SomeVecsSafe"}, true}
			case mat.Error:
				err = Error{fmt.Sprintf("v3: Error in a gonum function: %s", e), []string{"SomeVecsSafe"}, true}
			default:
				panic(r)
			}
		}
	}()
	F.SomeVecs(A, clist)
	return err
}

// AddVec adds the row vector vec to every vector of A, putting the result in F.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar := A.NVecs()
	if vec.NVecs() != 1 || F.NVecs() != ar {
		panic(ErrShape)
	}
	v := vec.Dense.RawRowView(0)
	for i := 0; i < ar; i++ {
		a := A.Dense.RawRowView(i)
		f := F.Dense.RawRowView(i)
		for j := 0; j < cols; j++ {
			f[j] = a[j] + v[j]
		}
	}
}

// SubVec subtracts the row vector vec from every vector of A, putting the result in F.
func (F *Matrix) SubVec(A, vec *Matrix) {
	neg := Zeros(1)
	neg.Dense.Scale(-1, vec.Dense)
	F.AddVec(A, neg)
}

// Mul wraps mat.Dense.Mul so the receiver can also be one of the
// arguments.
func (F *Matrix) Mul(A, B mat.Matrix) {
	if a, ok := A.(*Matrix); ok {
		A = a.Dense
	}
	if b, ok := B.(*Matrix); ok {
		B = b.Dense
	}
	if A == mat.Matrix(F.Dense) || B == mat.Matrix(F.Dense) {
		tmp := new(mat.Dense)
		tmp.Mul(A, B)
		F.Dense.Copy(tmp)
		return
	}
	F.Dense.Mul(A, B)
}

// Stack puts A stacked over B in F. F must have room for both.
func (F *Matrix) Stack(A, B *Matrix) {
	ar := A.NVecs()
	br := B.NVecs()
	if F.NVecs() < ar+br {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		F.Dense.SetRow(i, A.Dense.RawRowView(i))
	}
	for i := 0; i < br; i++ {
		F.Dense.SetRow(ar+i, B.Dense.RawRowView(i))
	}
}

// Centroid returns the mean of the vectors in F as a 1x3 matrix.
func (F *Matrix) Centroid() *Matrix {
	r := F.NVecs()
	c := Zeros(1)
	ret := c.Dense.RawRowView(0)
	for i := 0; i < r; i++ {
		row := F.Dense.RawRowView(i)
		for j := 0; j < cols; j++ {
			ret[j] += row[j]
		}
	}
	for j := 0; j < cols; j++ {
		ret[j] /= float64(r)
	}
	return c
}

// Copy returns a copy of F that shares no memory with it.
func (F *Matrix) Copy() *Matrix {
	return &Matrix{mat.DenseCopyOf(F.Dense)}
}

// String returns a neat string representation of a Matrix.
func (F *Matrix) String() string {
	r, _ := F.Dims()
	rows := make([]string, r)
	for i := 0; i < r; i++ {
		v := F.Dense.RawRowView(i)
		rows[i] = fmt.Sprintf("[%8.3f %8.3f %8.3f]", v[0], v[1], v[2])
	}
	return strings.Join(rows, "\n")
}

// Det returns the determinant of a 3x3 matrix. Panics if A is not 3x3.
func Det(A mat.Matrix) float64 {
	r, c := A.Dims()
	if r != 3 || c != 3 {
		panic(ErrDeterminant)
	}
	return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(2, 1)*A.At(1, 2)) -
		A.At(1, 0)*(A.At(0, 1)*A.At(2, 2)-A.At(2, 1)*A.At(0, 2)) +
		A.At(2, 0)*(A.At(0, 1)*A.At(1, 2)-A.At(1, 1)*A.At(0, 2))
}

//Errors

// Error is the error type returned by the v3 functions that
// don't panic.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	err.deco = append(err.deco, dec)
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err Error) Critical() bool { return err.critical }

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
// for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("v3: A v3.Matrix should have 3 columns")
	ErrDeterminant     = PanicMsg("v3: Determinants are only available for 3x3 matrices")
	ErrShape           = PanicMsg("v3: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("v3: index out of range")
)
