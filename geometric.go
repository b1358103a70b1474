/*
 * geometric.go, part of polytop.
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

package chem

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/rmera/polytop/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//ErrMismatchedCoordinates is returned when two coordinate sets that should
//correspond row by row have different numbers of rows.
var ErrMismatchedCoordinates = errors.New("chem: coordinate sets of different length")

//Transform is a rigid-body transformation. A set of row vectors x is transformed
//as (x+Before)*Rotation+After.
type Transform struct {
	Rotation *v3.Matrix //3x3
	Before   *v3.Matrix //1x3
	After    *v3.Matrix //1x3
}

//IdentityTransform returns a transformation that leaves coordinates untouched.
func IdentityTransform() *Transform {
	return &Transform{Rotation: v3.Eye(), Before: v3.Zeros(1), After: v3.Zeros(1)}
}

//Apply transforms the vectors of A in place.
func (T *Transform) Apply(A *v3.Matrix) {
	if A == nil {
		return
	}
	A.AddVec(A, T.Before)
	A.Mul(A, T.Rotation)
	A.AddVec(A, T.After)
}

//Translation returns the net translation of the transform, i.e., the
//vector to be added after rotating around the origin.
func (T *Transform) Translation() [3]float64 {
	t := v3.Zeros(1)
	t.Mul(T.Before, T.Rotation)
	t.AddVec(t, T.After)
	return t.Vec(0)
}

//IsIdentity returns true if the rotation is the identity and the net
//translation is zero, both within tol.
func (T *Transform) IsIdentity(tol float64) bool {
	if !mat.EqualApprox(T.Rotation, v3.Eye(), tol) {
		return false
	}
	tr := T.Translation()
	return floats.Norm(tr[:], 2) <= tol
}

//SuperTransform returns the rigid transformation that superimposes the rows of test
//on the rows of templa with the least sum of squared distances.
//It uses the closed-form solution: both sets are centered, and the optimal rotation
//is obtained from the SVD of their covariance matrix, with a correction so a
//reflection is never returned. If the sets are empty (or nil) the identity is returned.
func SuperTransform(test, templa *v3.Matrix) (*Transform, error) {
	if test == nil || templa == nil {
		if test == nil && templa == nil {
			return IdentityTransform(), nil
		}
		return nil, ErrMismatchedCoordinates
	}
	n := test.NVecs()
	if n != templa.NVecs() {
		return nil, fmt.Errorf("SuperTransform: %d vs %d vectors: %w", n, templa.NVecs(), ErrMismatchedCoordinates)
	}
	pc := test.Centroid()
	qc := templa.Centroid()
	P := v3.Zeros(n)
	P.SubVec(test, pc)
	Q := v3.Zeros(n)
	Q.SubVec(templa, qc)
	H := mat.NewDense(3, 3, nil)
	H.Mul(P.Dense.T(), Q.Dense)
	var svd mat.SVD
	if ok := svd.Factorize(H, mat.SVDFull); !ok {
		return nil, fmt.Errorf("SuperTransform: SVD factorization failed")
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	d := 1.0
	if v3.Det(&U)*v3.Det(&V) < 0 {
		d = -1
	}
	D := mat.NewDiagDense(3, []float64{1, 1, d})
	UD := mat.NewDense(3, 3, nil)
	UD.Mul(&U, D)
	R := v3.Zeros(3)
	R.Mul(UD, V.T())
	pc.Dense.Scale(-1, pc.Dense)
	return &Transform{Rotation: R, Before: pc, After: qc}, nil
}

//Super superimposes the atoms of test with indexes in testlst on the atoms of templa with indexes
//in templalst. Every row of test is transformed, in place. The applied transformation is returned.
//Empty lists are a no-op, and the identity transformation is returned.
func Super(test, templa *v3.Matrix, testlst, templalst []int) (*Transform, error) {
	if len(testlst) != len(templalst) {
		return nil, fmt.Errorf("Super: %d vs %d atoms: %w", len(testlst), len(templalst), ErrMismatchedCoordinates)
	}
	if len(testlst) == 0 {
		return IdentityTransform(), nil
	}
	ctest := v3.Zeros(len(testlst))
	if err := ctest.SomeVecsSafe(test, testlst); err != nil {
		return nil, fmt.Errorf("Super: %w", err)
	}
	ctempla := v3.Zeros(len(templalst))
	if err := ctempla.SomeVecsSafe(templa, templalst); err != nil {
		return nil, fmt.Errorf("Super: %w", err)
	}
	T, err := SuperTransform(ctest, ctempla)
	if err != nil {
		return nil, fmt.Errorf("Super: %w", err)
	}
	T.Apply(test)
	return T, nil
}

//Deviations returns the distance between each pair of corresponding rows in test and templa.
func Deviations(test, templa *v3.Matrix) ([]float64, error) {
	if test == nil || templa == nil {
		if test == nil && templa == nil {
			return nil, nil
		}
		return nil, ErrMismatchedCoordinates
	}
	n := test.NVecs()
	if n != templa.NVecs() {
		return nil, fmt.Errorf("Deviations: %d vs %d vectors: %w", n, templa.NVecs(), ErrMismatchedCoordinates)
	}
	ret := make([]float64, n)
	for i := 0; i < n; i++ {
		ret[i] = floats.Distance(test.RawRowView(i), templa.RawRowView(i), 2)
	}
	return ret, nil
}

//RMSD returns the RSMD (root of the mean square deviation) for the sets of cartesian
//coordinates in test and template. It is 0 for empty sets.
func RMSD(test, templa *v3.Matrix) (float64, error) {
	devs, err := Deviations(test, templa)
	if err != nil {
		return 0, err
	}
	if len(devs) == 0 {
		return 0, nil
	}
	return math.Sqrt(floats.Dot(devs, devs) / float64(len(devs))), nil
}
