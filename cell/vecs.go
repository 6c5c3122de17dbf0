/*
 * vecs.go, part of goaft.
 *
 * Copyright 2024 The goaft developers.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * GNU General Public License for more details.
 *
 */

package cell

import (
	"gonum.org/v1/gonum/mat"
)

//Vecs is a set of 3-vectors (an Nx3 row-major matrix) built on gonum's
//Dense type. It is used for reciprocal-space grid points, k-points and
//lattice translations.
type Vecs struct {
	*mat.Dense
}

//NewVecs generates a Vecs with 3 columns from data. The length of
//data must be divisible by 3.
func NewVecs(data []float64) (*Vecs, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, errorf(true, "goaft/cell.NewVecs: input slice length %d not divisible by 3", l)
	}
	return &Vecs{mat.NewDense(rows, cols, data)}, nil
}

//ZeroVecs returns a zero-filled Vecs with n vectors.
func ZeroVecs(n int) *Vecs {
	const cols int = 3
	f := make([]float64, cols*n)
	return &Vecs{mat.NewDense(n, cols, f)}
}

//Dense2Vecs wraps an Nx3 gonum Dense into a Vecs. It panics if the
//matrix does not have 3 columns.
func Dense2Vecs(A *mat.Dense) *Vecs {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotNx3Matrix)
	}
	return &Vecs{A}
}

//NVecs returns the number of 3-vectors.
func (F *Vecs) NVecs() int {
	r, _ := F.Dims()
	return r
}

//VecAt returns the i-th vector as an array. It panics if i is out of range.
func (F *Vecs) VecAt(i int) [3]float64 {
	if i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

//SetVecAt sets the i-th vector. It panics if i is out of range.
func (F *Vecs) SetVecAt(i int, v [3]float64) {
	if i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	F.Set(i, 0, v[0])
	F.Set(i, 1, v[1])
	F.Set(i, 2, v[2])
}

//SliceVecs returns a view of the vectors [i,j). Changes in the view are
//reflected in F and vice-versa; no data is copied.
func (F *Vecs) SliceVecs(i, j int) *Vecs {
	if i < 0 || j > F.NVecs() || i > j {
		panic(ErrIndexOutOfRange)
	}
	return &Vecs{F.Slice(i, j, 0, 3).(*mat.Dense)}
}
