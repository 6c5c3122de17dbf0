/*
 * potential.go, part of goaft.
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

package aft

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

//Potential is a one-electron matrix in the AO basis. At the gamma point
//the matrix is real symmetric and lives in Re; at a general k-point it
//is complex hermitian and lives in C. Exactly one of the two fields is
//set.
type Potential struct {
	Re *mat.SymDense
	C  *mat.CDense
}

//IsReal returns whether the potential is stored as a real symmetric
//matrix.
func (p *Potential) IsReal() bool { return p.Re != nil }

//NAO returns the dimension of the matrix.
func (p *Potential) NAO() int {
	if p.Re != nil {
		return p.Re.SymmetricDim()
	}
	r, _ := p.C.Dims()
	return r
}

//At returns the (i,j) element, promoting real storage to a complex
//value.
func (p *Potential) At(i, j int) complex128 {
	if p.Re != nil {
		return complex(p.Re.At(i, j), 0)
	}
	return p.C.At(i, j)
}

//AddTo accumulates the potential into the packed lower triangle out,
//with indexing i*(i+1)/2 + j.
func (p *Potential) AddTo(out []complex128) {
	nao := p.NAO()
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			out[i*(i+1)/2+j] += p.At(i, j)
		}
	}
}

//potentialFromPacked unpacks a lower-triangle vector into a Potential,
//assuming hermitian symmetry. At the gamma point the imaginary parts
//are numerical noise and only the real parts are kept.
func potentialFromPacked(packed []complex128, nao int, gamma bool) *Potential {
	if gamma {
		re := mat.NewSymDense(nao, nil)
		for i := 0; i < nao; i++ {
			for j := 0; j <= i; j++ {
				re.SetSym(i, j, real(packed[i*(i+1)/2+j]))
			}
		}
		return &Potential{Re: re}
	}
	c := mat.NewCDense(nao, nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			v := packed[i*(i+1)/2+j]
			c.Set(i, j, v)
			if i != j {
				c.Set(j, i, cmplx.Conj(v))
			}
		}
	}
	return &Potential{C: c}
}
