/*
 * grid.go, part of goaft.
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
	"math"
	"math/cmplx"
)

//Grid is the reciprocal-space quadrature grid for a mesh specification:
//the G vectors G = i*b1 + j*b2 + k*b3 with -mesh_x <= i <= mesh_x and
//so on, and the uniform quadrature weight 1/volume. The number of grid
//points is the product of (2*mesh_i + 1).
type Grid struct {
	Mesh   [3]int
	G      *Vecs
	Weight float64
}

//Grid builds the reciprocal-space grid of the cell for the given mesh.
//Only 3-dimensional cells carry a uniform plane-wave quadrature.
func (c *Cell) Grid(mesh [3]int) (*Grid, error) {
	if c == nil {
		panic(ErrNilCell)
	}
	if c.Dimension != 3 {
		return nil, errorf(true, "goaft/cell.Grid: plane-wave quadrature implemented for 3-dimensional cells only, got %d", c.Dimension)
	}
	for _, m := range mesh {
		if m < 0 {
			return nil, errorf(true, "goaft/cell.Grid: negative mesh %v", mesh)
		}
	}
	ng := (2*mesh[0] + 1) * (2*mesh[1] + 1) * (2*mesh[2] + 1)
	g := ZeroVecs(ng)
	b := c.rec
	n := 0
	for i := -mesh[0]; i <= mesh[0]; i++ {
		for j := -mesh[1]; j <= mesh[1]; j++ {
			for k := -mesh[2]; k <= mesh[2]; k++ {
				fi, fj, fk := float64(i), float64(j), float64(k)
				g.SetVecAt(n, [3]float64{
					fi*b[0][0] + fj*b[1][0] + fk*b[2][0],
					fi*b[0][1] + fj*b[1][1] + fk*b[2][1],
					fi*b[0][2] + fj*b[1][2] + fk*b[2][2],
				})
				n++
			}
		}
	}
	return &Grid{Mesh: mesh, G: g, Weight: 1 / c.vol}, nil
}

//NG returns the number of grid points.
func (g *Grid) NG() int { return g.G.NVecs() }

//StructureFactor returns exp(-i*G.R) for every atom (first index) and
//every grid point of gv (second index).
func (c *Cell) StructureFactor(gv *Vecs) [][]complex128 {
	if c == nil {
		panic(ErrNilCell)
	}
	ng := gv.NVecs()
	si := make([][]complex128, len(c.Atoms))
	for ia, at := range c.Atoms {
		row := make([]complex128, ng)
		for g := 0; g < ng; g++ {
			gr := gv.At(g, 0)*at.Coord[0] + gv.At(g, 1)*at.Coord[1] + gv.At(g, 2)*at.Coord[2]
			row[g] = cmplx.Exp(complex(0, -gr))
		}
		si[ia] = row
	}
	return si
}

//G2 returns the squared norm of every vector of gv.
func G2(gv *Vecs) []float64 {
	n := gv.NVecs()
	g2 := make([]float64, n)
	for i := 0; i < n; i++ {
		x, y, z := gv.At(i, 0), gv.At(i, 1), gv.At(i, 2)
		g2[i] = x*x + y*y + z*z
	}
	return g2
}

//norm3 is a helper for plain 3-vectors.
func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
