/*
 * coulomb.go, part of goaft.
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

import "math"

//CoulG returns the bare Coulomb kernel 4*pi/|q+G|^2 on the grid. The
//singular point, if the shifted grid has one, is set to zero.
func (df *AFTDF) CoulG(q [3]float64) []float64 {
	if df == nil {
		panic(ErrNilDF)
	}
	ng := df.grid.NG()
	out := make([]float64, ng)
	for g := 0; g < ng; g++ {
		v := df.grid.G.VecAt(g)
		x := v[0] + q[0]
		y := v[1] + q[1]
		z := v[2] + q[2]
		g2 := x*x + y*y + z*z
		if g2 < 1e-12 {
			continue
		}
		out[g] = 4 * math.Pi / g2
	}
	return out
}

//WeightedCoulG returns the Coulomb kernel at q+G multiplied by the
//quadrature weight. With exx set and the Ewald divergence treatment
//configured, the singular point carries the probe-charge correction
//Nk*vol*madelung instead of zero, so that exchange energies converge
//with the k-point mesh.
func (df *AFTDF) WeightedCoulG(q [3]float64, exx bool) []float64 {
	coul := df.CoulG(q)
	if exx && df.cfg.ExxDiv == ExxEwald && gammaPoint(q) {
		nk := len(df.cfg.Kpts)
		mad := df.cell.Madelung(math.Cbrt(float64(nk)))
		corr := float64(nk) * df.cell.Volume() * mad
		for g := range coul {
			v := df.grid.G.VecAt(g)
			x := v[0] + q[0]
			y := v[1] + q[1]
			z := v[2] + q[2]
			if x*x+y*y+z*z < 1e-12 {
				coul[g] += corr
			}
		}
	}
	w := df.grid.Weight
	for g := range coul {
		coul[g] *= w
	}
	return coul
}
