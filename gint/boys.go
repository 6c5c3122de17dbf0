/*
 * boys.go, part of goaft.
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

//Package gint evaluates the real-space Gaussian integrals needed by the
//density fitting core: the Boys function and the lattice-summed Coulomb
//interaction of AO pair densities with smeared nuclear charges.
package gint

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

//Boys returns the Boys function F_n(x), the integral of
//t^(2n)*exp(-x*t^2) over [0,1], through the regularized lower
//incomplete gamma function.
func Boys(n int, x float64) float64 {
	if n < 0 {
		panic(ErrNegativeOrder)
	}
	nh := float64(n) + 0.5
	if x < 1e-14 {
		return 1 / (2*float64(n) + 1)
	}
	return mathext.GammaIncReg(nh, x) * math.Gamma(nh) / (2 * math.Pow(x, nh))
}

//BoysUpTo fills out[0:m+1] with F_0(x) through F_m(x).
func BoysUpTo(m int, x float64, out []float64) {
	for n := 0; n <= m; n++ {
		out[n] = Boys(n, x)
	}
}
