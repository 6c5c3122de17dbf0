/*
 * basis.go, part of goaft.
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

import "math"

//HalfSphNorm is the spherical harmonic normalization of an s function,
//1/(2*sqrt(pi)).
const HalfSphNorm = 0.28209479177387814

//GTONorm returns the normalization constant of the radial part
//r^l*exp(-a*r^2) of a primitive Gaussian of angular momentum l.
func GTONorm(l int, a float64) float64 {
	num := math.Pow(2, float64(2*l+3)) * factorial(l+1) * math.Pow(2*a, float64(l)+1.5)
	den := factorial(2*l+2) * math.Sqrt(math.Pi)
	return math.Sqrt(num / den)
}

//GaussInt returns the radial integral of r^n*exp(-a*r^2) over [0,inf),
//Gamma((n+1)/2)/(2*a^((n+1)/2)).
func GaussInt(n int, a float64) float64 {
	n1 := (float64(n) + 1) / 2
	return math.Gamma(n1) / (2 * math.Pow(a, n1))
}

//SphCoef returns the angular coefficient of the real spherical
//harmonics used for the supported shells: 1/(2*sqrt(pi)) for s and
//sqrt(3/(4*pi)) for each p component.
func SphCoef(l int) float64 {
	switch l {
	case 0:
		return HalfSphNorm
	case 1:
		return 0.4886025119029199
	}
	panic(PanicMsg("goaft/cell: no spherical coefficient for l > 1"))
}

func factorial(n int) float64 {
	r := 1.0
	for i := 2; i <= n; i++ {
		r *= float64(i)
	}
	return r
}
