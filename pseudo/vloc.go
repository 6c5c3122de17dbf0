/*
 * vloc.go, part of goaft.
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

package pseudo

import "math"

//VlocGPart1 returns the reciprocal-space long-range local potential of
//one center, 4*pi*z*exp(-G^2*rloc^2/2)/G^2 per grid point, without the
//overall attraction sign (the potential builders apply it together with
//the quadrature weight). At G=0 the divergent 4*pi*z/G^2 piece belongs
//to the neutralizing background and only the finite remainder
//-2*pi*z*rloc^2 is kept.
func VlocGPart1(z, rloc float64, g2 []float64) []float64 {
	out := make([]float64, len(g2))
	for i, x := range g2 {
		if x < 1e-12 {
			out[i] = -2 * math.Pi * z * rloc * rloc
			continue
		}
		out[i] = 4 * math.Pi * z * math.Exp(-0.5*x*rloc*rloc) / x
	}
	return out
}

//VlocGPart2 returns the short-range polynomial part of the GTH local
//potential in reciprocal space, per grid point. The sign convention
//matches VlocGPart1: the total local potential of a center is the sum
//of the two parts.
func VlocGPart2(rloc float64, c []float64, g2 []float64) []float64 {
	out := make([]float64, len(g2))
	pre := math.Pow(2*math.Pi, 1.5) * rloc * rloc * rloc
	var c1, c2, c3, c4 float64
	switch len(c) {
	case 4:
		c4 = c[3]
		fallthrough
	case 3:
		c3 = c[2]
		fallthrough
	case 2:
		c2 = c[1]
		fallthrough
	case 1:
		c1 = c[0]
	}
	for i, g := range g2 {
		x := g * rloc * rloc
		poly := c1 + c2*(3-x) + c3*(15-10*x+x*x) + c4*(105-105*x+21*x*x-x*x*x)
		out[i] = -pre * math.Exp(-0.5*x) * poly
	}
	return out
}
