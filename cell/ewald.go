/*
 * ewald.go, part of goaft.
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

//Madelung returns the Ewald probe-charge constant of the cell lattice
//scaled by the given factor: minus twice the electrostatic energy of a
//unit point charge in its own periodic images plus a neutralizing
//uniform background. It is the G=0 correction used when regularizing
//the exchange divergence. For a cubic cell of edge L and scale 1 the
//value is 2.8372974794/L.
//
//A k-point mesh of nk points is accounted for by scaling the lattice
//with nk^(1/3), which is exact for uniform meshes.
func (c *Cell) Madelung(scale float64) float64 {
	if c == nil {
		panic(ErrNilCell)
	}
	if scale <= 0 {
		scale = 1
	}
	var lat, rec [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			lat[i][j] = c.Lattice[i][j] * scale
			rec[i][j] = c.rec[i][j] / scale
		}
	}
	vol := c.vol * scale * scale * scale
	kappa := 3.0 / math.Cbrt(vol)

	//real-space lattice sum, erfc(kappa*|T|)/|T| over T != 0
	rmax := 7.0 / kappa
	var n [3]int
	for i := 0; i < 3; i++ {
		bn := math.Sqrt(rec[i][0]*rec[i][0]+rec[i][1]*rec[i][1]+rec[i][2]*rec[i][2]) / (2 * math.Pi)
		n[i] = int(math.Ceil(rmax*bn)) + 1
	}
	real := 0.0
	for i := -n[0]; i <= n[0]; i++ {
		for j := -n[1]; j <= n[1]; j++ {
			for k := -n[2]; k <= n[2]; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				var t [3]float64
				for x := 0; x < 3; x++ {
					t[x] = float64(i)*lat[0][x] + float64(j)*lat[1][x] + float64(k)*lat[2][x]
				}
				r := norm3(t)
				if r > rmax {
					continue
				}
				real += math.Erfc(kappa*r) / r
			}
		}
	}

	//reciprocal sum, exp(-G^2/(4 kappa^2))/G^2 over G != 0
	gmax := 14.0 * kappa
	for i := 0; i < 3; i++ {
		bn := math.Sqrt(rec[i][0]*rec[i][0] + rec[i][1]*rec[i][1] + rec[i][2]*rec[i][2])
		n[i] = int(math.Ceil(gmax/bn)) + 1
	}
	recip := 0.0
	for i := -n[0]; i <= n[0]; i++ {
		for j := -n[1]; j <= n[1]; j++ {
			for k := -n[2]; k <= n[2]; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				var g [3]float64
				for x := 0; x < 3; x++ {
					g[x] = float64(i)*rec[0][x] + float64(j)*rec[1][x] + float64(k)*rec[2][x]
				}
				g2 := g[0]*g[0] + g[1]*g[1] + g[2]*g[2]
				if g2 > gmax*gmax {
					continue
				}
				recip += math.Exp(-g2/(4*kappa*kappa)) / g2
			}
		}
	}

	e := 0.5*real + (2*math.Pi/vol)*recip - kappa/math.Sqrt(math.Pi) - math.Pi/(2*kappa*kappa*vol)
	return -2 * e
}
