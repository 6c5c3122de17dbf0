/*
 * nuc.go, part of goaft.
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

package gint

import (
	"math"

	"github.com/gocrystal/goaft/cell"
)

//primScreen is the exponent bound beyond which a primitive pair is
//treated as zero.
const primScreen = 46.0

//tailScreen bounds theta*|P-C|^2 for the smooth charge; past it the
//smooth and steep potentials have both collapsed to the same 1/r tail
//and their difference is negligible.
const tailScreen = 60.0

//Engine evaluates lattice-summed three-center Coulomb integrals of AO
//pair densities with Gaussian charge distributions, for s and p shells.
type Engine struct{}

//NucVloc returns, for each k-point, the packed lower-triangle matrix
//
//	V_ij(k) = sum_a q_a [ (ij | g_a^smooth) - (ij | g_a^steep) ]
//
//where g_a^smooth and g_a^steep are the unit Gaussian charges centered
//on atom a carried by the smooth and steep fake cells (one s shell per
//atom, built with Cell.WithShells). Both distributions are summed over
//their lattice images; evaluating them as a difference cancels the
//long-range 1/r tails image by image, so the lattice sums converge.
//The pair index runs over the lower triangle, i*(i+1)/2 + j.
func (Engine) NucVloc(c, smooth, steep *cell.Cell, charges []float64, kpts [][3]float64) ([][]complex128, error) {
	if len(smooth.Shells) != len(c.Atoms) || len(steep.Shells) != len(c.Atoms) {
		return nil, errorf(true, "goaft/gint.NucVloc: fake cells must carry one s shell per atom, got %d and %d for %d atoms",
			len(smooth.Shells), len(steep.Shells), len(c.Atoms))
	}
	if len(charges) != len(c.Atoms) {
		return nil, errorf(true, "goaft/gint.NucVloc: %d charges for %d atoms", len(charges), len(c.Atoms))
	}
	for i := range c.Shells {
		if c.Shells[i].L > 1 {
			return nil, errorf(true, "goaft/gint.NucVloc: shell %d has l=%d; only s and p are supported", i, c.Shells[i].L)
		}
	}

	nij := c.NAOPair()
	out := make([][]complex128, len(kpts))
	for ik := range out {
		out[ik] = make([]complex128, nij)
	}
	aoloc := c.AOLoc()
	images := c.Images()
	//the charge image sum decays with the smooth exponent, which sets
	//the larger of the two cutoff radii
	cimages := smooth.Images()
	if c.Rcut() > smooth.Rcut() {
		cimages = c.Images()
	}

	vT := make([]float64, nij)
	for t := 0; t < images.NVecs(); t++ {
		tv := images.VecAt(t)
		for i := range vT {
			vT[i] = 0
		}
		for ish := range c.Shells {
			shi := &c.Shells[ish]
			A := c.Atoms[shi.Atom].Coord
			csi := cell.SphCoef(shi.L)
			for jsh := range c.Shells {
				shj := &c.Shells[jsh]
				if aoloc[jsh] > aoloc[ish]+shi.NFunc()-1 {
					continue //the whole shell pair lies above the triangle
				}
				B := c.Atoms[shj.Atom].Coord
				bp := [3]float64{B[0] + tv[0], B[1] + tv[1], B[2] + tv[2]}
				dx, dy, dz := A[0]-bp[0], A[1]-bp[1], A[2]-bp[2]
				rab2 := dx*dx + dy*dy + dz*dz
				csj := cell.SphCoef(shj.L)
				ltot := shi.L + shj.L
				for ip, ai := range shi.Exps {
					for jp, aj := range shj.Exps {
						p := ai + aj
						mu := ai * aj / p
						if mu*rab2 > primScreen {
							continue
						}
						pref := shi.Coefs[ip] * shj.Coefs[jp] * csi * csj * math.Exp(-mu*rab2)
						P := [3]float64{
							(ai*A[0] + aj*bp[0]) / p,
							(ai*A[1] + aj*bp[1]) / p,
							(ai*A[2] + aj*bp[2]) / p,
						}
						var rsum [3][3][3]float64
						any := hermiteChargeSum(c, smooth, steep, charges, cimages, p, pref, P, ltot, &rsum)
						if !any {
							continue
						}
						contractPair(vT, &rsum, shi, shj, A, bp, P, p, aoloc[ish], aoloc[jsh])
					}
				}
			}
		}
		for ik, k := range kpts {
			kt := k[0]*tv[0] + k[1]*tv[1] + k[2]*tv[2]
			ph := complex(math.Cos(kt), math.Sin(kt))
			row := out[ik]
			for idx, v := range vT {
				if v != 0 {
					row[idx] += complex(v, 0) * ph
				}
			}
		}
	}
	return out, nil
}

//hermiteChargeSum accumulates the Hermite Coulomb tensor R_tuv of one
//primitive pair against every smeared charge and its lattice images.
//The smooth and steep contributions are evaluated together so the sum
//can be screened on their difference.
func hermiteChargeSum(c, smooth, steep *cell.Cell, charges []float64, cimages *cell.Vecs,
	p, pref float64, P [3]float64, ltot int, rsum *[3][3][3]float64) bool {
	any := false
	var fm [3]float64
	var gm [3]float64
	for ia := range c.Atoms {
		q := charges[ia]
		if q == 0 {
			continue
		}
		etaS := smooth.Shells[ia].Exps[0]
		cfS := smooth.Shells[ia].Coefs[0] * cell.HalfSphNorm
		etaP := steep.Shells[ia].Exps[0]
		cfP := steep.Shells[ia].Coefs[0] * cell.HalfSphNorm
		thS := p * etaS / (p + etaS)
		thP := p * etaP / (p + etaP)
		R := c.Atoms[ia].Coord
		for tc := 0; tc < cimages.NVecs(); tc++ {
			cv := cimages.VecAt(tc)
			C := [3]float64{R[0] + cv[0], R[1] + cv[1], R[2] + cv[2]}
			X := P[0] - C[0]
			Y := P[1] - C[1]
			Z := P[2] - C[2]
			pc2 := X*X + Y*Y + Z*Z
			if thS*pc2 > tailScreen {
				continue
			}
			for m := 0; m <= ltot; m++ {
				gm[m] = 0
			}
			for pass := 0; pass < 2; pass++ {
				eta, cf, th := etaS, cfS, thS
				sign := 1.0
				if pass == 1 {
					eta, cf, th = etaP, cfP, thP
					sign = -1
				}
				w := sign * q * cf * pref * (2 * math.Pi / p) * math.Pow(math.Pi/eta, 1.5) * math.Sqrt(th/p)
				BoysUpTo(ltot, th*pc2, fm[:])
				mth := 1.0
				for m := 0; m <= ltot; m++ {
					gm[m] += w * mth * fm[m]
					mth *= -2 * th
				}
			}
			any = true
			rsum[0][0][0] += gm[0]
			if ltot >= 1 {
				rsum[1][0][0] += X * gm[1]
				rsum[0][1][0] += Y * gm[1]
				rsum[0][0][1] += Z * gm[1]
			}
			if ltot >= 2 {
				rsum[2][0][0] += X*X*gm[2] + gm[1]
				rsum[0][2][0] += Y*Y*gm[2] + gm[1]
				rsum[0][0][2] += Z*Z*gm[2] + gm[1]
				rsum[1][1][0] += X * Y * gm[2]
				rsum[1][0][1] += X * Z * gm[2]
				rsum[0][1][1] += Y * Z * gm[2]
			}
		}
	}
	return any
}

//contractPair folds the Hermite tensor with the McMurchie-Davidson
//expansion coefficients of each angular component of the shell pair and
//adds the results into the packed output.
func contractPair(vT []float64, rsum *[3][3][3]float64, shi, shj *cell.Shell, A, B, P [3]float64,
	p float64, iao, jao int) {
	half := 1 / (2 * p)
	ni, nj := shi.NFunc(), shj.NFunc()
	for ci := 0; ci < ni; ci++ {
		i := iao + ci
		for cj := 0; cj < nj; cj++ {
			j := jao + cj
			if j > i {
				continue
			}
			//per-axis Hermite expansion coefficients
			var e [3][3]float64 //axis, order
			for ax := 0; ax < 3; ax++ {
				pi := shi.L == 1 && ci == ax
				pj := shj.L == 1 && cj == ax
				switch {
				case pi && pj:
					pa, pb := P[ax]-A[ax], P[ax]-B[ax]
					e[ax][0] = pa*pb + half
					e[ax][1] = (pa + pb) * half
					e[ax][2] = half * half
				case pi:
					e[ax][0] = P[ax] - A[ax]
					e[ax][1] = half
				case pj:
					e[ax][0] = P[ax] - B[ax]
					e[ax][1] = half
				default:
					e[ax][0] = 1
				}
			}
			ltot := shi.L + shj.L
			var val float64
			for t := 0; t <= ltot; t++ {
				if e[0][t] == 0 {
					continue
				}
				for u := 0; u+t <= ltot; u++ {
					if e[1][u] == 0 {
						continue
					}
					for v := 0; v+u+t <= ltot; v++ {
						if e[2][v] == 0 {
							continue
						}
						val += e[0][t] * e[1][u] * e[2][v] * rsum[t][u][v]
					}
				}
			}
			vT[i*(i+1)/2+j] += val
		}
	}
}
