/*
 * ftao.go, part of goaft.
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

//Package ftao computes analytic Fourier transforms of atomic-orbital
//pair densities of a periodic cell over blocks of reciprocal-space grid
//points. The pair transforms are Bloch-summed over lattice images. The
//reference kernels cover s and p shells; higher angular momentum is the
//business of an external integral library.
package ftao

import (
	"math"
	"math/cmplx"

	"github.com/gocrystal/goaft/cell"
	"gonum.org/v1/gonum/mat"
)

//Sym selects the permutation symmetry of the pair output.
type Sym int

const (
	//S1 stores every (i,j) pair.
	S1 Sym = iota
	//S2 stores only the unique pairs j <= i, halving the storage.
	S2
)

//primScreen is the exponent bound beyond which a primitive pair (or a
//plane-wave damping factor) is treated as zero.
const primScreen = 46.0

//NPair returns the number of AO pairs addressed by the shell ranges
//shls = [i0, i1, j0, j1) under the given symmetry.
func NPair(c *cell.Cell, shls [4]int, sym Sym) int {
	aoloc := c.AOLoc()
	if sym == S2 {
		i0, i1 := aoloc[shls[0]], aoloc[shls[1]]
		return i1*(i1+1)/2 - i0*(i0+1)/2
	}
	ni := aoloc[shls[1]] - aoloc[shls[0]]
	nj := aoloc[shls[3]] - aoloc[shls[2]]
	return ni * nj
}

//FullShells returns the shell ranges covering the whole cell basis.
func FullShells(c *cell.Cell) [4]int {
	n := c.NShells()
	return [4]int{0, n, 0, n}
}

//PairFT computes the Fourier transform of every AO pair density of the
//cell at every grid point of gv:
//
//	out[g*nij+pair] = sum_T exp(i kptj.T) Int mu_i(r) mu_j(r-T) exp(-i (G_g+q).r) dr
//
//summed over the lattice translations T of the cell. For a single
//k-point pair (k_i, k_j) the momentum transfer is q = k_j - k_i and
//kptj = k_j. With S2 the pairs are packed over the lower triangle,
//which requires shls[2] == 0 (the call panics otherwise). The result is
//written into out, which is reused when large enough and reallocated
//otherwise; the returned slice is valid until the next call that shares
//the buffer.
func PairFT(c *cell.Cell, gv *cell.Vecs, q, kptj [3]float64, shls [4]int, sym Sym, out []complex128) ([]complex128, error) {
	if sym == S2 && shls[2] != 0 {
		panic(ErrPackedShellRange)
	}
	for ish := shls[0]; ish < shls[1]; ish++ {
		if c.Shells[ish].L > 1 {
			return nil, errorf(true, "goaft/ftao.PairFT: shell %d has l=%d; only s and p are supported by the reference generator", ish, c.Shells[ish].L)
		}
	}
	for jsh := shls[2]; jsh < shls[3]; jsh++ {
		if c.Shells[jsh].L > 1 {
			return nil, errorf(true, "goaft/ftao.PairFT: shell %d has l=%d; only s and p are supported by the reference generator", jsh, c.Shells[jsh].L)
		}
	}
	ng := gv.NVecs()
	nij := NPair(c, shls, sym)
	need := ng * nij
	if cap(out) < need {
		out = make([]complex128, need)
	}
	out = out[:need]
	for i := range out {
		out[i] = 0
	}

	//grid points shifted by the momentum transfer
	gq := make([][3]float64, ng)
	for g := 0; g < ng; g++ {
		v := gv.VecAt(g)
		gq[g] = [3]float64{v[0] + q[0], v[1] + q[1], v[2] + q[2]}
	}

	aoloc := c.AOLoc()
	i0ao := aoloc[shls[0]]
	j0ao := aoloc[shls[2]]
	njao := aoloc[shls[3]] - j0ao
	tri0 := i0ao * (i0ao + 1) / 2
	images := c.Images()

	for ish := shls[0]; ish < shls[1]; ish++ {
		shi := &c.Shells[ish]
		A := c.Atoms[shi.Atom].Coord
		csi := cell.SphCoef(shi.L)
		for jsh := shls[2]; jsh < shls[3]; jsh++ {
			shj := &c.Shells[jsh]
			if sym == S2 && aoloc[jsh] > aoloc[ish]+shi.NFunc()-1 {
				continue //the whole shell pair lies above the triangle
			}
			B := c.Atoms[shj.Atom].Coord
			csj := cell.SphCoef(shj.L)
			for t := 0; t < images.NVecs(); t++ {
				tv := images.VecAt(t)
				bp := [3]float64{B[0] + tv[0], B[1] + tv[1], B[2] + tv[2]}
				dx, dy, dz := A[0]-bp[0], A[1]-bp[1], A[2]-bp[2]
				rab2 := dx*dx + dy*dy + dz*dz
				kt := kptj[0]*tv[0] + kptj[1]*tv[1] + kptj[2]*tv[2]
				bloch := cmplx.Exp(complex(0, kt))
				for ip, ai := range shi.Exps {
					for jp, aj := range shj.Exps {
						p := ai + aj
						mu := ai * aj / p
						if mu*rab2 > primScreen {
							continue
						}
						pref := shi.Coefs[ip] * shj.Coefs[jp] * csi * csj *
							math.Pow(math.Pi/p, 1.5) * math.Exp(-mu*rab2)
						P := [3]float64{
							(ai*A[0] + aj*bp[0]) / p,
							(ai*A[1] + aj*bp[1]) / p,
							(ai*A[2] + aj*bp[2]) / p,
						}
						half := 1 / (2 * p)
						for g := 0; g < ng; g++ {
							k := gq[g]
							k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
							damp := k2 / (4 * p)
							if damp > primScreen {
								continue
							}
							kp := k[0]*P[0] + k[1]*P[1] + k[2]*P[2]
							base := complex(pref*math.Exp(-damp), 0) *
								cmplx.Exp(complex(0, -kp)) * bloch
							row := out[g*nij:]
							accumulatePair(row, base, shi.L, shj.L, A, bp, P, k, half,
								aoloc[ish], aoloc[jsh], sym, i0ao, j0ao, njao, tri0)
						}
					}
				}
			}
		}
	}
	return out, nil
}

//accumulatePair adds the angular components of one primitive pair at
//one grid point into the packed pair row.
func accumulatePair(row []complex128, base complex128, li, lj int, A, B, P, k [3]float64, half float64,
	iao, jao int, sym Sym, i0ao, j0ao, njao, tri0 int) {
	ni, nj := 2*li+1, 2*lj+1
	for ci := 0; ci < ni; ci++ {
		i := iao + ci
		for cj := 0; cj < nj; cj++ {
			j := jao + cj
			if sym == S2 && j > i {
				continue
			}
			v := base
			if li == 1 && lj == 1 && ci == cj {
				mb := complex(P[ci]-A[ci], -k[ci]*half)
				mk := complex(P[cj]-B[cj], -k[cj]*half)
				v *= mb*mk + complex(half, 0)
			} else {
				if li == 1 {
					v *= complex(P[ci]-A[ci], -k[ci]*half)
				}
				if lj == 1 {
					v *= complex(P[cj]-B[cj], -k[cj]*half)
				}
			}
			var idx int
			if sym == S2 {
				idx = i*(i+1)/2 + j - tri0
			} else {
				idx = (i-i0ao)*njao + (j - j0ao)
			}
			row[idx] += v
		}
	}
}

//AOFT computes the Fourier transform of every single atomic orbital at
//kpt+G for every grid point of gv:
//
//	out[g*nao+i] = Int mu_i(r) exp(-i (kpt+G_g).r) dr
//
//For grid points on the reciprocal lattice this equals the transform of
//the Bloch orbital over one unit cell, so no image sum is needed.
func AOFT(c *cell.Cell, gv *cell.Vecs, kpt [3]float64, out []complex128) ([]complex128, error) {
	for i := range c.Shells {
		if c.Shells[i].L > 1 {
			return nil, errorf(true, "goaft/ftao.AOFT: shell %d has l=%d; only s and p are supported", i, c.Shells[i].L)
		}
	}
	ng := gv.NVecs()
	nao := c.NAO()
	need := ng * nao
	if cap(out) < need {
		out = make([]complex128, need)
	}
	out = out[:need]
	aoloc := c.AOLoc()
	for ish := range c.Shells {
		sh := &c.Shells[ish]
		A := c.Atoms[sh.Atom].Coord
		cs := cell.SphCoef(sh.L)
		for g := 0; g < ng; g++ {
			v := gv.VecAt(g)
			k := [3]float64{v[0] + kpt[0], v[1] + kpt[1], v[2] + kpt[2]}
			k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
			ka := k[0]*A[0] + k[1]*A[1] + k[2]*A[2]
			ph := cmplx.Exp(complex(0, -ka))
			row := out[g*nao:]
			if sh.L == 0 {
				var val float64
				for ip, a := range sh.Exps {
					damp := k2 / (4 * a)
					if damp > primScreen {
						continue
					}
					val += sh.Coefs[ip] * cs * math.Pow(math.Pi/a, 1.5) * math.Exp(-damp)
				}
				row[aoloc[ish]] += complex(val, 0) * ph
				continue
			}
			//the p moment -i*k_c/(2a) depends on the primitive
			for cc := 0; cc < 3; cc++ {
				var pv complex128
				for ip, a := range sh.Exps {
					damp := k2 / (4 * a)
					if damp > primScreen {
						continue
					}
					radial := sh.Coefs[ip] * cs * math.Pow(math.Pi/a, 1.5) * math.Exp(-damp)
					pv += complex(radial, 0) * complex(0, -k[cc]/(2*a))
				}
				row[aoloc[ish]+cc] += pv * ph
			}
		}
	}
	return out, nil
}

//OverlapKpts returns the periodic overlap matrix at each k-point,
//obtained from the pair transform at the single grid point G=0.
func OverlapKpts(c *cell.Cell, kpts [][3]float64) ([]*mat.CDense, error) {
	gv := cell.ZeroVecs(1)
	shls := FullShells(c)
	nao := c.NAO()
	var buf []complex128
	var err error
	res := make([]*mat.CDense, len(kpts))
	for ik, k := range kpts {
		buf, err = PairFT(c, gv, [3]float64{}, k, shls, S1, buf)
		if err != nil {
			return nil, errDecorate(err, "OverlapKpts")
		}
		s := mat.NewCDense(nao, nao, nil)
		for i := 0; i < nao; i++ {
			for j := 0; j < nao; j++ {
				s.Set(i, j, buf[i*nao+j])
			}
		}
		res[ik] = s
	}
	return res, nil
}

//errDecorate asserts that the error implements the library Error
//interface and decorates it with the caller's name.
func errDecorate(err error, caller string) error {
	err2, ok := err.(interface {
		Error() string
		Decorate(string) []string
	})
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2.(error)
}
