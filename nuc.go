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

package aft

import (
	"math"
	"math/cmplx"

	"github.com/gocrystal/goaft/cell"
	"github.com/gocrystal/goaft/ftao"
	"github.com/gocrystal/goaft/pseudo"
)

//GetNuc returns the periodic nuclear attraction matrix at one k-point,
//with the G=0 component removed by the neutralizing background
//convention.
func (df *AFTDF) GetNuc(kpt [3]float64) (*Potential, error) {
	vs, err := df.GetNucKpts([][3]float64{kpt})
	if err != nil {
		return nil, errDecorate(err, "GetNuc")
	}
	return vs[0], nil
}

//GetNucKpts returns the nuclear attraction matrix at each k-point.
//
//With a nonzero eta the potential is split Ewald-fashion: the
//difference between the point nuclei and a smooth gaussian model of
//exponent eta is summed in real space, and the smooth model is solved
//by Poisson's equation on the plane-wave grid. With ZeroEta everything
//stays in reciprocal space.
func (df *AFTDF) GetNucKpts(kpts [][3]float64) ([]*Potential, error) {
	packed, err := df.nucPacked(kpts)
	if err != nil {
		return nil, errDecorate(err, "GetNucKpts")
	}
	nao := df.cell.NAO()
	out := make([]*Potential, len(kpts))
	for k := range kpts {
		out[k] = potentialFromPacked(packed[k], nao, gammaPoint(kpts[k]))
	}
	return out, nil
}

//nucPacked computes the packed lower triangle of the nuclear
//attraction (or, for a pseudopotential cell, of the long-range local
//part) at each k-point.
func (df *AFTDF) nucPacked(kpts [][3]float64) ([][]complex128, error) {
	c := df.cell
	nij := c.NAOPair()
	charges := c.AtomCharges()

	var vj [][]complex128
	var vG []complex128
	if df.eta == 0 {
		vj = make([][]complex128, len(kpts))
		for k := range vj {
			vj[k] = make([]complex128, nij)
		}
		vG = df.vlocLongRange()
	} else {
		smooth, steep, err := df.fakeNucCells()
		if err != nil {
			return nil, errDecorate(err, "nucPacked")
		}
		vj, err = df.engine.NucVloc(c, smooth, steep, charges, kpts)
		if err != nil {
			return nil, errDecorate(err, "nucPacked")
		}
		df.log.Printf("vnuc pass1: real-space lattice sums done")

		//the real-space part carries its own average; the background
		//convention wants the G=0 component of the total to vanish
		nucbar := 0.0
		for ia, z := range charges {
			nucbar += z / smooth.Shells[ia].Exps[0]
		}
		nucbar *= math.Pi / c.Volume()
		ovlp, err := ftao.OverlapKpts(c, kpts)
		if err != nil {
			return nil, errDecorate(err, "nucPacked")
		}
		nao := c.NAO()
		for k := range kpts {
			for i := 0; i < nao; i++ {
				for j := 0; j <= i; j++ {
					vj[k][i*(i+1)/2+j] += complex(nucbar, 0) * ovlp[k].At(i, j)
				}
			}
		}

		//long range: the smooth model solved on the plane-wave grid
		aoaux, err := ftao.AOFT(smooth, df.grid.G, [3]float64{}, nil)
		if err != nil {
			return nil, errDecorate(err, "nucPacked")
		}
		coul := df.WeightedCoulG([3]float64{}, false)
		ng := df.grid.NG()
		natm := len(c.Atoms)
		vG = make([]complex128, ng)
		for g := 0; g < ng; g++ {
			var s complex128
			for ia := 0; ia < natm; ia++ {
				s += complex(-charges[ia], 0) * aoaux[g*natm+ia]
			}
			vG[g] = s * complex(coul[g], 0)
		}
	}

	if err := df.contractVG(vG, kpts, vj); err != nil {
		return nil, errDecorate(err, "nucPacked")
	}
	df.log.Printf("vnuc pass2: reciprocal-space contraction done")
	return vj, nil
}

//contractVG folds a reciprocal-space potential into the packed AO
//matrices: vj[k][ij] += sum_G conj(vG[G]) A_ij(G).
func (df *AFTDF) contractVG(vG []complex128, kpts [][3]float64, vj [][]complex128) error {
	it, err := df.FTLoop([3]float64{}, kpts, ftao.S2)
	if err != nil {
		return err
	}
	for {
		blk, err := it.Next()
		if err != nil {
			if IsLastBlock(err) {
				break
			}
			return err
		}
		nij := blk.Nij
		for k := range kpts {
			ao := blk.AO[k]
			row := vj[k]
			for g := blk.G0; g < blk.G1; g++ {
				v := cmplx.Conj(vG[g])
				if v == 0 {
					continue
				}
				off := (g - blk.G0) * nij
				for ij := 0; ij < nij; ij++ {
					row[ij] += v * ao[off+ij]
				}
			}
		}
	}
	return nil
}

//fakeNucCells builds the smooth and steep gaussian models of the
//nuclear charge distribution as synthetic one-shell-per-atom cells.
//The steep exponents come from the pseudopotential local ranges where
//available and are effectively point-like otherwise.
func (df *AFTDF) fakeNucCells() (smooth, steep *cell.Cell, err error) {
	c := df.cell
	ssh := make([]cell.Shell, len(c.Atoms))
	psh := make([]cell.Shell, len(c.Atoms))
	for ia := range c.Atoms {
		ssh[ia] = fakeShell(ia, df.eta)
		eta := 1e16
		if p, ok := pseudo.Lookup(df.cfg.Pseudo, c.Atoms[ia].Symbol); ok {
			eta = 0.5 / (p.Rloc * p.Rloc)
		}
		psh[ia] = fakeShell(ia, eta)
	}
	smooth, err = c.WithShells(ssh)
	if err != nil {
		return nil, nil, err
	}
	steep, err = c.WithShells(psh)
	if err != nil {
		return nil, nil, err
	}
	return smooth, steep, nil
}

//fakeShell is a unit-charge gaussian of exponent eta on atom ia.
func fakeShell(ia int, eta float64) cell.Shell {
	norm := cell.HalfSphNorm / cell.GaussInt(2, eta)
	return cell.Shell{Atom: ia, L: 0, Exps: []float64{eta}, Coefs: []float64{norm}}
}

//vlocLongRange builds the reciprocal-space local potential of every
//center for the pure plane-wave treatment: the pseudopotential erf
//part where parameters exist, the bare Coulomb kernel otherwise, with
//the divergent G=0 piece left to the background.
func (df *AFTDF) vlocLongRange() []complex128 {
	c := df.cell
	g2 := cell.G2(df.grid.G)
	si := c.StructureFactor(df.grid.G)
	w := df.grid.Weight
	vG := make([]complex128, len(g2))
	for ia, at := range c.Atoms {
		rloc := 0.0
		if p, ok := pseudo.Lookup(df.cfg.Pseudo, at.Symbol); ok {
			rloc = p.Rloc
		}
		part1 := pseudo.VlocGPart1(at.Charge, rloc, g2)
		for g := range g2 {
			vG[g] += complex(-part1[g]*w, 0) * si[ia][g]
		}
	}
	return vG
}
