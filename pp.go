/*
 * pp.go, part of goaft.
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
	"github.com/gocrystal/goaft/cell"
	"github.com/gocrystal/goaft/pseudo"
)

//GetPP returns the periodic GTH pseudopotential matrix at one k-point:
//the long-range local part, the short-range polynomial part and the
//separable nonlocal term, with the G=0 component removed.
func (df *AFTDF) GetPP(kpt [3]float64) (*Potential, error) {
	vs, err := df.GetPPKpts([][3]float64{kpt})
	if err != nil {
		return nil, errDecorate(err, "GetPP")
	}
	return vs[0], nil
}

//GetPPKpts returns the pseudopotential matrix at each k-point. Atoms
//whose symbol is missing from the parameter table are treated as bare
//nuclei.
func (df *AFTDF) GetPPKpts(kpts [][3]float64) ([]*Potential, error) {
	if df.cfg.Pseudo == nil {
		return nil, errorf(true, "goaft.GetPPKpts: no pseudopotential parameters configured")
	}
	vloc, err := df.nucPacked(kpts)
	if err != nil {
		return nil, errDecorate(err, "GetPPKpts")
	}
	vloc2, err := df.ppLocPart2Packed(kpts)
	if err != nil {
		return nil, errDecorate(err, "GetPPKpts")
	}
	for k := range kpts {
		for ij := range vloc[k] {
			vloc[k][ij] += vloc2[k][ij]
		}
	}
	vnl, err := pseudo.NonlocalKpts(df.cell, df.cfg.Pseudo, df.grid, kpts)
	if err != nil {
		return nil, errDecorate(err, "GetPPKpts")
	}
	nao := df.cell.NAO()
	for k := range kpts {
		for i := 0; i < nao; i++ {
			for j := 0; j <= i; j++ {
				vloc[k][i*(i+1)/2+j] += vnl[k].At(i, j)
			}
		}
	}
	out := make([]*Potential, len(kpts))
	for k := range kpts {
		out[k] = potentialFromPacked(vloc[k], nao, gammaPoint(kpts[k]))
	}
	return out, nil
}

//PPLocPart2Kpts returns only the short-range polynomial part of the
//local pseudopotential at each k-point, solved on the plane-wave grid.
func (df *AFTDF) PPLocPart2Kpts(kpts [][3]float64) ([]*Potential, error) {
	packed, err := df.ppLocPart2Packed(kpts)
	if err != nil {
		return nil, errDecorate(err, "PPLocPart2Kpts")
	}
	nao := df.cell.NAO()
	out := make([]*Potential, len(kpts))
	for k := range kpts {
		out[k] = potentialFromPacked(packed[k], nao, gammaPoint(kpts[k]))
	}
	return out, nil
}

func (df *AFTDF) ppLocPart2Packed(kpts [][3]float64) ([][]complex128, error) {
	c := df.cell
	nij := c.NAOPair()
	vj := make([][]complex128, len(kpts))
	for k := range vj {
		vj[k] = make([]complex128, nij)
	}
	g2 := cell.G2(df.grid.G)
	si := c.StructureFactor(df.grid.G)
	w := df.grid.Weight
	vG := make([]complex128, len(g2))
	found := false
	for ia, at := range c.Atoms {
		p, ok := pseudo.Lookup(df.cfg.Pseudo, at.Symbol)
		if !ok || len(p.C) == 0 {
			continue
		}
		found = true
		part2 := pseudo.VlocGPart2(p.Rloc, p.C, g2)
		for g := range g2 {
			vG[g] += complex(-part2[g]*w, 0) * si[ia][g]
		}
	}
	if !found {
		return vj, nil
	}
	if err := df.contractVG(vG, kpts, vj); err != nil {
		return nil, errDecorate(err, "ppLocPart2Packed")
	}
	return vj, nil
}
