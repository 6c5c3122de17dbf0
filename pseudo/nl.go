/*
 * nl.go, part of goaft.
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

import (
	"math"
	"math/cmplx"

	"github.com/gocrystal/goaft/cell"
	"github.com/gocrystal/goaft/ftao"
	"gonum.org/v1/gonum/mat"
)

//PanicMsg is a message used for panics on structural misuse.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

//ErrProjectorIndex guards the two-projector limit of the radial
//profiles.
const ErrProjectorIndex = PanicMsg("goaft/pseudo: projector index out of range")

//projRadial returns the radial reciprocal-space profile of GTH
//projector i (1-based) of channel l at squared momentum k2. The k^l
//angular factor is folded into the caller's cartesian components, so
//the k=0 point stays finite. Only the first two projectors are covered.
func projRadial(l, i int, rl, k2 float64) float64 {
	x := k2 * rl * rl
	e := math.Exp(-0.5 * x)
	lf := float64(l)
	switch i {
	case 1:
		return 4 * math.Pow(math.Pi, 1.5) / math.Sqrt(math.Gamma(lf+1.5)) *
			math.Pow(rl, lf+1.5) * e
	case 2:
		pre := 4 * math.Pi * math.Sqrt(2) / (math.Pow(rl, lf+3.5) * math.Sqrt(math.Gamma(lf+3.5))) *
			math.Sqrt(math.Pi) * math.Pow(2*rl*rl, lf+1.5) / math.Pow(2, lf+2)
		return pre * e * (2*rl*rl*(lf+1.5) - k2*rl*rl*rl*rl)
	}
	panic(ErrProjectorIndex)
}

//NonlocalKpts returns, for each k-point, the separable nonlocal
//pseudopotential matrix
//
//	V_uv(k) = sum_a,lm,ij conj(B_i[u]) h_ij B_j[v]
//	B_i[v]  = (1/vol) sum_g conj(t_ilm[g] exp(-i k.R_a)) aoG[g,v]
//
//where t_ilm is the reciprocal-space projector profile at k+G and aoG
//the AO transforms at k+G. Atoms whose symbol is missing from the
//table carry no pseudopotential and are skipped. Channels beyond p, or
//with more than two projectors, produce an error.
func NonlocalKpts(c *cell.Cell, table []Param, g *cell.Grid, kpts [][3]float64) ([]*mat.CDense, error) {
	nao := c.NAO()
	res := make([]*mat.CDense, len(kpts))
	var aoG []complex128
	var err error
	b := make([][]complex128, 2) //one row per projector
	for i := range b {
		b[i] = make([]complex128, nao)
	}
	for ik, kpt := range kpts {
		v := mat.NewCDense(nao, nao, nil)
		aoG, err = ftao.AOFT(c, g.G, kpt, aoG)
		if err != nil {
			return nil, errDecorate(err, "NonlocalKpts")
		}
		for ia, at := range c.Atoms {
			pp, ok := Lookup(table, at.Symbol)
			if !ok {
				continue
			}
			for _, ch := range pp.NL {
				if ch.L > 1 {
					return nil, errorf(true, "goaft/pseudo.NonlocalKpts: atom %d channel l=%d; only s and p projectors are covered", ia, ch.L)
				}
				np := len(ch.H)
				if np > 2 {
					return nil, errorf(true, "goaft/pseudo.NonlocalKpts: atom %d has %d projectors in channel l=%d; at most 2 are covered", ia, np, ch.L)
				}
				for m := 0; m < 2*ch.L+1; m++ {
					for i := 0; i < np; i++ {
						projectorRow(g, kpt, at.Coord, ch.L, i+1, m, ch.R, aoG, b[i])
					}
					for i := 0; i < np; i++ {
						for j := 0; j < np; j++ {
							h := ch.H[i][j]
							if h == 0 {
								continue
							}
							for u := 0; u < nao; u++ {
								bu := cmplx.Conj(b[i][u]) * complex(h, 0)
								if bu == 0 {
									continue
								}
								for w := 0; w < nao; w++ {
									v.Set(u, w, v.At(u, w)+bu*b[j][w])
								}
							}
						}
					}
				}
			}
		}
		res[ik] = v
	}
	return res, nil
}

//projectorRow fills row[v] = (1/vol) sum_g conj(t[g] exp(-i k.R)) aoG[g,v]
//for one projector of one atom. The profile t is real, so conjugation
//only flips the center phase.
func projectorRow(g *cell.Grid, kpt, coord [3]float64, l, i, m int, rl float64,
	aoG []complex128, row []complex128) {
	nao := len(row)
	for v := range row {
		row[v] = 0
	}
	for gp := 0; gp < g.NG(); gp++ {
		gv := g.G.VecAt(gp)
		k := [3]float64{gv[0] + kpt[0], gv[1] + kpt[1], gv[2] + kpt[2]}
		k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
		ang := cell.SphCoef(l)
		if l == 1 {
			ang *= k[m]
		}
		t := projRadial(l, i, rl, k2) * ang
		if t == 0 {
			continue
		}
		kr := k[0]*coord[0] + k[1]*coord[1] + k[2]*coord[2]
		ph := complex(t, 0) * complex(math.Cos(kr), math.Sin(kr))
		for v := 0; v < nao; v++ {
			row[v] += ph * aoG[gp*nao+v]
		}
	}
	w := complex(g.Weight, 0)
	for v := range row {
		row[v] *= w
	}
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
