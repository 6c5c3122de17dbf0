/*
 * ftao_test.go, part of goaft.
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

package ftao

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/gocrystal/goaft/cell"
)

//ftCell uses tight single-primitive shells in a roomy box, so the
//lattice image contributions are negligible and the free-molecule
//values serve as oracles.
func ftCell(Te *testing.T) *cell.Cell {
	c, err := cell.New(cell.Params{
		Atoms: []cell.Atom{
			{Symbol: "H", Charge: 1, Coord: [3]float64{0, 0, 0}},
			{Symbol: "H", Charge: 1, Coord: [3]float64{1.2, 0.3, 0.5}},
		},
		Shells: []cell.Shell{
			{Atom: 0, L: 0, Exps: []float64{1.5}, Coefs: []float64{1.0}},
			{Atom: 1, L: 0, Exps: []float64{1.2}, Coefs: []float64{1.0}},
			{Atom: 1, L: 1, Exps: []float64{1.1}, Coefs: []float64{1.0}},
		},
		Lattice:   [3][3]float64{{6, 0, 0}, {0, 6, 0}, {0, 0, 6}},
		Precision: 1e-10,
	})
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func TestOverlapGamma(Te *testing.T) {
	c := ftCell(Te)
	smats, err := OverlapKpts(c, [][3]float64{{0, 0, 0}})
	if err != nil {
		Te.Fatal(err)
	}
	s := smats[0]
	nao := c.NAO()
	//normalized shells have unit self-overlap up to image tails
	for i := 0; i < nao; i++ {
		v := s.At(i, i)
		if math.Abs(real(v)-1) > 1e-6 || math.Abs(imag(v)) > 1e-12 {
			Te.Error("diagonal overlap not 1:", i, v)
		}
	}
	//real symmetric at the gamma point
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			if math.Abs(imag(s.At(i, j))) > 1e-12 {
				Te.Error("gamma overlap not real:", i, j, s.At(i, j))
			}
			if math.Abs(real(s.At(i, j))-real(s.At(j, i))) > 1e-12 {
				Te.Error("gamma overlap not symmetric:", i, j)
			}
		}
	}
	fmt.Println("s-s overlap between the atoms:", real(s.At(0, 1)))
	if real(s.At(0, 1)) <= 0 || real(s.At(0, 1)) >= 1 {
		Te.Error("off-diagonal s-s overlap out of (0,1):", s.At(0, 1))
	}
}

func TestPackedVsFull(Te *testing.T) {
	c := ftCell(Te)
	g, err := c.Grid([3]int{1, 1, 0})
	if err != nil {
		Te.Fatal(err)
	}
	shls := FullShells(c)
	full, err := PairFT(c, g.G, [3]float64{}, [3]float64{}, shls, S1, nil)
	if err != nil {
		Te.Fatal(err)
	}
	packed, err := PairFT(c, g.G, [3]float64{}, [3]float64{}, shls, S2, nil)
	if err != nil {
		Te.Fatal(err)
	}
	nao := c.NAO()
	if len(packed) != g.NG()*c.NAOPair() {
		Te.Fatal("wrong packed length:", len(packed))
	}
	for gp := 0; gp < g.NG(); gp++ {
		for i := 0; i < nao; i++ {
			for j := 0; j <= i; j++ {
				pv := packed[gp*c.NAOPair()+i*(i+1)/2+j]
				fv := full[gp*nao*nao+i*nao+j]
				if cmplx.Abs(pv-fv) > 1e-12 {
					Te.Error("packed and full transforms disagree:", gp, i, j, pv, fv)
				}
			}
		}
	}
}

func TestConjugation(Te *testing.T) {
	c := ftCell(Te)
	//mesh {1,0,0} gives the points -b1, 0, +b1 in order
	g, err := c.Grid([3]int{1, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	shls := FullShells(c)
	out, err := PairFT(c, g.G, [3]float64{}, [3]float64{}, shls, S1, nil)
	if err != nil {
		Te.Fatal(err)
	}
	nao := c.NAO()
	//A_ij(G) = conj(A_ji(-G)) for real orbitals at zero momentum transfer
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			a := out[2*nao*nao+i*nao+j]
			b := cmplx.Conj(out[0*nao*nao+j*nao+i])
			if cmplx.Abs(a-b) > 1e-12 {
				Te.Error("conjugation symmetry broken:", i, j, a, b)
			}
		}
	}
}

func TestAOFT(Te *testing.T) {
	c := ftCell(Te)
	gv := cell.ZeroVecs(1)
	out, err := AOFT(c, gv, [3]float64{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	//G=0 value of the s orbital is its spatial integral
	a := 1.5
	want := cell.GTONorm(0, a) * cell.HalfSphNorm * math.Pow(math.Pi/a, 1.5)
	if cmplx.Abs(out[0]-complex(want, 0)) > 1e-12 {
		Te.Error("s transform at G=0 off:", out[0], want)
	}
	//p orbitals are odd, so they integrate to zero
	for i := 2; i < 5; i++ {
		if cmplx.Abs(out[i]) > 1e-14 {
			Te.Error("p transform at G=0 not zero:", i, out[i])
		}
	}
	//away from G=0 the p components pick up a finite value
	out, err = AOFT(c, gv, [3]float64{0.3, 0, 0}, out)
	if err != nil {
		Te.Fatal(err)
	}
	if cmplx.Abs(out[2]) < 1e-8 {
		Te.Error("px transform at finite k vanished:", out[2])
	}
	fmt.Println("px transform at k=(0.3,0,0):", out[2])
}

func TestAngularMomentumLimit(Te *testing.T) {
	c := ftCell(Te)
	d, err := c.WithShells([]cell.Shell{
		{Atom: 0, L: 2, Exps: []float64{1.0}, Coefs: []float64{1.0}},
	})
	if err != nil {
		Te.Fatal(err)
	}
	gv := cell.ZeroVecs(1)
	if _, err := PairFT(d, gv, [3]float64{}, [3]float64{}, FullShells(d), S1, nil); err == nil {
		Te.Error("expected an error for a d shell in PairFT")
	}
	if _, err := AOFT(d, gv, [3]float64{}, nil); err == nil {
		Te.Error("expected an error for a d shell in AOFT")
	}
}

func TestPackedRangePanic(Te *testing.T) {
	c := ftCell(Te)
	defer func() {
		if r := recover(); r != ErrPackedShellRange {
			Te.Error("expected the packed shell range panic, got:", r)
		}
	}()
	gv := cell.ZeroVecs(1)
	PairFT(c, gv, [3]float64{}, [3]float64{}, [4]int{0, 2, 1, 2}, S2, nil)
	Te.Error("no panic for a packed range not starting at shell 0")
}
