/*
 * nuc_test.go, part of goaft.
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
	"fmt"
	"math/cmplx"
	"testing"

	"github.com/gocrystal/goaft/cell"
	"github.com/gocrystal/goaft/pseudo"
)

//TestNucEtaIndependence checks the Ewald split of the nuclear
//attraction: the real-space and reciprocal-space halves move with eta,
//their sum must not.
func TestNucEtaIndependence(Te *testing.T) {
	mesh := [3]int{12, 12, 12}
	va, err := testDF(Te, mesh, Config{Eta: 2.0}).GetNuc([3]float64{})
	if err != nil {
		Te.Fatal(err)
	}
	vb, err := testDF(Te, mesh, Config{Eta: 3.0}).GetNuc([3]float64{})
	if err != nil {
		Te.Fatal(err)
	}
	nao := va.NAO()
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			d := real(va.At(i, j)) - real(vb.At(i, j))
			if d > 1e-4 || d < -1e-4 {
				Te.Error("nuclear matrix depends on eta at", i, j, ":", va.At(i, j), vb.At(i, j))
			}
		}
	}
	fmt.Println("vnuc diagonal:", real(va.At(0, 0)), real(va.At(2, 2)))
	//attraction: the diagonal must be negative
	for i := 0; i < nao; i++ {
		if real(va.At(i, i)) >= 0 {
			Te.Error("nonnegative attraction diagonal at", i, ":", va.At(i, i))
		}
	}
	if !va.IsReal() {
		Te.Error("gamma point potential not stored as a real matrix")
	}
}

func TestNucSingleVsBatch(Te *testing.T) {
	df := testDF(Te, [3]int{8, 8, 8}, Config{Eta: 2.0})
	k := [3]float64{0.2, -0.1, 0.3}
	single, err := df.GetNuc(k)
	if err != nil {
		Te.Fatal(err)
	}
	batch, err := df.GetNucKpts([][3]float64{{0, 0, 0}, k})
	if err != nil {
		Te.Fatal(err)
	}
	nao := single.NAO()
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			if cmplx.Abs(single.At(i, j)-batch[1].At(i, j)) > 1e-12 {
				Te.Error("batch and single evaluation disagree at", i, j)
			}
		}
	}
	if single.IsReal() {
		Te.Error("potential at finite k stored as real")
	}
}

//TestNucKInversion checks V(-k) = conj(V(k)), which holds for any real
//periodic potential.
func TestNucKInversion(Te *testing.T) {
	df := testDF(Te, [3]int{8, 8, 8}, Config{Eta: 2.0})
	k := [3]float64{0.3, 0.1, -0.2}
	mk := [3]float64{-0.3, -0.1, 0.2}
	vs, err := df.GetNucKpts([][3]float64{k, mk})
	if err != nil {
		Te.Fatal(err)
	}
	nao := vs[0].NAO()
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			if cmplx.Abs(vs[1].At(i, j)-cmplx.Conj(vs[0].At(i, j))) > 1e-10 {
				Te.Error("k inversion symmetry broken at", i, j)
			}
		}
	}
}

func ppCell(Te *testing.T) *cell.Cell {
	c, err := cell.New(cell.Params{
		Atoms: []cell.Atom{
			{Symbol: "C", Charge: 4, Coord: [3]float64{0, 0, 0}},
		},
		Shells: []cell.Shell{
			{Atom: 0, L: 0, Exps: []float64{2.0, 0.9}, Coefs: []float64{0.5, 0.6}},
			{Atom: 0, L: 1, Exps: []float64{1.2}, Coefs: []float64{1.0}},
		},
		Lattice:   [3][3]float64{{6, 0, 0}, {0, 6, 0}, {0, 0, 6}},
		Precision: 1e-8,
	})
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func TestGetPPParts(Te *testing.T) {
	c := ppCell(Te)
	df, err := New(c, Config{Mesh: [3]int{10, 10, 10}, Eta: 2.0, Pseudo: pseudo.PadeTable()})
	if err != nil {
		Te.Fatal(err)
	}
	kpts := [][3]float64{{0, 0, 0}, {0.15, 0, -0.1}}
	vpp, err := df.GetPPKpts(kpts)
	if err != nil {
		Te.Fatal(err)
	}
	vloc1, err := df.GetNucKpts(kpts)
	if err != nil {
		Te.Fatal(err)
	}
	vloc2, err := df.PPLocPart2Kpts(kpts)
	if err != nil {
		Te.Fatal(err)
	}
	vnl, err := pseudo.NonlocalKpts(c, df.cfg.Pseudo, df.Grid(), kpts)
	if err != nil {
		Te.Fatal(err)
	}
	nao := c.NAO()
	for k := range kpts {
		for i := 0; i < nao; i++ {
			for j := 0; j <= i; j++ {
				want := vloc1[k].At(i, j) + vloc2[k].At(i, j) + vnl[k].At(i, j)
				if cmplx.Abs(vpp[k].At(i, j)-want) > 1e-10 {
					Te.Error("pseudopotential parts do not add up at k", k, i, j)
				}
			}
		}
	}
	if !vpp[0].IsReal() || vpp[1].IsReal() {
		Te.Error("wrong storage kinds for gamma and finite k")
	}
}

//TestGetPPZeroEta compares the Ewald-split local part against the pure
//reciprocal-space treatment; both solve the same potential, so they
//must agree within the mesh resolution.
func TestGetPPZeroEta(Te *testing.T) {
	c := ppCell(Te)
	mesh := [3]int{12, 12, 12}
	table := pseudo.PadeTable()
	dfa, err := New(c, Config{Mesh: mesh, Eta: 2.0, Pseudo: table})
	if err != nil {
		Te.Fatal(err)
	}
	dfb, err := New(c, Config{Mesh: mesh, ZeroEta: true, Pseudo: table})
	if err != nil {
		Te.Fatal(err)
	}
	va, err := dfa.GetPP([3]float64{})
	if err != nil {
		Te.Fatal(err)
	}
	vb, err := dfb.GetPP([3]float64{})
	if err != nil {
		Te.Fatal(err)
	}
	nao := c.NAO()
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			d := real(va.At(i, j)) - real(vb.At(i, j))
			if d > 5e-3 || d < -5e-3 {
				Te.Error("eta and zero-eta treatments disagree at", i, j, ":", va.At(i, j), vb.At(i, j))
			}
		}
	}
	fmt.Println("vpp diagonal (ewald split):", real(va.At(0, 0)))
	fmt.Println("vpp diagonal (reciprocal) :", real(vb.At(0, 0)))
}

func TestGetPPWithoutParameters(Te *testing.T) {
	df := testDF(Te, [3]int{2, 2, 2}, Config{})
	if _, err := df.GetPP([3]float64{}); err == nil {
		Te.Error("expected an error without pseudopotential parameters")
	}
}
