/*
 * dfplot_test.go, part of goaft.
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

package dfplot

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocrystal/goaft"
	"github.com/gocrystal/goaft/cell"
)

func plotCell(Te *testing.T) *cell.Cell {
	c, err := cell.New(cell.Params{
		Atoms: []cell.Atom{
			{Symbol: "H", Charge: 1, Coord: [3]float64{0, 0, 0}},
		},
		Shells: []cell.Shell{
			{Atom: 0, L: 0, Exps: []float64{1.5}, Coefs: []float64{1.0}},
		},
		Lattice:   [3][3]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}},
		Precision: 1e-8,
	})
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

func TestKernelDecay(Te *testing.T) {
	c := plotCell(Te)
	df, err := aft.New(c, aft.Config{Mesh: [3]int{6, 6, 6}})
	if err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "kernel.png")
	if err := KernelDecay(df, "Coulomb kernel decay", name); err != nil {
		Te.Error(err)
	}
	info, err := os.Stat(name)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("kernel plot size:", info.Size(), "bytes")
	if info.Size() == 0 {
		Te.Error("empty plot file")
	}
}

func TestEtaCurve(Te *testing.T) {
	c := plotCell(Te)
	name := filepath.Join(Te.TempDir(), "eta.png")
	cutoffs := []float64{1e-6, 1e-8, 1e-10, 1e-12}
	if err := EtaCurve(c, cutoffs, "Smearing estimate", name); err != nil {
		Te.Error(err)
	}
	if _, err := os.Stat(name); err != nil {
		Te.Error(err)
	}
	if err := EtaCurve(c, nil, "empty", name); err == nil {
		Te.Error("expected an error for an empty cutoff list")
	}
}
