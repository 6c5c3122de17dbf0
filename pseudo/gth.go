/*
 * gth.go, part of goaft.
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

//Package pseudo implements Goedecker-Teter-Hutter (GTH) norm-conserving
//pseudopotentials: the parameter tables, the local part in reciprocal
//space, and the separable nonlocal projector term.
package pseudo

import (
	"golang.org/x/exp/slices"
)

//NLChannel is one angular momentum channel of the separable nonlocal
//part: the projector radius R and the coupling matrix H, one row and
//column per projector.
type NLChannel struct {
	L int
	R float64
	H [][]float64
}

//Param is the GTH pseudopotential of one element: the valence charge
//Zion, the local range Rloc with its polynomial coefficients C (up to
//four), and the nonlocal channels.
type Param struct {
	Symbol string
	Zion   float64
	Rloc   float64
	C      []float64
	NL     []NLChannel
}

//PadeTable returns the built-in GTH-PADE (LDA) parameter sets. The
//table covers the elements exercised by the package tests; larger sets
//belong in an external datafile.
func PadeTable() []Param {
	return []Param{
		{
			Symbol: "H", Zion: 1,
			Rloc: 0.20000000,
			C:    []float64{-4.18023680, 0.72507482},
		},
		{
			Symbol: "C", Zion: 4,
			Rloc: 0.34883045,
			C:    []float64{-8.51377110, 1.22843203},
			NL: []NLChannel{
				{L: 0, R: 0.30455321, H: [][]float64{{9.52284179}}},
				{L: 1, R: 0.32235865, H: [][]float64{{0.0}}},
			},
		},
		{
			Symbol: "Si", Zion: 4,
			Rloc: 0.44000000,
			C:    []float64{-7.33610297},
			NL: []NLChannel{
				{L: 0, R: 0.42273813, H: [][]float64{
					{5.90692831, -1.26189397},
					{-1.26189397, 3.25819622},
				}},
				{L: 1, R: 0.48427842, H: [][]float64{{2.72701346}}},
			},
		},
	}
}

//Lookup returns the parameter set of an element symbol from the table.
func Lookup(table []Param, symbol string) (Param, bool) {
	i := slices.IndexFunc(table, func(p Param) bool { return p.Symbol == symbol })
	if i < 0 {
		return Param{}, false
	}
	return table[i], true
}
