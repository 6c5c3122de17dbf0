/*
 * data.go, part of goaft.
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

import (
	"golang.org/x/exp/slices"
)

var symbols = []string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
}

//AtomicNumber returns the nuclear charge of an element symbol, or an
//error for symbols outside the supported range (H through Ar).
func AtomicNumber(symbol string) (float64, error) {
	i := slices.Index(symbols, symbol)
	if i < 0 {
		return 0, errorf(true, "goaft/cell.AtomicNumber: unknown element %q", symbol)
	}
	return float64(i + 1), nil
}
