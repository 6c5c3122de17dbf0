/*
 * errors.go, part of goaft.
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

import "fmt"

//Error is the concrete error type of the cell package. The Decorate
//method allows callers to add information when passing the error up,
//without changing its type.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return fmt.Sprintf("%s", err.message)
}

//Decorate adds the dec string to the decoration slice of strings of the
//error and returns the resulting slice. An empty dec only retrieves the
//current decorations.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error can be ignored.
func (err Error) Critical() bool { return err.critical }

func errorf(critical bool, format string, args ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, args...), critical: critical}
}

//PanicMsg is a message used for panics on structural misuse of the
//fundamental functions of the package. For recoverable conditions use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilCell           = PanicMsg("goaft/cell: nil Cell")
	ErrNotNx3Matrix      = PanicMsg("goaft/cell: a Vecs matrix must have 3 columns")
	ErrIndexOutOfRange   = PanicMsg("goaft/cell: index out of range")
	ErrSingularLattice   = PanicMsg("goaft/cell: singular lattice vectors")
	ErrNotEnoughElements = PanicMsg("goaft/cell: not enough elements in Vecs")
)
