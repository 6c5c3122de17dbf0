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

package aft

import "fmt"

//Error is the concrete error type of the aft package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return fmt.Sprintf("%s", err.message) }

//Decorate adds the dec string to the decoration slice of strings of the
//error and returns the resulting slice.
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

//PanicMsg is a message used for panics on structural misuse.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilDF       = PanicMsg("goaft: nil density fitting object")
	ErrNilCell     = PanicMsg("goaft: nil cell")
	ErrDoneIter    = PanicMsg("goaft: Next called on an exhausted plane-wave loop")
	ErrDimMismatch = PanicMsg("goaft: density matrix dimension does not match the cell basis")
)

//LastBlockError signals the clean end of a plane-wave loop, as opposed
//to a real failure while generating a block.
type LastBlockError interface {
	NormalLastBlockTermination()
	Error() string
}

type lastBlock struct{}

func (lastBlock) NormalLastBlockTermination() {}
func (lastBlock) Error() string               { return "goaft: plane-wave loop exhausted" }

//IsLastBlock returns whether err only signals that a loop ran out of
//blocks.
func IsLastBlock(err error) bool {
	_, ok := err.(LastBlockError)
	return ok
}
