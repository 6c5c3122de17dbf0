/*
 * matio.go, part of goaft.
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

//Package matio checkpoints stacks of AO potential matrices to a
//compact zstd-compressed binary format, so expensive lattice and
//plane-wave sums need not be repeated between runs. Only the unique
//lower triangle of each matrix is stored.
package matio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/gocrystal/goaft"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//the header identifies the file and the layout version
var magic = [8]byte{'G', 'A', 'F', 'T', 'P', 'O', 'T', '1'}

const (
	kindReal    = uint8(0)
	kindComplex = uint8(1)
)

//Error is the concrete error type of the matio package.
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

//Write stores the potentials in w, compressed.
func Write(w io.Writer, ps []*aft.Potential) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errorf(true, "goaft/matio.Write: cannot start compressor: %v", err)
	}
	if _, err := zw.Write(magic[:]); err != nil {
		return errorf(true, "goaft/matio.Write: %v", err)
	}
	if err := binary.Write(zw, binary.LittleEndian, uint32(len(ps))); err != nil {
		return errorf(true, "goaft/matio.Write: %v", err)
	}
	for n, p := range ps {
		if p == nil || (p.Re == nil && p.C == nil) {
			return errorf(true, "goaft/matio.Write: potential %d is empty", n)
		}
		nao := p.NAO()
		kind := kindComplex
		if p.IsReal() {
			kind = kindReal
		}
		if err := binary.Write(zw, binary.LittleEndian, uint32(nao)); err != nil {
			return errorf(true, "goaft/matio.Write: %v", err)
		}
		if err := binary.Write(zw, binary.LittleEndian, kind); err != nil {
			return errorf(true, "goaft/matio.Write: %v", err)
		}
		for i := 0; i < nao; i++ {
			for j := 0; j <= i; j++ {
				v := p.At(i, j)
				if err := binary.Write(zw, binary.LittleEndian, real(v)); err != nil {
					return errorf(true, "goaft/matio.Write: %v", err)
				}
				if kind == kindComplex {
					if err := binary.Write(zw, binary.LittleEndian, imag(v)); err != nil {
						return errorf(true, "goaft/matio.Write: %v", err)
					}
				}
			}
		}
	}
	return zw.Close()
}

//Read recovers a stack of potentials written by Write.
func Read(r io.Reader) ([]*aft.Potential, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errorf(true, "goaft/matio.Read: cannot start decompressor: %v", err)
	}
	defer zr.Close()
	var head [8]byte
	if _, err := io.ReadFull(zr, head[:]); err != nil {
		return nil, errorf(true, "goaft/matio.Read: %v", err)
	}
	if head != magic {
		return nil, errorf(true, "goaft/matio.Read: not a potential checkpoint (bad magic %q)", head[:])
	}
	var count uint32
	if err := binary.Read(zr, binary.LittleEndian, &count); err != nil {
		return nil, errorf(true, "goaft/matio.Read: %v", err)
	}
	ps := make([]*aft.Potential, count)
	for n := range ps {
		var nao32 uint32
		var kind uint8
		if err := binary.Read(zr, binary.LittleEndian, &nao32); err != nil {
			return nil, errorf(true, "goaft/matio.Read: truncated matrix %d: %v", n, err)
		}
		if err := binary.Read(zr, binary.LittleEndian, &kind); err != nil {
			return nil, errorf(true, "goaft/matio.Read: truncated matrix %d: %v", n, err)
		}
		nao := int(nao32)
		p := &aft.Potential{}
		if kind == kindReal {
			p.Re = mat.NewSymDense(nao, nil)
		} else {
			p.C = mat.NewCDense(nao, nao, nil)
		}
		for i := 0; i < nao; i++ {
			for j := 0; j <= i; j++ {
				var re, im float64
				if err := binary.Read(zr, binary.LittleEndian, &re); err != nil {
					return nil, errorf(true, "goaft/matio.Read: truncated matrix %d: %v", n, err)
				}
				if kind == kindComplex {
					if err := binary.Read(zr, binary.LittleEndian, &im); err != nil {
						return nil, errorf(true, "goaft/matio.Read: truncated matrix %d: %v", n, err)
					}
				}
				if kind == kindReal {
					p.Re.SetSym(i, j, re)
				} else {
					p.C.Set(i, j, complex(re, im))
					if i != j {
						p.C.Set(j, i, complex(re, -im))
					}
				}
			}
		}
		ps[n] = p
	}
	return ps, nil
}

//WriteFile checkpoints the potentials into the named file.
func WriteFile(name string, ps []*aft.Potential) error {
	f, err := os.Create(name)
	if err != nil {
		return errorf(true, "goaft/matio.WriteFile: %v", err)
	}
	defer f.Close()
	return Write(f, ps)
}

//ReadFile recovers a checkpoint from the named file.
func ReadFile(name string) ([]*aft.Potential, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errorf(true, "goaft/matio.ReadFile: %v", err)
	}
	defer f.Close()
	return Read(f)
}
