/*
 * matio_test.go, part of goaft.
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

package matio

import (
	"bytes"
	"fmt"
	"math/cmplx"
	"path/filepath"
	"testing"

	"github.com/gocrystal/goaft"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

func samplePotentials() []*aft.Potential {
	re := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j <= i; j++ {
			re.SetSym(i, j, -1.5+0.25*float64(i*3+j))
		}
	}
	c := mat.NewCDense(2, 2, nil)
	c.Set(0, 0, complex(-2.0, 0))
	c.Set(1, 1, complex(-1.3, 0))
	c.Set(1, 0, complex(0.4, -0.7))
	c.Set(0, 1, complex(0.4, 0.7))
	return []*aft.Potential{{Re: re}, {C: c}}
}

func potentialsEqual(Te *testing.T, a, b []*aft.Potential) {
	if len(a) != len(b) {
		Te.Fatal("potential counts differ:", len(a), len(b))
	}
	for n := range a {
		if a[n].IsReal() != b[n].IsReal() {
			Te.Error("storage kind changed for potential", n)
		}
		nao := a[n].NAO()
		if nao != b[n].NAO() {
			Te.Fatal("dimensions differ for potential", n)
		}
		for i := 0; i < nao; i++ {
			for j := 0; j < nao; j++ {
				if cmplx.Abs(a[n].At(i, j)-b[n].At(i, j)) > 1e-15 {
					Te.Error("element changed at", n, i, j, ":", a[n].At(i, j), b[n].At(i, j))
				}
			}
		}
	}
}

func TestRoundTrip(Te *testing.T) {
	ps := samplePotentials()
	var buf bytes.Buffer
	if err := Write(&buf, ps); err != nil {
		Te.Fatal(err)
	}
	fmt.Println("checkpoint size:", buf.Len(), "bytes")
	back, err := Read(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	potentialsEqual(Te, ps, back)
}

func TestRoundTripFile(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "vpp.zpot")
	ps := samplePotentials()
	if err := WriteFile(name, ps); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	potentialsEqual(Te, ps, back)
}

func TestBadMagic(Te *testing.T) {
	//a valid zstd stream with the wrong payload must be rejected
	zw, err := zstd.NewWriter(nil)
	if err != nil {
		Te.Fatal(err)
	}
	garbage := zw.EncodeAll([]byte("not a checkpoint at all"), nil)
	if _, err := Read(bytes.NewReader(garbage)); err == nil {
		Te.Error("expected an error for a stream without the header")
	}
}

func TestWriteRejectsEmpty(Te *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []*aft.Potential{{}}); err == nil {
		Te.Error("expected an error for an empty potential")
	}
}
