/*
 * jk_test.go, part of goaft.
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
	"math"
	"math/cmplx"
	"testing"

	"github.com/gocrystal/goaft/ftao"
	"gonum.org/v1/gonum/mat"
)

//testDM is a rank-one density built from a spread-out orbital vector,
//positive semidefinite by construction.
func testDM(nao int) *mat.SymDense {
	v := make([]float64, nao)
	for i := range v {
		v[i] = 0.3 + 0.1*float64(i)
	}
	dm := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			dm.SetSym(i, j, v[i]*v[j])
		}
	}
	return dm
}

func TestGammaJK(Te *testing.T) {
	df := testDF(Te, [3]int{6, 6, 6}, Config{})
	nao := df.Cell().NAO()
	dm := testDM(nao)
	vj, vk, err := df.GetJK(dm, true, true)
	if err != nil {
		Te.Fatal(err)
	}
	//electrostatic energies of a positive semidefinite density are
	//nonnegative for both builders
	trJ, trK := 0.0, 0.0
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			trJ += dm.At(i, j) * vj.At(j, i)
			trK += dm.At(i, j) * vk.At(j, i)
		}
	}
	fmt.Println("tr(dm J):", trJ, "tr(dm K):", trK)
	if trJ < 0 || trK < 0 {
		Te.Error("negative self-interaction traces:", trJ, trK)
	}
	//for a rank-one density the Coulomb and exchange self-energies
	//coincide; J comes from the packed pass and K from the matrix
	//sandwich, so this couples the two code paths
	if math.Abs(trJ-trK) > 1e-8*math.Abs(trJ) {
		Te.Error("rank-one trace identity broken:", trJ, trK)
	}
}

func TestGetJKPartial(Te *testing.T) {
	df := testDF(Te, [3]int{4, 4, 4}, Config{})
	dm := testDM(df.Cell().NAO())
	vj, vk, err := df.GetJK(dm, true, false)
	if err != nil {
		Te.Fatal(err)
	}
	if vj == nil || vk != nil {
		Te.Error("with_k off must return only J")
	}
	vj, vk, err = df.GetJK(dm, false, true)
	if err != nil {
		Te.Fatal(err)
	}
	if vj != nil || vk == nil {
		Te.Error("with_j off must return only K")
	}
}

func TestKptsMatchGamma(Te *testing.T) {
	df := testDF(Te, [3]int{6, 6, 6}, Config{})
	nao := df.Cell().NAO()
	dm := testDM(nao)
	vj, vk, err := df.GetJK(dm, true, true)
	if err != nil {
		Te.Fatal(err)
	}
	dmc := cdenseFromSym(dm)
	kpts := [][3]float64{{0, 0, 0}}
	vjk, err := df.GetJKpts([]*mat.CDense{dmc}, kpts)
	if err != nil {
		Te.Fatal(err)
	}
	vkk, err := df.GetKKpts([]*mat.CDense{dmc}, kpts)
	if err != nil {
		Te.Fatal(err)
	}
	if !vjk[0].IsReal() || !vkk[0].IsReal() {
		Te.Fatal("gamma-only k-point results not stored as real matrices")
	}
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			if math.Abs(vj.At(i, j)-real(vjk[0].At(i, j))) > 1e-10 {
				Te.Error("k-point J disagrees with the gamma builder at", i, j)
			}
			if math.Abs(vk.At(i, j)-real(vkk[0].At(i, j))) > 1e-10 {
				Te.Error("k-point K disagrees with the gamma builder at", i, j)
			}
		}
	}
}

func TestEwaldExxShift(Te *testing.T) {
	meshCfg := [3]int{4, 4, 4}
	dfNone := testDF(Te, meshCfg, Config{ExxDiv: ExxNone})
	dfEwald := testDF(Te, meshCfg, Config{ExxDiv: ExxEwald})
	nao := dfNone.Cell().NAO()
	dm := testDM(nao)
	_, vkNone, err := dfNone.GetJK(dm, false, true)
	if err != nil {
		Te.Fatal(err)
	}
	_, vkEwald, err := dfEwald.GetJK(dm, false, true)
	if err != nil {
		Te.Fatal(err)
	}
	//the two treatments differ by exactly madelung * S dm S
	smats, err := ftao.OverlapKpts(dfNone.Cell(), [][3]float64{{0, 0, 0}})
	if err != nil {
		Te.Fatal(err)
	}
	s := mat.NewDense(nao, nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			s.Set(i, j, real(smats[0].At(i, j)))
		}
	}
	var tmp, sds mat.Dense
	tmp.Mul(dm, s)
	sds.Mul(s, &tmp)
	mad := dfNone.Cell().Madelung(1)
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			want := vkNone.At(i, j) + mad*sds.At(i, j)
			if math.Abs(vkEwald.At(i, j)-want) > 1e-10 {
				Te.Error("wrong Ewald exchange shift at", i, j, ":", vkEwald.At(i, j), want)
			}
		}
	}
}

func TestKptsHermiticity(Te *testing.T) {
	df := testDF(Te, [3]int{5, 5, 5}, Config{})
	nao := df.Cell().NAO()
	k := [3]float64{0.2, 0.1, 0}
	kpts := [][3]float64{{0, 0, 0}, k}
	//a hermitian density with a complex off-diagonal taste
	dmc := make([]*mat.CDense, 2)
	for ik := range dmc {
		d := mat.NewCDense(nao, nao, nil)
		for i := 0; i < nao; i++ {
			d.Set(i, i, complex(0.5, 0))
			for j := 0; j < i; j++ {
				v := complex(0.1*float64(i+j), 0.02*float64(i-j))
				d.Set(i, j, v)
				d.Set(j, i, cmplx.Conj(v))
			}
		}
		dmc[ik] = d
	}
	vj, err := df.GetJKpts(dmc, kpts)
	if err != nil {
		Te.Fatal(err)
	}
	vk, err := df.GetKKpts(dmc, kpts)
	if err != nil {
		Te.Fatal(err)
	}
	for ik := range kpts {
		for i := 0; i < nao; i++ {
			for j := 0; j < nao; j++ {
				if cmplx.Abs(vj[ik].At(i, j)-cmplx.Conj(vj[ik].At(j, i))) > 1e-12 {
					Te.Error("J not hermitian at k", ik, i, j)
				}
				if cmplx.Abs(vk[ik].At(i, j)-cmplx.Conj(vk[ik].At(j, i))) > 1e-12 {
					Te.Error("K not hermitian at k", ik, i, j)
				}
			}
		}
	}
	if _, err := df.GetJKpts(dmc[:1], kpts); err == nil {
		Te.Error("expected an error for mismatched density and k-point counts")
	}
}

//TestExchangeAccumulation pins the blas-backed matrix sandwich against a
//plain scalar evaluation of sum_G coulG m^H dm m / scale at a finite
//momentum transfer.
func TestExchangeAccumulation(Te *testing.T) {
	df := testDF(Te, [3]int{2, 2, 2}, Config{})
	nao := df.Cell().NAO()
	dm := mat.NewCDense(nao, nao, nil)
	for i := 0; i < nao; i++ {
		dm.Set(i, i, complex(0.6, 0))
		for j := 0; j < i; j++ {
			v := complex(0.05*float64(i+j+1), 0.03*float64(i-j))
			dm.Set(i, j, v)
			dm.Set(j, i, cmplx.Conj(v))
		}
	}
	kpti := [3]float64{0, 0, 0}
	kptj := [3]float64{0.2, -0.1, 0.1}
	coul := df.WeightedCoulG(kptj, false)
	vk := mat.NewCDense(nao, nao, nil)
	if err := df.accumulateK(vk, dm, kpti, kptj, coul, 2); err != nil {
		Te.Fatal(err)
	}
	want := mat.NewCDense(nao, nao, nil)
	it, err := df.PWLoop(kpti, kptj, ftao.S1)
	if err != nil {
		Te.Fatal(err)
	}
	for {
		blk, err := it.Next()
		if err != nil {
			if IsLastBlock(err) {
				break
			}
			Te.Fatal(err)
		}
		for g := 0; g < blk.G1-blk.G0; g++ {
			f := complex(coul[blk.G0+g]/2, 0)
			if f == 0 {
				continue
			}
			for u := 0; u < nao; u++ {
				for w := 0; w < nao; w++ {
					var s complex128
					for p := 0; p < nao; p++ {
						for r := 0; r < nao; r++ {
							mpu := complex(blk.R.At(p*nao+u, g), blk.I.At(p*nao+u, g))
							mrw := complex(blk.R.At(r*nao+w, g), blk.I.At(r*nao+w, g))
							s += cmplx.Conj(mpu) * dm.At(p, r) * mrw
						}
					}
					want.Set(u, w, want.At(u, w)+f*s)
				}
			}
		}
	}
	for i := 0; i < nao; i++ {
		for j := 0; j < nao; j++ {
			if cmplx.Abs(vk.At(i, j)-want.At(i, j)) > 1e-12 {
				Te.Error("sandwich disagrees with the scalar sum at", i, j, ":", vk.At(i, j), want.At(i, j))
			}
		}
	}
}
