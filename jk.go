/*
 * jk.go, part of goaft.
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
	"math"
	"math/cmplx"

	"github.com/gocrystal/goaft/ftao"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

//GetJK builds the Coulomb (J) and exchange (K) matrices of a real
//symmetric gamma-point density matrix from the plane-wave expansion of
//the AO pair densities. Either output can be switched off; a switched
//off matrix is returned nil.
func (df *AFTDF) GetJK(dm *mat.SymDense, withJ, withK bool) (vj, vk *mat.SymDense, err error) {
	if df == nil {
		panic(ErrNilDF)
	}
	nao := df.cell.NAO()
	if dm.SymmetricDim() != nao {
		panic(ErrDimMismatch)
	}
	if withJ {
		vj, err = df.gammaJ(dm)
		if err != nil {
			return nil, nil, errDecorate(err, "GetJK")
		}
	}
	if withK {
		vk, err = df.gammaK(dm)
		if err != nil {
			return nil, nil, errDecorate(err, "GetJK")
		}
	}
	return vj, vk, nil
}

//gammaJ contracts the density with the Coulomb kernel in a single pass
//over the packed pair transforms: every block provides both the
//density Fourier components and the back-contraction.
func (df *AFTDF) gammaJ(dm *mat.SymDense) (*mat.SymDense, error) {
	nao := df.cell.NAO()
	nij := df.cell.NAOPair()
	//off-diagonal pairs carry both orientations of the symmetric sum
	dmw := mat.NewVecDense(nij, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			f := 2.0
			if i == j {
				f = 1
			}
			dmw.SetVec(i*(i+1)/2+j, f*dm.At(i, j))
		}
	}
	coul := df.WeightedCoulG([3]float64{}, false)
	vj := mat.NewVecDense(nij, nil)
	it, err := df.PWLoop([3]float64{}, [3]float64{}, ftao.S2)
	if err != nil {
		return nil, err
	}
	var rhoR, rhoI, acc mat.VecDense
	for {
		blk, err := it.Next()
		if err != nil {
			if IsLastBlock(err) {
				break
			}
			return nil, err
		}
		rhoR.MulVec(blk.R.T(), dmw)
		rhoI.MulVec(blk.I.T(), dmw)
		for g := 0; g < blk.G1-blk.G0; g++ {
			f := coul[blk.G0+g]
			rhoR.SetVec(g, f*rhoR.AtVec(g))
			rhoI.SetVec(g, f*rhoI.AtVec(g))
		}
		acc.MulVec(blk.R, &rhoR)
		vj.AddVec(vj, &acc)
		acc.MulVec(blk.I, &rhoI)
		vj.AddVec(vj, &acc)
	}
	out := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			out.SetSym(i, j, vj.AtVec(i*(i+1)/2+j))
		}
	}
	return out, nil
}

//gammaK accumulates, plane wave by plane wave, the sandwich of the
//density between the pair transform matrix and its adjoint.
func (df *AFTDF) gammaK(dm *mat.SymDense) (*mat.SymDense, error) {
	nao := df.cell.NAO()
	d := cdenseFromSym(dm)
	coul := df.WeightedCoulG([3]float64{}, false)
	vk := mat.NewCDense(nao, nao, nil)
	if err := df.accumulateK(vk, d, [3]float64{}, [3]float64{}, coul, 1); err != nil {
		return nil, err
	}
	if df.cfg.ExxDiv == ExxEwald {
		if err := df.ewaldExxG0(vk, d, [3]float64{}, 1); err != nil {
			return nil, err
		}
	}
	out := mat.NewSymDense(nao, nil)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			out.SetSym(i, j, real(vk.At(i, j)))
		}
	}
	return out, nil
}

//accumulateK adds sum_G coulG(G) A(G)^H dm A(G) / scale into vk for
//the k-point pair (kpti, kptj).
func (df *AFTDF) accumulateK(vk, dm *mat.CDense, kpti, kptj [3]float64, coul []float64, scale float64) error {
	nao := df.cell.NAO()
	it, err := df.PWLoop(kpti, kptj, ftao.S1)
	if err != nil {
		return err
	}
	m := mat.NewCDense(nao, nao, nil)
	tmp := mat.NewCDense(nao, nao, nil)
	inv := complex(1/scale, 0)
	for {
		blk, err := it.Next()
		if err != nil {
			if IsLastBlock(err) {
				break
			}
			return err
		}
		for g := 0; g < blk.G1-blk.G0; g++ {
			f := coul[blk.G0+g]
			if f == 0 {
				continue
			}
			for i := 0; i < nao; i++ {
				for j := 0; j < nao; j++ {
					ij := i*nao + j
					m.Set(i, j, complex(blk.R.At(ij, g), blk.I.At(ij, g)))
				}
			}
			//vk += f/scale * m^H (dm m), accumulated in place
			cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, dm.RawCMatrix(), m.RawCMatrix(), 0, tmp.RawCMatrix())
			cblas128.Gemm(blas.ConjTrans, blas.NoTrans, complex(f, 0)*inv, m.RawCMatrix(), tmp.RawCMatrix(), 1, vk.RawCMatrix())
		}
	}
	return nil
}

//ewaldExxG0 adds the probe-charge Madelung correction
//madelung * S dm S at one k-point.
func (df *AFTDF) ewaldExxG0(vk, dm *mat.CDense, kpt [3]float64, nk int) error {
	smats, err := ftao.OverlapKpts(df.cell, [][3]float64{kpt})
	if err != nil {
		return err
	}
	s := smats[0]
	mad := complex(df.cell.Madelung(math.Cbrt(float64(nk))), 0)
	nao := df.cell.NAO()
	tmp := mat.NewCDense(nao, nao, nil)
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, dm.RawCMatrix(), s.RawCMatrix(), 0, tmp.RawCMatrix())
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, mad, s.RawCMatrix(), tmp.RawCMatrix(), 1, vk.RawCMatrix())
	return nil
}

//GetJKpts builds the Coulomb matrix at each k-point from hermitian
//density matrices sampled on the same k-points. The density Fourier
//components are averaged over the mesh.
func (df *AFTDF) GetJKpts(dms []*mat.CDense, kpts [][3]float64) ([]*Potential, error) {
	if len(dms) != len(kpts) {
		return nil, errorf(true, "goaft.GetJKpts: %d density matrices for %d k-points", len(dms), len(kpts))
	}
	nao := df.cell.NAO()
	nk := len(kpts)
	vj := make([][]complex128, nk)
	for k := range vj {
		vj[k] = make([]complex128, nao*nao)
	}
	coul := df.WeightedCoulG([3]float64{}, false)
	it, err := df.FTLoop([3]float64{}, kpts, ftao.S1)
	if err != nil {
		return nil, errDecorate(err, "GetJKpts")
	}
	rho := make([]complex128, 0)
	for {
		blk, err := it.Next()
		if err != nil {
			if IsLastBlock(err) {
				break
			}
			return nil, errDecorate(err, "GetJKpts")
		}
		nG := blk.G1 - blk.G0
		if cap(rho) < nG {
			rho = make([]complex128, nG)
		}
		rho = rho[:nG]
		for g := range rho {
			rho[g] = 0
		}
		//density Fourier components of the whole mesh for this block
		for k := range kpts {
			ao := blk.AO[k]
			d := dms[k]
			for g := 0; g < nG; g++ {
				off := g * blk.Nij
				var tr complex128
				for p := 0; p < nao; p++ {
					for q := 0; q < nao; q++ {
						tr += ao[off+p*nao+q] * d.At(q, p)
					}
				}
				rho[g] += tr
			}
		}
		fnk := complex(1/float64(nk), 0)
		for g := range rho {
			rho[g] = cmplx.Conj(rho[g]*fnk) * complex(coul[blk.G0+g], 0)
		}
		//back-contraction at every k-point
		for k := range kpts {
			ao := blk.AO[k]
			row := vj[k]
			for g := 0; g < nG; g++ {
				v := rho[g]
				if v == 0 {
					continue
				}
				off := g * blk.Nij
				for pq := 0; pq < nao*nao; pq++ {
					row[pq] += v * ao[off+pq]
				}
			}
		}
	}
	out := make([]*Potential, nk)
	for k := range kpts {
		out[k] = potentialFromSquare(vj[k], nao, gammaPoint(kpts[k]))
	}
	return out, nil
}

//GetKKpts builds the exchange matrix at each k-point, looping over the
//k-point pairs with the momentum transfer folded into the Coulomb
//kernel.
func (df *AFTDF) GetKKpts(dms []*mat.CDense, kpts [][3]float64) ([]*Potential, error) {
	if len(dms) != len(kpts) {
		return nil, errorf(true, "goaft.GetKKpts: %d density matrices for %d k-points", len(dms), len(kpts))
	}
	nao := df.cell.NAO()
	nk := len(kpts)
	vk := make([]*mat.CDense, nk)
	for k := range vk {
		vk[k] = mat.NewCDense(nao, nao, nil)
	}
	for ki := range kpts {
		for kj := range kpts {
			q := [3]float64{
				kpts[kj][0] - kpts[ki][0],
				kpts[kj][1] - kpts[ki][1],
				kpts[kj][2] - kpts[ki][2],
			}
			coul := df.WeightedCoulG(q, false)
			if err := df.accumulateK(vk[kj], dms[ki], kpts[ki], kpts[kj], coul, float64(nk)); err != nil {
				return nil, errDecorate(err, "GetKKpts")
			}
		}
		df.log.Printf("exchange pass %d/%d done", ki+1, nk)
	}
	if df.cfg.ExxDiv == ExxEwald {
		for k := range kpts {
			if err := df.ewaldExxG0(vk[k], dms[k], kpts[k], nk); err != nil {
				return nil, errDecorate(err, "GetKKpts")
			}
		}
	}
	out := make([]*Potential, nk)
	for k := range kpts {
		out[k] = potentialFromSquare(cdenseData(vk[k]), nao, gammaPoint(kpts[k]))
	}
	return out, nil
}

//cdenseFromSym promotes a real symmetric matrix to complex storage.
func cdenseFromSym(s *mat.SymDense) *mat.CDense {
	n := s.SymmetricDim()
	d := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.Set(i, j, complex(s.At(i, j), 0))
		}
	}
	return d
}

//cdenseData flattens a CDense row-major.
func cdenseData(m *mat.CDense) []complex128 {
	r, c := m.Dims()
	out := make([]complex128, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = m.At(i, j)
		}
	}
	return out
}

//potentialFromSquare wraps a row-major square matrix, symmetrizing the
//tiny hermiticity violations of the quadrature.
func potentialFromSquare(data []complex128, nao int, gamma bool) *Potential {
	packed := make([]complex128, nao*(nao+1)/2)
	for i := 0; i < nao; i++ {
		for j := 0; j <= i; j++ {
			v := 0.5 * (data[i*nao+j] + cmplx.Conj(data[j*nao+i]))
			packed[i*(i+1)/2+j] = v
		}
	}
	return potentialFromPacked(packed, nao, gamma)
}
