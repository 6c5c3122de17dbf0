/*
 * pwloop.go, part of goaft.
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

	"github.com/gocrystal/goaft/ftao"
	"gonum.org/v1/gonum/mat"
)

//PairBlock is one block of plane waves with the AO pair transforms of
//a single k-point pair, split into real and imaginary parts. The rows
//of R and I are the pairs and the columns the grid points G0 through
//G1-1. The matrices are owned by the iterator and overwritten by the
//next call to Next.
type PairBlock struct {
	G0, G1 int
	Nij    int
	Sym    ftao.Sym
	R, I   *mat.Dense
}

//PWIter walks the plane-wave grid in memory-bounded blocks for one
//k-point pair, in the manner of a trajectory reader: Next returns a
//block until the grid is exhausted, then an error satisfying
//LastBlockError.
type PWIter struct {
	df      *AFTDF
	q, kptj [3]float64
	sym     ftao.Sym
	shls    [4]int
	nij     int
	blksize int
	p0      int
	buf     []complex128
	r, i    *mat.Dense
	done    bool
}

//PWLoop prepares a blocked iterator over the AO pair transforms at
//momentum transfer q = kptj - kpti. The block size follows from the
//MaxMemory option.
func (df *AFTDF) PWLoop(kpti, kptj [3]float64, sym ftao.Sym) (*PWIter, error) {
	if df == nil {
		panic(ErrNilDF)
	}
	shls := ftao.FullShells(df.cell)
	nij := ftao.NPair(df.cell, shls, sym)
	blksize := int(float64(df.cfg.MaxMemory) * 1e6 * 0.75 / 16 / float64(nij))
	if blksize < 16 {
		blksize = 16
	}
	if blksize > 16384 {
		blksize = 16384
	}
	q := [3]float64{kptj[0] - kpti[0], kptj[1] - kpti[1], kptj[2] - kpti[2]}
	return &PWIter{df: df, q: q, kptj: kptj, sym: sym, shls: shls, nij: nij, blksize: blksize}, nil
}

//Next returns the next block, or an error satisfying LastBlockError
//once the grid is exhausted. Calling Next again after that panics.
func (it *PWIter) Next() (*PairBlock, error) {
	if it.done {
		panic(ErrDoneIter)
	}
	ng := it.df.grid.NG()
	if it.p0 >= ng {
		it.done = true
		return nil, lastBlock{}
	}
	p1 := it.p0 + it.blksize
	if p1 > ng {
		p1 = ng
	}
	gsub := it.df.grid.G.SliceVecs(it.p0, p1)
	var err error
	it.buf, err = ftao.PairFT(it.df.cell, gsub, it.q, it.kptj, it.shls, it.sym, it.buf)
	if err != nil {
		return nil, errDecorate(err, "PWIter.Next")
	}
	nG := p1 - it.p0
	if it.r == nil || it.r.RawMatrix().Cols != nG {
		it.r = mat.NewDense(it.nij, nG, nil)
		it.i = mat.NewDense(it.nij, nG, nil)
	}
	for g := 0; g < nG; g++ {
		row := it.buf[g*it.nij:]
		for ij := 0; ij < it.nij; ij++ {
			it.r.Set(ij, g, real(row[ij]))
			it.i.Set(ij, g, imag(row[ij]))
		}
	}
	blk := &PairBlock{G0: it.p0, G1: p1, Nij: it.nij, Sym: it.sym, R: it.r, I: it.i}
	it.p0 = p1
	return blk, nil
}

//KPairBlock is one block of plane waves with the AO pair transforms of
//every k-point. AO[k] holds (G1-G0)*Nij values laid out grid point by
//grid point. The slices are owned by the iterator and overwritten by
//the next call to Next.
type KPairBlock struct {
	G0, G1 int
	Nij    int
	Sym    ftao.Sym
	AO     [][]complex128
}

//FTIter walks the plane-wave grid in blocks carrying the transforms at
//every k-point at once, as the potential builders need.
type FTIter struct {
	df      *AFTDF
	q       [3]float64
	kpts    [][3]float64
	sym     ftao.Sym
	shls    [4]int
	nij     int
	blksize int
	p0      int
	bufs    [][]complex128
	done    bool
}

//FTLoop prepares a blocked iterator over the AO pair transforms of
//every k-point in kpts at momentum transfer q.
func (df *AFTDF) FTLoop(q [3]float64, kpts [][3]float64, sym ftao.Sym) (*FTIter, error) {
	if df == nil {
		panic(ErrNilDF)
	}
	if len(kpts) == 0 {
		kpts = df.cfg.Kpts
	}
	shls := ftao.FullShells(df.cell)
	nij := ftao.NPair(df.cell, shls, sym)
	blksize := int(float64(df.cfg.MaxMemory) * 0.9e6 / (float64(nij) * float64(len(kpts)) * 16))
	if blksize < 16 {
		blksize = 16
	}
	if ng := df.grid.NG(); blksize > ng {
		blksize = ng
	}
	if blksize > 16384 {
		blksize = 16384
	}
	return &FTIter{df: df, q: q, kpts: kpts, sym: sym, shls: shls, nij: nij,
		blksize: blksize, bufs: make([][]complex128, len(kpts))}, nil
}

//Next returns the next block, or an error satisfying LastBlockError
//once the grid is exhausted. Calling Next again after that panics.
func (it *FTIter) Next() (*KPairBlock, error) {
	if it.done {
		panic(ErrDoneIter)
	}
	ng := it.df.grid.NG()
	if it.p0 >= ng {
		it.done = true
		return nil, lastBlock{}
	}
	p1 := it.p0 + it.blksize
	if p1 > ng {
		p1 = ng
	}
	gsub := it.df.grid.G.SliceVecs(it.p0, p1)
	var err error
	for ik, k := range it.kpts {
		kptj := [3]float64{k[0] + it.q[0], k[1] + it.q[1], k[2] + it.q[2]}
		it.bufs[ik], err = ftao.PairFT(it.df.cell, gsub, it.q, kptj, it.shls, it.sym, it.bufs[ik])
		if err != nil {
			return nil, errDecorate(err, "FTIter.Next")
		}
	}
	blk := &KPairBlock{G0: it.p0, G1: p1, Nij: it.nij, Sym: it.sym, AO: it.bufs}
	it.p0 = p1
	return blk, nil
}

//DFIter presents the plane-wave expansion as a stack of real auxiliary
//rows, the way molecular density fitting objects do: every block of
//grid points contributes its cosine rows, then its sine rows, each
//weighted by the square root of the Coulomb kernel.
type DFIter struct {
	it    *PWIter
	coul  []float64
	blk   *PairBlock
	phase int //0: next yield is the real rows of blk, 1: the imaginary ones
	l     *mat.Dense
}

//DFLoop prepares the auxiliary-row iterator at the gamma point. The
//total number of rows over a whole loop is NAOAux.
func (df *AFTDF) DFLoop() (*DFIter, error) {
	if len(df.cfg.Kpts) != 1 || !gammaPoint(df.cfg.Kpts[0]) {
		return nil, errorf(true, "goaft.DFLoop: the auxiliary-row view is a gamma point construct, got %d k-points", len(df.cfg.Kpts))
	}
	it, err := df.PWLoop([3]float64{}, [3]float64{}, ftao.S2)
	if err != nil {
		return nil, errDecorate(err, "DFLoop")
	}
	it.blksize = df.cfg.BlockDim
	return &DFIter{it: it, coul: df.WeightedCoulG([3]float64{}, false)}, nil
}

//Next returns the next weighted auxiliary block, of shape
//(G1-G0) x naopair, or an error satisfying LastBlockError at the end.
//The matrix is owned by the iterator and overwritten by the next call.
func (d *DFIter) Next() (*mat.Dense, error) {
	if d.blk == nil {
		blk, err := d.it.Next()
		if err != nil {
			return nil, err //the last-block sentinel passes through
		}
		d.blk = blk
		d.phase = 0
	}
	nG := d.blk.G1 - d.blk.G0
	if d.l == nil || d.l.RawMatrix().Rows != nG {
		d.l = mat.NewDense(nG, d.blk.Nij, nil)
	}
	src := d.blk.R
	if d.phase == 1 {
		src = d.blk.I
	}
	for g := 0; g < nG; g++ {
		w := math.Sqrt(d.coul[d.blk.G0+g])
		for ij := 0; ij < d.blk.Nij; ij++ {
			d.l.Set(g, ij, w*src.At(ij, g))
		}
	}
	if d.phase == 0 {
		d.phase = 1
	} else {
		d.blk = nil
	}
	return d.l, nil
}
