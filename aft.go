/*
 * aft.go, part of goaft.
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

//Package aft expands periodic electron densities on plane waves
//(analytic Fourier transform density fitting) and builds the
//one-electron and two-electron Coulomb matrices of a periodic cell
//from that expansion: nuclear attraction, GTH pseudopotentials, and
//the Coulomb and exchange matrices at one or many k-points.
package aft

import (
	"io"
	"log"
	"math"

	"github.com/gocrystal/goaft/cell"
	"github.com/gocrystal/goaft/gint"
	"github.com/gocrystal/goaft/pseudo"
)

//ExxDiv selects the treatment of the G=0 divergence of the exchange
//kernel.
type ExxDiv int

const (
	//ExxNone drops the divergent term.
	ExxNone ExxDiv = iota
	//ExxEwald folds the probe-charge Ewald (Madelung) correction into
	//the exchange matrix.
	ExxEwald
)

//etaMin is the floor of the model density exponent estimate.
const etaMin = 0.2

//Config collects the options of an AFTDF object. The zero value of
//every field selects a usable default, except Mesh, which the caller
//must choose for the basis at hand.
type Config struct {
	//Mesh sets the plane-wave grid, (2*Mesh_i+1) points per axis.
	Mesh [3]int
	//Eta is the exponent of the smooth gaussian model of the nuclear
	//density; 0 means estimate it from the cell.
	Eta float64
	//ZeroEta switches the nuclear builders to the pure
	//reciprocal-space Poisson treatment, with no real-space
	//lattice sums.
	ZeroEta bool
	//BlockDim is the number of auxiliary rows per DFLoop block.
	BlockDim int
	//MaxMemory bounds the working-set of the plane-wave loops, in MB.
	MaxMemory int
	//ExxDiv selects the exchange divergence treatment.
	ExxDiv ExxDiv
	//Kpts is the sampled k-point set; empty means gamma only.
	Kpts [][3]float64
	//Pseudo holds the GTH parameters of the elements carrying a
	//pseudopotential; nil means an all-electron cell.
	Pseudo []pseudo.Param
	//Engine evaluates the real-space integrals of the nuclear builders;
	//nil selects the built-in s/p reference engine.
	Engine IntegralEngine
	//Log receives progress and flag dumps; nil discards them.
	Log *log.Logger
}

//IntegralEngine is the boundary to the real-space Gaussian integral
//code. The built-in gint.Engine covers s and p shells; a binding to a
//full integral library can be dropped in through the Config.
type IntegralEngine interface {
	//NucVloc returns, per k-point, the packed lower triangle of the
	//lattice-summed interaction of every AO pair with the difference of
	//the smooth and steep unit charges, scaled by charges.
	NucVloc(c, smooth, steep *cell.Cell, charges []float64, kpts [][3]float64) ([][]complex128, error)
}

//AFTDF is a plane-wave density fitting object bound to one cell and
//one k-point set. It is read-only after construction and safe for
//concurrent use.
type AFTDF struct {
	cell   *cell.Cell
	grid   *cell.Grid
	eta    float64
	cfg    Config
	log    *log.Logger
	engine IntegralEngine
}

//New builds an AFTDF object for the cell with the given options.
func New(c *cell.Cell, cfg Config) (*AFTDF, error) {
	if c == nil {
		panic(ErrNilCell)
	}
	g, err := c.Grid(cfg.Mesh)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	if cfg.BlockDim == 0 {
		cfg.BlockDim = 240
	}
	if cfg.BlockDim < 0 {
		return nil, errorf(true, "goaft.New: negative block dimension %d", cfg.BlockDim)
	}
	if cfg.MaxMemory == 0 {
		cfg.MaxMemory = 2000
	}
	if len(cfg.Kpts) == 0 {
		cfg.Kpts = [][3]float64{{0, 0, 0}}
	}
	eta := cfg.Eta
	if cfg.ZeroEta {
		eta = 0
	} else if eta == 0 {
		eta = EstimateEta(c, c.Precision)
	}
	if eta < 0 {
		return nil, errorf(true, "goaft.New: negative eta %g", eta)
	}
	l := cfg.Log
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	eng := cfg.Engine
	if eng == nil {
		eng = gint.Engine{}
	}
	return &AFTDF{cell: c, grid: g, eta: eta, cfg: cfg, log: l, engine: eng}, nil
}

//EstimateEta returns the exponent of the smooth gaussian model of the
//nuclear density, chosen so that the model has decayed to the cutoff
//at the lattice-sum radius of the cell. A cutoff of 0 or less selects
//1e-12.
func EstimateEta(c *cell.Cell, cutoff float64) float64 {
	if cutoff <= 0 {
		cutoff = 1e-12
	}
	rcut := math.Max(c.Rcut(), 1)
	eta := math.Log(4*math.Pi*math.Pow(rcut, 5)/cutoff) / (rcut * rcut) * 2
	return math.Max(eta, etaMin)
}

//Cell returns the cell the object was built for.
func (df *AFTDF) Cell() *cell.Cell { return df.cell }

//Grid returns the plane-wave grid.
func (df *AFTDF) Grid() *cell.Grid { return df.grid }

//Eta returns the model density exponent in use; 0 means the pure
//reciprocal-space treatment.
func (df *AFTDF) Eta() float64 { return df.eta }

//Kpts returns the sampled k-points.
func (df *AFTDF) Kpts() [][3]float64 { return df.cfg.Kpts }

//NAOAux returns the size of the auxiliary plane-wave basis as seen by
//DFLoop: two real rows (cosine and sine) per grid point.
func (df *AFTDF) NAOAux() int { return df.grid.NG() * 2 }

//DumpFlags logs the configuration of the object.
func (df *AFTDF) DumpFlags() {
	df.log.Printf("******** AFTDF flags ********")
	df.log.Printf("mesh = %v (%d plane waves)", df.grid.Mesh, df.grid.NG())
	df.log.Printf("eta = %g", df.eta)
	df.log.Printf("len(kpts) = %d", len(df.cfg.Kpts))
	df.log.Printf("blockdim = %d", df.cfg.BlockDim)
	df.log.Printf("exxdiv = %v", df.cfg.ExxDiv)
}

//gammaPoint returns whether k is the zero vector.
func gammaPoint(k [3]float64) bool {
	return math.Abs(k[0]) < 1e-9 && math.Abs(k[1]) < 1e-9 && math.Abs(k[2]) < 1e-9
}

//MeanField is a self-consistent field driver that can delegate its
//Coulomb matrix machinery to a density fitting object.
type MeanField interface {
	SetDF(*AFTDF)
}

//UpdateMF points the mean field object at this density fitting object.
func (df *AFTDF) UpdateMF(mf MeanField) {
	if df == nil {
		panic(ErrNilDF)
	}
	mf.SetDF(df)
}
