/*
 * cell.go, part of goaft.
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

//Package cell implements the periodic unit cell consumed by the AFT
//density fitting core: atoms, contracted Gaussian shells, lattice
//geometry, lattice translations, and the reciprocal-space grid with its
//quadrature weights.
package cell

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//Atom is one atom of the unit cell. Coordinates are in Bohr. Charge is
//the nuclear charge, or the valence charge when the atom carries a
//pseudopotential.
type Atom struct {
	Symbol string
	Charge float64
	Coord  [3]float64
}

//Shell is a contracted Gaussian shell of angular momentum L centered on
//atom Atom. Coefs holds one contraction coefficient per exponent.
type Shell struct {
	Atom  int
	L     int
	Exps  []float64
	Coefs []float64
}

//NFunc returns the number of (spherical) functions in the shell.
func (s *Shell) NFunc() int { return 2*s.L + 1 }

//Cell is a periodic unit cell. It is read-only after construction; all
//the derived geometric quantities are computed once by New.
type Cell struct {
	Atoms     []Atom
	Shells    []Shell
	Lattice   [3][3]float64 //rows are the lattice vectors, in Bohr
	Dimension int
	Precision float64

	vol    float64
	rec    [3][3]float64 //reciprocal lattice vectors (rows), 2*pi included
	rcut   float64
	images *Vecs
	aoloc  []int
	nao    int
}

//Params collects the input needed to build a Cell. Dimension defaults
//to 3 and Precision to 1e-8. If RawCoefficients is set, the contraction
//coefficients are taken as given; otherwise each primitive is
//normalized first (the usual case for a basis read from a table).
type Params struct {
	Atoms           []Atom
	Shells          []Shell
	Lattice         [3][3]float64
	Dimension       int
	Precision       float64
	RawCoefficients bool
}

//New builds a Cell and precomputes its volume, reciprocal vectors,
//real-space cutoff radius and lattice translations.
func New(p Params) (*Cell, error) {
	if len(p.Atoms) == 0 {
		return nil, errorf(true, "goaft/cell.New: no atoms given")
	}
	c := &Cell{
		Atoms:     p.Atoms,
		Lattice:   p.Lattice,
		Dimension: p.Dimension,
		Precision: p.Precision,
	}
	if c.Dimension == 0 {
		c.Dimension = 3
	}
	if c.Precision == 0 {
		c.Precision = 1e-8
	}
	c.Shells = make([]Shell, len(p.Shells))
	for i, s := range p.Shells {
		if s.Atom < 0 || s.Atom >= len(p.Atoms) {
			return nil, errorf(true, "goaft/cell.New: shell %d references atom %d of %d", i, s.Atom, len(p.Atoms))
		}
		if len(s.Exps) == 0 || len(s.Exps) != len(s.Coefs) {
			return nil, errorf(true, "goaft/cell.New: shell %d has %d exponents and %d coefficients", i, len(s.Exps), len(s.Coefs))
		}
		cs := Shell{Atom: s.Atom, L: s.L}
		cs.Exps = append(cs.Exps, s.Exps...)
		cs.Coefs = append(cs.Coefs, s.Coefs...)
		if !p.RawCoefficients {
			for k, a := range cs.Exps {
				cs.Coefs[k] *= GTONorm(cs.L, a)
			}
		}
		c.Shells[i] = cs
	}
	a := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Set(i, j, p.Lattice[i][j])
		}
	}
	det := mat.Det(a)
	if math.Abs(det) < 1e-12 {
		return nil, errorf(true, "goaft/cell.New: singular lattice, determinant %g", det)
	}
	c.vol = math.Abs(det)
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, errorf(true, "goaft/cell.New: cannot invert lattice: %v", err)
	}
	//b = 2*pi*inv(a)^T, so that b_i . a_j = 2*pi*delta_ij
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.rec[i][j] = 2 * math.Pi * inv.At(j, i)
		}
	}
	c.rcut = rcutEstimate(c.Shells, c.Precision)
	c.images = latticeImages(c.Lattice, c.rec, c.rcut)
	c.aoloc = make([]int, len(c.Shells)+1)
	for i := range c.Shells {
		c.aoloc[i+1] = c.aoloc[i] + c.Shells[i].NFunc()
	}
	c.nao = c.aoloc[len(c.Shells)]
	return c, nil
}

//Volume returns the unit cell volume in Bohr^3.
func (c *Cell) Volume() float64 { return c.vol }

//Reciprocal returns the reciprocal lattice vectors as rows, with the
//2*pi factor included.
func (c *Cell) Reciprocal() [3][3]float64 { return c.rec }

//Rcut returns the real-space cutoff radius beyond which every basis
//function of the cell is negligible at the cell precision.
func (c *Cell) Rcut() float64 { return c.rcut }

//NAO returns the number of (spherical) atomic orbitals.
func (c *Cell) NAO() int { return c.nao }

//NAOPair returns the number of unique AO pairs (lower triangle).
func (c *Cell) NAOPair() int { return c.nao * (c.nao + 1) / 2 }

//AOLoc returns the AO offset of each shell; its length is NShells()+1.
func (c *Cell) AOLoc() []int { return c.aoloc }

//NShells returns the number of contracted shells.
func (c *Cell) NShells() int { return len(c.Shells) }

//Images returns the lattice translations within the cutoff radius,
//including the zero translation.
func (c *Cell) Images() *Vecs { return c.images }

//AtomCharges returns the charges of all atoms, in order.
func (c *Cell) AtomCharges() []float64 {
	q := make([]float64, len(c.Atoms))
	for i, at := range c.Atoms {
		q[i] = at.Charge
	}
	return q
}

//WithShells returns a copy of c carrying the given shells instead of
//the original basis. The coefficients are taken as given. The geometric
//quantities are recomputed, so a more diffuse synthetic basis gets a
//larger cutoff radius.
func (c *Cell) WithShells(shells []Shell) (*Cell, error) {
	if c == nil {
		panic(ErrNilCell)
	}
	return New(Params{
		Atoms:           c.Atoms,
		Shells:          shells,
		Lattice:         c.Lattice,
		Dimension:       c.Dimension,
		Precision:       c.Precision,
		RawCoefficients: true,
	})
}

//rcutEstimate returns the radius at which the most diffuse primitive of
//the basis, including its solid angle factor, drops below the requested
//precision. A few fixed-point iterations are enough for the logarithmic
//estimate to settle.
func rcutEstimate(shells []Shell, precision float64) float64 {
	rcut := 1.0
	for i := range shells {
		s := &shells[i]
		for k, a := range s.Exps {
			cAbs := math.Abs(s.Coefs[k])
			if cAbs == 0 {
				continue
			}
			r := 10.0
			for it := 0; it < 3; it++ {
				arg := 4 * math.Pi * math.Pow(r, float64(s.L+2)) * cAbs / precision
				if arg <= 1 {
					r = 1.0
					break
				}
				r = math.Sqrt(math.Log(arg) / a)
			}
			if r > rcut {
				rcut = r
			}
		}
	}
	return math.Min(rcut, 200)
}

//latticeImages enumerates the translations T = i*a1 + j*a2 + k*a3 with
//|T| within the cutoff radius, plus one safety shell.
func latticeImages(lat, rec [3][3]float64, rcut float64) *Vecs {
	var n [3]int
	for i := 0; i < 3; i++ {
		bn := math.Sqrt(rec[i][0]*rec[i][0]+rec[i][1]*rec[i][1]+rec[i][2]*rec[i][2]) / (2 * math.Pi)
		n[i] = int(math.Ceil(rcut*bn)) + 1
	}
	var data []float64
	for i := -n[0]; i <= n[0]; i++ {
		for j := -n[1]; j <= n[1]; j++ {
			for k := -n[2]; k <= n[2]; k++ {
				var t [3]float64
				for x := 0; x < 3; x++ {
					t[x] = float64(i)*lat[0][x] + float64(j)*lat[1][x] + float64(k)*lat[2][x]
				}
				data = append(data, t[0], t[1], t[2])
			}
		}
	}
	v, _ := NewVecs(data)
	return v
}
