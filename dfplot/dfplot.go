/*
 * dfplot.go, part of goaft.
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

//Package dfplot draws quick diagnostic plots for density fitting runs:
//the decay of the weighted Coulomb kernel over the plane-wave mesh and
//the behavior of the smearing exponent estimate. Handy when deciding
//whether a mesh or a precision target is converged.
package dfplot

import (
	"fmt"
	"math"

	"github.com/gocrystal/goaft"
	"github.com/gocrystal/goaft/cell"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Error is the concrete error type of the dfplot package.
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

func errorf(format string, args ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, args...), critical: true}
}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return p
}

//KernelDecay plots the mesh-weighted Coulomb kernel against the norm of
//the reciprocal vectors, one point per plane wave, and saves the result
//in png format. The extension must be included in plotname.
func KernelDecay(df *aft.AFTDF, title, plotname string) error {
	if df == nil {
		panic("Given nil density fitting object")
	}
	coul := df.WeightedCoulG([3]float64{}, false)
	g2 := cell.G2(df.Grid().G)
	pts := make(plotter.XYs, 0, len(coul))
	for g := range coul {
		if coul[g] == 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: math.Sqrt(g2[g]), Y: coul[g]})
	}
	p := basicPlot(title, "|G| (1/Bohr)", "w 4 pi / G^2")
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errorf("goaft/dfplot.KernelDecay: %v", err)
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)
	if err := p.Save(5*vg.Inch, 5*vg.Inch, plotname); err != nil {
		return errorf("goaft/dfplot.KernelDecay: %v", err)
	}
	return nil
}

//EtaCurve plots the estimated smearing exponent of the compensating
//charges against the decimal logarithm of the precision target, and
//saves the result. The extension must be included in plotname.
func EtaCurve(c *cell.Cell, cutoffs []float64, title, plotname string) error {
	if c == nil {
		panic("Given nil cell")
	}
	if len(cutoffs) == 0 {
		return errorf("goaft/dfplot.EtaCurve: no precision targets given")
	}
	pts := make(plotter.XYs, len(cutoffs))
	for i, cut := range cutoffs {
		pts[i].X = math.Log10(cut)
		pts[i].Y = aft.EstimateEta(c, cut)
	}
	p := basicPlot(title, "log10(precision)", "eta (1/Bohr^2)")
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errorf("goaft/dfplot.EtaCurve: %v", err)
	}
	p.Add(line)
	if err := p.Save(5*vg.Inch, 5*vg.Inch, plotname); err != nil {
		return errorf("goaft/dfplot.EtaCurve: %v", err)
	}
	return nil
}
