/*
 * deviations.go, part of polytop.
 *
 * Copyright 2025 The polytop authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package chemplot draws the per-atom deviations of a superposition using gonum/plot.
package chemplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/rmera/polytop/align"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Default size of the figures.
var (
	DefaultWidth  = 12 * vg.Centimeter
	DefaultHeight = 8 * vg.Centimeter
)

//ErrNoData is returned when there are no deviations to plot.
var ErrNoData = errors.New("chemplot: no deviations to plot")

//DeviationsPlot returns a bar chart with the deviation of each pair of atoms
//after the fit F. Bars above threshold are drawn in a different color, and a
//dashed line marks the threshold, if it is positive.
func DeviationsPlot(F *align.Fit, threshold float64, title string) (*plot.Plot, error) {
	if F == nil || len(F.Deviations) == 0 {
		return nil, ErrNoData
	}
	if len(F.Labels) != len(F.Deviations) {
		return nil, fmt.Errorf("chemplot: %d labels for %d deviations", len(F.Labels), len(F.Deviations))
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("RMSD %.3f", F.RMSD)
	}
	p.X.Label.Text = "Atom"
	p.Y.Label.Text = "Deviation"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	//two charts on the same positions, each bar is zero in one of them.
	within := make(plotter.Values, len(F.Deviations))
	over := make(plotter.Values, len(F.Deviations))
	var nover int
	for i, d := range F.Deviations {
		if threshold > 0 && d > threshold {
			over[i] = d
			nover++
			continue
		}
		within[i] = d
	}
	w := barWidth(len(F.Deviations))
	bars, err := plotter.NewBarChart(within, w)
	if err != nil {
		return nil, fmt.Errorf("chemplot: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	if nover > 0 {
		high, err := plotter.NewBarChart(over, w)
		if err != nil {
			return nil, fmt.Errorf("chemplot: %w", err)
		}
		high.LineStyle.Width = vg.Length(0)
		high.Color = plotutil.Color(0)
		p.Add(high)
		p.Legend.Add("above threshold", high)
	}
	if threshold > 0 {
		line, err := thresholdLine(threshold, len(F.Deviations))
		if err != nil {
			return nil, err
		}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%.2f", threshold), line)
		p.Y.Max = math.Max(p.Y.Max, threshold*1.1)
	}
	p.NominalX(F.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

//narrower bars for many atoms, so the labels don't touch.
func barWidth(n int) vg.Length {
	switch {
	case n > 40:
		return vg.Points(4)
	case n > 15:
		return vg.Points(8)
	default:
		return vg.Points(14)
	}
}

func thresholdLine(threshold float64, n int) (*plotter.Line, error) {
	pts := plotter.XYs{{X: -0.5, Y: threshold}, {X: float64(n) - 0.5, Y: threshold}}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("chemplot: %w", err)
	}
	line.LineStyle.Color = color.Gray{Y: 80}
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	return line, nil
}

//Save writes p to filename. The format is taken from the extension
//(png, svg, pdf, eps, jpg, tif). Non-positive sizes take the defaults.
func Save(p *plot.Plot, width, height vg.Length, filename string) error {
	width, height = size(width, height)
	if err := p.Save(width, height, filename); err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	return nil
}

//Write writes p to w in the given format (png, svg, pdf...).
func Write(p *plot.Plot, w io.Writer, width, height vg.Length, format string) error {
	width, height = size(width, height)
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	return nil
}

func size(width, height vg.Length) (vg.Length, vg.Length) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}
