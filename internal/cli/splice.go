/*
 * splice.go, part of polytop.
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

package cli

import (
	"fmt"
	"os"

	"github.com/rmera/polytop/align"
	"github.com/rmera/polytop/chemjson"
	"github.com/rmera/polytop/chemplot"
	"github.com/rmera/polytop/universe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

type spliceOptions struct {
	refPDB, refITP       string
	targetPDB, targetITP string
	refFragments         []string
	targetFragments      []string
	units                []string
	maxRMSD              float64
	out                  string
	plot                 string
	snapshot             string
}

func newSpliceCmd() *cobra.Command {
	o := &spliceOptions{}
	cmd := &cobra.Command{
		Use:   "splice",
		Short: "Superimpose fragments of a target on a reference and merge the two molecules",
		Long: "Fragments are given as NAME=serials, e.g. F1=1,2,5-7, with the 1-based atom\n" +
			"serials of the PDB files. Each --unit TARGET:REFERENCE[:over|:under] pairs a\n" +
			"target fragment with a reference fragment; with over the target atoms are kept\n" +
			"where the two overlap, with under the reference atoms are.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplice(cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.refPDB, "ref-pdb", "", "reference PDB file (required)")
	f.StringVar(&o.refITP, "ref-itp", "", "reference itp file")
	f.StringVar(&o.targetPDB, "target-pdb", "", "target PDB file (required)")
	f.StringVar(&o.targetITP, "target-itp", "", "target itp file")
	f.StringArrayVar(&o.refFragments, "ref-fragment", nil, "reference fragment NAME=serials (repeatable)")
	f.StringArrayVar(&o.targetFragments, "target-fragment", nil, "target fragment NAME=serials (repeatable)")
	f.StringArrayVar(&o.units, "unit", nil, "correspondence TARGET:REFERENCE[:over|:under] (repeatable)")
	f.Float64Var(&o.maxRMSD, "max-rmsd", align.DefaultOptions().MaxRMSD, "warn when the fit RMSD is larger than this (A)")
	f.StringVarP(&o.out, "out", "o", "spliced", "prefix of the output .pdb and .itp files")
	f.StringVar(&o.plot, "plot", "", "write the per-atom deviations of the fit to this figure (.png, .svg...)")
	f.StringVar(&o.snapshot, "snapshot", "", "save the universe with both molecules to this file")
	cmd.MarkFlagRequired("ref-pdb")
	cmd.MarkFlagRequired("target-pdb")
	return cmd
}

func runSplice(cmd *cobra.Command, o *spliceOptions) error {
	c := getContext(cmd)
	cfg := c.Config
	if len(o.units) == 0 {
		return fmt.Errorf("splice: at least one --unit is needed")
	}
	units := make([]align.Unit, 0, len(o.units))
	for _, s := range o.units {
		u, err := parseUnit(s)
		if err != nil {
			return err
		}
		units = append(units, u)
	}
	U := universe.New(c.Log)
	ref, err := loadMolecule(U, "reference", o.refPDB, o.refITP, cfg.ITP.Defines)
	if err != nil {
		return err
	}
	tg, err := loadMolecule(U, "target", o.targetPDB, o.targetITP, cfg.ITP.Defines)
	if err != nil {
		return err
	}
	if err := addFragments(ref, o.refFragments, cfg.Fragment.Color); err != nil {
		return err
	}
	if err := addFragments(tg, o.targetFragments, cfg.Fragment.Color); err != nil {
		return err
	}

	S := align.NewSession(ref, &align.Options{Log: c.Log, MaxRMSD: o.maxRMSD})
	A, err := S.Add(tg)
	if err != nil {
		return err
	}
	if err := A.MapUnitSelect(units); err != nil {
		S.DiscardAll()
		return err
	}
	fit, err := A.Superpose()
	if err != nil {
		S.DiscardAll()
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pairs\t%d\nrmsd\t%.4f\n", len(fit.Deviations), fit.RMSD)
	if o.plot != "" {
		if err := plotFit(fit, o.maxRMSD, o.plot, cfg.Plot.Width, cfg.Plot.Height); err != nil {
			c.Log.Warn("deviation plot not written", zap.String("file", o.plot), zap.Error(err))
		}
	}
	if err := S.FinishAll(); err != nil {
		return err
	}
	if err := writeMolecule(ref, o.out); err != nil {
		return err
	}
	fmt.Fprintf(out, "atoms\t%d\ntotal charge\t%.4f\n", ref.Len(), ref.TotalCharge)
	if o.snapshot != "" {
		comp, err := chemjson.ParseCompression(cfg.Snapshot.Compression)
		if err != nil {
			return err
		}
		f, err := os.Create(o.snapshot)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := U.Save(f, comp); err != nil {
			return err
		}
	}
	c.Log.Info("splice written", zap.String("prefix", o.out), zap.Int("atoms", ref.Len()))
	return nil
}

//width and height are in cm.
func plotFit(fit *align.Fit, threshold float64, name string, width, height float64) error {
	p, err := chemplot.DeviationsPlot(fit, threshold, "")
	if err != nil {
		return err
	}
	return chemplot.Save(p, vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter, name)
}
