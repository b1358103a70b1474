/*
 * check.go, part of polytop.
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
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/rmera/polytop/poly"
	"github.com/rmera/polytop/top"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var itp, pdb string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse an itp file, validate it and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := getContext(cmd)
			T, err := top.ReadFile(itp, c.Config.ITP.Defines...)
			if err != nil {
				return err
			}
			if err := T.Validate(); err != nil {
				return fmt.Errorf("%s: %w", itp, err)
			}
			if pdb != "" {
				if err := checkCoordinates(pdb, itp, c.Config.ITP.Defines); err != nil {
					return err
				}
			}
			return summary(cmd.OutOrStdout(), T)
		},
	}
	cmd.Flags().StringVar(&itp, "itp", "", "itp file (required)")
	cmd.Flags().StringVar(&pdb, "pdb", "", "PDB file that must match the itp atoms")
	cmd.MarkFlagRequired("itp")
	return cmd
}

//checkCoordinates loads the pdb and the itp into one molecule, which fails if
//their atoms don't match.
func checkCoordinates(pdb, itp string, defines []string) error {
	M := poly.New("")
	f, err := os.Open(pdb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := M.LoadCoordinates(f, ""); err != nil {
		return fmt.Errorf("%s: %w", pdb, err)
	}
	t, err := os.Open(itp)
	if err != nil {
		return err
	}
	defer t.Close()
	if err := M.LoadTopology(t, defines...); err != nil {
		return fmt.Errorf("%s and %s: %w", pdb, itp, err)
	}
	return nil
}

func summary(out io.Writer, T *top.Topology) error {
	table := tablewriter.NewWriter(out)
	table.Header("Item", "Value")
	table.Append([]string{"molecule", T.Name})
	table.Append([]string{"atoms", fmt.Sprint(T.Len())})
	table.Append([]string{"residues", fmt.Sprint(len(T.Residues()))})
	table.Append([]string{"charge groups", fmt.Sprint(len(T.ChargeGroups()))})
	for _, s := range T.Sections() {
		table.Append([]string{s, fmt.Sprint(len(T.Records(s)))})
	}
	table.Append([]string{"total charge", fmt.Sprintf("%.4f", T.TotalCharge())})
	if d := T.DroppedReferences(); d > 0 {
		table.Append([]string{"dropped references", fmt.Sprint(d)})
	}
	return table.Render()
}
