/*
 * universe.go, part of polytop.
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
	"os"

	"github.com/rmera/polytop/universe"
	"github.com/spf13/cobra"
)

func newUniverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "Inspect polytop snapshot files",
	}
	list := &cobra.Command{
		Use:   "list FILE",
		Short: "Print the molecules of a snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			U, err := loadUniverse(cmd, args[0])
			if err != nil {
				return err
			}
			return U.Info().Send(cmd.OutOrStdout())
		},
	}
	var molecule, out string
	export := &cobra.Command{
		Use:   "export FILE",
		Short: "Write one molecule of a snapshot as PDB and itp files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			U, err := loadUniverse(cmd, args[0])
			if err != nil {
				return err
			}
			M, err := U.Get(molecule)
			if err != nil {
				return err
			}
			if out == "" {
				out = molecule
			}
			return writeMolecule(M, out)
		},
	}
	export.Flags().StringVarP(&molecule, "molecule", "m", "", "name of the molecule (required)")
	export.Flags().StringVarP(&out, "out", "o", "", "prefix of the output files (default the molecule name)")
	export.MarkFlagRequired("molecule")
	cmd.AddCommand(list, export)
	return cmd
}

func loadUniverse(cmd *cobra.Command, name string) (*universe.Universe, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	U := universe.New(getContext(cmd).Log)
	if err := U.Load(f); err != nil {
		return nil, err
	}
	return U, nil
}
