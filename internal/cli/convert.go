/*
 * convert.go, part of polytop.
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

	"github.com/rmera/polytop/top"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConvertCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Read an itp file and write it back in normalized form",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := getContext(cmd)
			T, err := top.ReadFile(in, c.Config.ITP.Defines...)
			if err != nil {
				return err
			}
			if d := T.DroppedReferences(); d > 0 {
				c.Log.Warn("records referencing unknown atoms dropped", zap.Int("dropped", d))
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := top.Write(w, T); err != nil {
				return err
			}
			c.Log.Debug("converted", zap.String("in", in), zap.Int("atoms", T.Len()), zap.Int("records", T.NRecords()))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "itp", "", "input itp file (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output itp file (default stdout)")
	cmd.MarkFlagRequired("itp")
	return cmd
}
