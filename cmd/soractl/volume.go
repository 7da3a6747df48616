package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/soracore/internal/audio"
)

func newVolumeCmd() *cobra.Command {
	multiplier := audio.DefaultMultiplier
	cmd := &cobra.Command{
		Use:     "volume <value>...",
		Short:   "Convert linear volumes to mixer decibels",
		Example: "  soractl volume 1 0.5 0\n  soractl volume --multiplier 20 0.5",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if multiplier <= 0 {
				return fmt.Errorf("multiplier must be positive, got %g", multiplier)
			}
			for _, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid volume %q: %w", a, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%g\t%.4f dB\n", v, audio.Level(v, multiplier))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&multiplier, "multiplier", multiplier, "Decibels per decade of linear volume")
	return cmd
}
