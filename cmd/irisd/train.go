package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irisd/internal/artifact"
	"irisd/internal/training"
)

func newTrainCmd(g *globalFlags) *cobra.Command {
	var opts training.Options
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the classifier on the bundled iris dataset and save the artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			log, closer, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			store, err := artifact.NewStore(cfg.Root, cfg.ModelName)
			if err != nil {
				return err
			}
			res, err := training.Run(store, opts, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "model saved to %s (accuracy %.4f on %d held-out samples)\n", res.Path, res.Accuracy, res.Test)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64Var(&opts.Seed, "seed", training.DefaultSeed, "Random seed for the split and the forest")
	f.Float64Var(&opts.TestRatio, "test-ratio", training.DefaultTestRatio, "Fraction of samples held out for evaluation")
	f.IntVar(&opts.Forest.Estimators, "estimators", 100, "Number of trees")
	f.IntVar(&opts.Forest.MaxDepth, "max-depth", 0, "Maximum tree depth (0 grows until pure)")
	return cmd
}
