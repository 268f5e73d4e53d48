package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"irisd/internal/artifact"
	"irisd/internal/inference"
	"irisd/pkg/types"
)

func newPredictCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "predict SEPAL_LENGTH SEPAL_WIDTH PETAL_LENGTH PETAL_WIDTH",
		Short:   "Classify one flower from the saved artifact and print the JSON result",
		Example: "  irisd predict 5.1 3.5 1.4 0.2",
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [4]float64
			for i, a := range args {
				f, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("%s: not a number: %q", inference.Schema[i].Name, a)
				}
				v[i] = f
			}
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			store, err := artifact.NewStore(cfg.Root, cfg.ModelName)
			if err != nil {
				return err
			}
			svc, err := inference.New(inference.StoreLoader{Store: store}, inference.WithLogger(zerolog.Nop()))
			if err != nil {
				return err
			}
			if err := svc.Initialize(); err != nil {
				return err
			}
			resp, err := svc.Predict(types.NewPredictRequest(v[0], v[1], v[2], v[3]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}
