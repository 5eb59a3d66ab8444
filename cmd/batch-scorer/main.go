package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/app"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/batch"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/config"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func rootCmd() *cobra.Command {
	var (
		input, output                     string
		model, freqEncoder, targetEncoder string
		schemaPath                        string
		strict                            bool
	)
	cmd := &cobra.Command{
		Use:   "batch-scorer",
		Short: "score a CSV of housing records with the trained model and write the predictions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Configs
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.AlignStrict = strict
			}
			refs := cfg.Refs()
			override(&refs.Model, model)
			override(&refs.FreqEncoder, freqEncoder)
			override(&refs.TargetEncoder, targetEncoder)
			override(&refs.Schema, schemaPath)

			o, err := app.NewOrchestrator(&cfg)
			if err != nil {
				return err
			}
			store, err := app.NewStore(&cfg)
			if err != nil {
				return err
			}
			rows, err := batch.ScoreFile(context.Background(), o, artifacts.NewLoader(store), refs, input, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d predictions to %s\n", rows, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "path to the input CSV")
	cmd.Flags().StringVar(&output, "output", "predictions.csv", "path of the CSV to write")
	cmd.Flags().StringVar(&model, "model", "", "model artifact path (defaults to MODEL_NAME under MODELS_DIR)")
	cmd.Flags().StringVar(&freqEncoder, "freq_encoder", "", "frequency encoder artifact path")
	cmd.Flags().StringVar(&targetEncoder, "target_encoder", "", "target encoder artifact path")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "reference feature CSV whose header is the training schema")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the features drift from the training schema")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// override replaces the local path of ref when a flag names one.
func override(ref *artifacts.Ref, path string) {
	if path != "" {
		ref.Path = path
	}
}

func main() {
	viper.AutomaticEnv()
	viper.SetDefault("APP_NAME", "batch-scorer")
	logger.Init()
	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("batch scoring failed")
		os.Exit(1)
	}
}
