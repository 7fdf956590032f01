/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gmaffy/kitcomp/collect"
	"github.com/gmaffy/kitcomp/utils"
	"github.com/spf13/cobra"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [args]",
	Short: "Collects all QC reports of the study into JSON",
	Long: `collect walks the analysis directory of the study, parses every report category and writes
one JSON object per sample:
	raw       -> kit_comp_collected_data.json
	subsampled -> kit_comp_collected_data_subsampled.json`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		variant, varErr := cmd.Flags().GetString("variant")
		if varErr != nil {
			log.Fatalf("Error getting variant flag: %v", varErr)
		}
		if cmd.Flags().Changed("top_dir") {
			cfg.TopDir, _ = cmd.Flags().GetString("top_dir")
		}
		if cmd.Flags().Changed("output_dir") {
			cfg.OutputDir, _ = cmd.Flags().GetString("output_dir")
		}
		if cmd.Flags().Changed("on_error") {
			cfg.OnError, _ = cmd.Flags().GetString("on_error")
		}

		policy, err := collect.ParseErrorPolicy(cfg.OnError)
		if err != nil {
			log.Fatalf("Error parsing on_error: %v", err)
		}

		var variants []collect.Variant
		if variant == "all" {
			variants = []collect.Variant{collect.Raw, collect.Subsampled}
		} else {
			v, err := collect.ParseVariant(variant)
			if err != nil {
				log.Fatalf("Error parsing variant: %v", err)
			}
			variants = []collect.Variant{v}
		}

		resume, _ := cmd.Flags().GetBool("resume")
		logFilePath := filepath.Join(cfg.OutputDir, cfg.LogFile)
		logged, err := utils.ParseLogFile(logFilePath)
		if err != nil {
			log.Fatalf("Error reading run log: %v", err)
		}

		logger, logFile, err := utils.NewRunLogger(cfg.OutputDir, cfg.LogFile)
		if err != nil {
			log.Fatalf("Error opening run log: %v", err)
		}
		defer logFile.Close()
		slog.SetDefault(logger)

		for _, v := range variants {
			outPath := filepath.Join(cfg.OutputDir, v.OutputName())
			if resume && utils.StageHasCompleted(logged, "collect", string(v)) {
				if _, err := os.Stat(outPath); err == nil {
					fmt.Printf("Skipping %s: %s already collected\n\n", v, outPath)
					continue
				}
			}

			vlog := logger.With("VARIANT", string(v))
			c := &collect.Collector{TopDir: cfg.TopDir, Policy: policy, Logger: vlog}

			fmt.Printf("Collecting %s data from %s ...\n\n", v, cfg.TopDir)
			vlog.Info("COLLECT", "PROGRAM", "collect", "SAMPLE", "ALL", "STATUS", "STARTED")

			agg, err := c.Collect(collect.Categories(v))
			if err != nil {
				vlog.Error("COLLECT", "PROGRAM", "collect", "SAMPLE", "ALL", "STATUS", fmt.Sprintf("FAILED - %v", err))
				log.Fatalf("Error collecting %s data: %v", v, err)
			}

			if err := agg.WriteJSON(outPath); err != nil {
				log.Fatalf("Error writing %s: %v", outPath, err)
			}
			vlog.Info("COLLECT", "PROGRAM", "collect", "SAMPLE", "ALL", "SAMPLES", agg.Len(), "OUTPUT", outPath, "STATUS", "COMPLETED")
			fmt.Printf("Wrote %d samples to %s\n", agg.Len(), outPath)

			if policy == collect.Skip {
				logged, err := utils.ParseLogFile(logFilePath)
				if err != nil {
					log.Fatalf("Error reading run log: %v", err)
				}
				if skipped := utils.SkippedFiles(logged, "collect", string(v)); len(skipped) > 0 {
					fmt.Printf("%d files skipped (see %s):\n", len(skipped), logFilePath)
					for _, f := range skipped {
						fmt.Printf("\t%s\n", f)
					}
				}
			}
			fmt.Printf("\n----------------------------------------------------------\n\n")
		}
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("variant", "v", "all", "raw, subsampled or all")
	collectCmd.Flags().StringP("top_dir", "t", "", "study analysis directory (overrides config)")
	collectCmd.Flags().StringP("output_dir", "o", "", "output directory (overrides config)")
	collectCmd.Flags().StringP("on_error", "e", "", "abort or skip (overrides config)")
	collectCmd.Flags().BoolP("resume", "r", false, "skip variants the run log marks as completed")
}
