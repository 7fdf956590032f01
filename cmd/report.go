/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/gmaffy/kitcomp/report"
	"github.com/gmaffy/kitcomp/utils"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <collected json> [args]",
	Short: "Writes summary tables and charts for a collected JSON",
	Long: `report writes, in the output directory:
	kit_comp_samples.csv   samples x metrics, ordered as in the config sample table
	kit_comp_kits.csv      per kit mean and standard deviation of each metric
	kit_comp_overview.html one bar chart per metric`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		metricPaths, mErr := cmd.Flags().GetStringSlice("metric")
		if mErr != nil {
			log.Fatalf("Error getting metric flag: %v", mErr)
		}
		if cmd.Flags().Changed("output_dir") {
			cfg.OutputDir, _ = cmd.Flags().GetString("output_dir")
		}

		samples, err := utils.NewSampleTable(cfg.Samples)
		if err != nil {
			log.Fatalf("Error reading sample table: %v", err)
		}
		collected, err := report.LoadCollected(args[0])
		if err != nil {
			log.Fatalf("Error loading %s: %v", args[0], err)
		}

		fmt.Printf("Summarizing %d samples ...\n", len(collected))
		if err := report.Write(collected, samples, metricPaths, cfg.OutputDir); err != nil {
			log.Fatalf("Error writing report: %v", err)
		}
		fmt.Printf("Report written to %s\n", cfg.OutputDir)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSliceP("metric", "m", nil, "dotted metric paths to summarize (default: a fixed overview set)")
	reportCmd.Flags().StringP("output_dir", "o", "", "output directory (overrides config)")
}
