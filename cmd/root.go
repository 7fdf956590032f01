/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"log"
	"os"

	"github.com/gmaffy/kitcomp/utils"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kitcomp",
	Short: "Collects QC metrics of a WGBS library kit comparison",
	Long: `kitcomp gathers the QC reports of a WGBS kit comparison study into one JSON per variant:
1.	collect: parse raw read, trimming, alignment, BISCUITqc, Preseq and CpG reports
2.	baseQuality: write the raw read quality log of a FASTQ pair
3.	trinucMeth: summarize CAH/CAG/CTH/CTG methylation from context BED files
4.	report: summary tables and charts from a collected JSON
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to study config file (yaml)")
}

// loadConfig reads the --config file, or returns the defaults without one.
func loadConfig() utils.Config {
	cfg, err := utils.ReadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error reading config: %v", err)
	}
	return cfg
}
