/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmaffy/kitcomp/collect"
	"github.com/gmaffy/kitcomp/reports"
	"github.com/gmaffy/kitcomp/trinuc"
	"github.com/spf13/cobra"
)

// trinucMethCmd represents the trinucMeth command
var trinucMethCmd = &cobra.Command{
	Use:   "trinucMeth -i <context bed files> [args]",
	Short: "Summarizes CAH/CAG/CTH/CTG methylation per sample",
	Long: `trinucMeth averages the methylation of CpH trinucleotide contexts in BISCUIT context BED files
and writes one <sample>_<tag>.tsv per input, the files read by collect.`,
	Run: func(cmd *cobra.Command, args []string) {
		inputs, inErr := cmd.Flags().GetStringSlice("input")
		if inErr != nil {
			log.Fatalf("Error getting input flag: %v", inErr)
		}
		ext, extErr := cmd.Flags().GetString("ext")
		if extErr != nil {
			log.Fatalf("Error getting ext flag: %v", extErr)
		}
		tag, tagErr := cmd.Flags().GetString("tag")
		if tagErr != nil {
			log.Fatalf("Error getting tag flag: %v", tagErr)
		}
		outDir, outErr := cmd.Flags().GetString("output_dir")
		if outErr != nil {
			log.Fatalf("Error getting output_dir flag: %v", outErr)
		}
		if outDir == "" {
			outDir = filepath.Join(loadConfig().TopDir, collect.TrinucDir)
		}

		var files []string
		for _, in := range inputs {
			matches, err := filepath.Glob(in)
			if err != nil {
				log.Fatalf("Bad input pattern %s: %v", in, err)
			}
			files = append(files, matches...)
		}
		if len(files) == 0 {
			log.Fatalf("No context files match %s", strings.Join(inputs, ", "))
		}
		if err := os.MkdirAll(outDir, 0755); err != nil {
			log.Fatalf("Error creating %s: %v", outDir, err)
		}

		for _, path := range files {
			sample := reports.SampleName(path, ext)
			fmt.Printf("Summarizing %s ...\n", sample)

			s, err := trinuc.Summarize(path)
			if err != nil {
				log.Fatalf("Error summarizing %s: %v", path, err)
			}
			outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.tsv", sample, tag))
			f, err := os.Create(outPath)
			if err != nil {
				log.Fatalf("Error creating %s: %v", outPath, err)
			}
			if err := trinuc.WriteSummary(f, s); err != nil {
				f.Close()
				log.Fatalf("Error writing %s: %v", outPath, err)
			}
			if err := f.Close(); err != nil {
				log.Fatalf("Error closing %s: %v", outPath, err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(trinucMethCmd)
	trinucMethCmd.Flags().StringSliceP("input", "i", nil, "context BED files or glob patterns")
	trinucMethCmd.Flags().StringP("ext", "x", ".c.context.sorted.bed.gz", "file name suffix stripped to get the sample name")
	trinucMethCmd.Flags().StringP("tag", "g", "raw", "output tag: raw or sub")
	trinucMethCmd.Flags().StringP("output_dir", "o", "", "output directory (default <top_dir>/"+collect.TrinucDir+")")
	trinucMethCmd.MarkFlagRequired("input")
}
