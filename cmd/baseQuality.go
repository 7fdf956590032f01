/*
Copyright © 2025 Godwin Mafireyi (mafireyi@gmail.com)
*/
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gmaffy/kitcomp/basequal"
	"github.com/spf13/cobra"
)

// baseQualityCmd represents the baseQuality command
var baseQualityCmd = &cobra.Command{
	Use:   "baseQuality <fastq_1> <fastq_2> [args]",
	Short: "Writes the raw read quality log of a FASTQ pair",
	Long: `baseQuality scans both mates of a read pair (plain or gzipped FASTQ) and reports, per read,
the number of reads and bases, the share of reads with average Phred >= 20 and >= 30 and the
share of bases with Phred < 20. It also checks that both files list the reads in the same order.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		outPath, outErr := cmd.Flags().GetString("out")
		if outErr != nil {
			log.Fatalf("Error getting out flag: %v", outErr)
		}

		fmt.Fprintf(os.Stderr, "Scanning %s and %s ...\n", args[0], args[1])
		r1, r2, err := basequal.ScanPair(args[0], args[1])
		if err != nil {
			log.Fatalf("Error scanning reads: %v", err)
		}

		var w io.Writer = os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				log.Fatalf("Error creating %s: %v", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := basequal.WriteLog(w, r1, r2); err != nil {
			log.Fatalf("Error writing quality log: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(baseQualityCmd)
	baseQualityCmd.Flags().StringP("out", "o", "", "log file to write (default stdout)")
}
