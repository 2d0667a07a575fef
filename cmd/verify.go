package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgopt/internal/hasher"
	"imgopt/internal/report"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <report.json>",
	Short: "Check that files written by a previous run are still intact",
	Long: `Re-reads a report.json and confirms every written file still exists with
the recorded byte size and content hash. Paths are resolved exactly as
recorded, so run verify from the directory the optimize run used.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, args []string) error {
	rep, err := report.ReadJSON(args[0])
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	problems := verifyReport(rep)

	written := 0
	for _, f := range rep.Files {
		if f.OutPath != "" {
			written++
		}
	}

	if len(problems) == 0 {
		fmt.Println("  ✓ Report is consistent")
		fmt.Printf("  ✓ %d written files present with matching size and hash\n", written)
		return nil
	}

	fmt.Printf("  ✗ Report has %d problem(s):\n", len(problems))
	for _, p := range problems {
		fmt.Printf("    • %s\n", p)
	}
	return fmt.Errorf("verification failed with %d problems", len(problems))
}

func verifyReport(rep *report.BatchReport) []string {
	var problems []string

	// Summary totals must match the per-file rows.
	var srcSum, outSum int64
	processed, skipped := 0, 0
	for _, f := range rep.Files {
		srcSum += f.SrcBytes
		outSum += f.OutBytes
		if f.Changed {
			processed++
		} else {
			skipped++
		}
	}
	if rep.Summary.TotalFiles != len(rep.Files) {
		problems = append(problems, fmt.Sprintf("summary.total_files mismatch: %d != %d",
			rep.Summary.TotalFiles, len(rep.Files)))
	}
	if rep.Summary.Processed != processed {
		problems = append(problems, fmt.Sprintf("summary.processed mismatch: %d != %d",
			rep.Summary.Processed, processed))
	}
	if rep.Summary.Skipped != skipped {
		problems = append(problems, fmt.Sprintf("summary.skipped mismatch: %d != %d",
			rep.Summary.Skipped, skipped))
	}
	if rep.Summary.TotalSrcBytes != srcSum {
		problems = append(problems, fmt.Sprintf("summary.total_src_bytes mismatch: %d != %d",
			rep.Summary.TotalSrcBytes, srcSum))
	}
	if rep.Summary.TotalOutBytes != outSum {
		problems = append(problems, fmt.Sprintf("summary.total_out_bytes mismatch: %d != %d",
			rep.Summary.TotalOutBytes, outSum))
	}

	// Every written file must still be on disk, byte for byte.
	for _, f := range rep.Files {
		if f.OutPath == "" {
			continue
		}
		info, err := os.Stat(f.OutPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: file not found", f.OutPath))
			continue
		}
		if info.Size() != f.OutBytes {
			problems = append(problems, fmt.Sprintf("%s: size mismatch: report=%d, disk=%d",
				f.OutPath, f.OutBytes, info.Size()))
			continue
		}
		if f.OutputHash == "" {
			continue
		}
		sum, err := hasher.SumFile(f.OutPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: hash: %v", f.OutPath, err))
			continue
		}
		if sum != f.OutputHash {
			problems = append(problems, fmt.Sprintf("%s: hash mismatch: report=%s, disk=%s",
				f.OutPath, f.OutputHash, sum))
		}
	}

	return problems
}
