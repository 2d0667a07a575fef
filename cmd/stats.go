package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"imgopt/internal/report"
	"imgopt/internal/tui"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report.json>",
	Short: "Display statistics for a previous optimization run",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for the report inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, "report.json")
	}

	rep, err := report.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	printStats(rep)
	return nil
}

func printStats(rep *report.BatchReport) {
	s := rep.Summary

	fmt.Println()
	fmt.Printf("  Created:       %s\n", rep.CreatedUTC)
	fmt.Printf("  Files:         %d  (%d processed, %d skipped)\n", s.TotalFiles, s.Processed, s.Skipped)
	fmt.Printf("  Input size:    %s\n", tui.FormatBytes(s.TotalSrcBytes))
	fmt.Printf("  Output size:   %s\n", tui.FormatBytes(s.TotalOutBytes))
	if s.TotalSrcBytes > 0 {
		ratio := float64(s.TotalOutBytes) / float64(s.TotalSrcBytes) * 100
		fmt.Printf("  Compression:   %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-extension breakdown of written files.
	type extStat struct {
		count int
		saved int64
	}
	extStats := map[string]extStat{}
	for _, f := range rep.Files {
		if f.OutPath == "" {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.OutPath), "."))
		es := extStats[ext]
		es.count++
		es.saved += f.SavedBytes
		extStats[ext] = es
	}
	if len(extStats) > 0 {
		var exts []string
		for ext := range extStats {
			exts = append(exts, ext)
		}
		sort.Strings(exts)
		fmt.Println("  Output breakdown:")
		for _, ext := range exts {
			es := extStats[ext]
			fmt.Printf("    %-6s  %4d files  saved %s\n", ext, es.count, tui.FormatBytes(es.saved))
		}
		fmt.Println()
	}

	// Top 10 biggest savers.
	files := make([]report.FileRecord, len(rep.Files))
	copy(files, rep.Files)
	sort.Slice(files, func(i, j int) bool {
		return files[i].SavedBytes > files[j].SavedBytes
	})
	n := len(files)
	if n > 10 {
		n = 10
	}
	if n > 0 && files[0].SavedBytes > 0 {
		fmt.Printf("  Top %d savers (original → optimized):\n", n)
		for _, f := range files[:n] {
			if f.SavedBytes <= 0 {
				break
			}
			fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)\n",
				filepath.Base(f.SrcPath),
				tui.FormatBytes(f.SrcBytes),
				tui.FormatBytes(f.OutBytes),
				f.SavedPercent,
			)
		}
		fmt.Println()
	}

	// Skip reasons.
	reasons := map[string]int{}
	for _, f := range rep.Files {
		if f.SkipReason != "" {
			reasons[f.SkipReason]++
		}
	}
	if len(reasons) > 0 {
		var names []string
		for r := range reasons {
			names = append(names, r)
		}
		sort.Strings(names)
		fmt.Printf("  Skips (%d):\n", s.Skipped)
		for _, r := range names {
			fmt.Printf("    %-24s %d\n", r, reasons[r])
		}
		fmt.Println()
	}
}
