package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"iganalyzer/pkg/models"
)

var (
	analyzeInput string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the analytics report over a persisted collection",
	Long: `Compute engagement and activity analytics over a posts.json
collection and write report.json next to it.

The report covers totals and averages for likes and comments, posting
activity by weekday, hour and month, caption and hashtag statistics, and a
one-sentence account insight.`,
	Example: `  # Analyze a collected profile
  iganalyzer analyze --input ./downloads/natgeo/posts.json`,
	Run: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "posts.json", "path to the posts.json collection")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	p := newPipeline(cfg)

	rep, path, err := p.Analyze(analyzeInput)
	exitOnError(err, "analysis failed")

	printReport(rep)
	fmt.Printf("\nReport written to %s\n", path)
}

func printReport(rep *models.Report) {
	fmt.Println("=== ACCOUNT REPORT ===")
	fmt.Printf("Posts:            %d\n", rep.TotalPosts)
	fmt.Printf("Period:           %s - %s\n",
		formatReportDate(rep.FirstPostTimestamp), formatReportDate(rep.LastPostTimestamp))
	fmt.Printf("Total likes:      %d (avg %.1f)\n", rep.TotalLikes, rep.AvgLikes)
	fmt.Printf("Total comments:   %d (avg %.1f)\n", rep.TotalComments, rep.AvgComments)
	fmt.Printf("Top post likes:   %d\n", rep.TopPostLikes)
	fmt.Printf("Most active day:  %s\n", rep.MostActiveDay)
	fmt.Printf("Avg caption:      %.1f chars\n", rep.AvgCaptionLength)
	fmt.Printf("Hashtags used:    %d\n", rep.TotalHashtags)
	fmt.Printf("\n%s\n", rep.Insight)
}

func formatReportDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}
