package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"iganalyzer/pkg/instagram"
	"iganalyzer/pkg/logger"
)

var (
	scrapeMax int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Collect posts and images from a public profile",
	Long: `Collect the image posts of a public Instagram profile.

The command fetches the profile, walks its timeline, normalizes each image
post into the canonical collection shape, writes posts.json into the output
directory and downloads the post images alongside it. Video posts and
malformed records are skipped, never fatal.

Existing images are never refetched, so interrupted runs can simply be
repeated.`,
	Example: `  # Collect a profile with default settings
  iganalyzer scrape natgeo

  # Collect at most 50 posts into a specific directory
  iganalyzer scrape natgeo --max 50 --output ./data`,
	Args: cobra.ExactArgs(1),
	Run:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVar(&scrapeMax, "max", 0, "maximum number of posts to collect (0 = all)")
}

func runScrape(cmd *cobra.Command, args []string) {
	username := instagram.SanitizeUsername(strings.TrimSpace(args[0]))
	if !instagram.IsValidUsername(username) {
		fmt.Fprintf(os.Stderr, "invalid username: %q\n", args[0])
		os.Exit(1)
	}

	cfg := loadConfig()
	p := newPipeline(cfg)

	logger.WithField("username", username).Info("starting collection")

	result, err := p.Scrape(username, scrapeMax)
	exitOnError(err, "collection failed")

	fmt.Printf("Collected %d posts for @%s (%d rejected)\n", len(result.Posts), username, result.Rejected)
	fmt.Printf("Images: %d fetched, %d skipped, %d failed\n",
		result.Tally.Fetched, result.Tally.Skipped, result.Tally.Failed)
	fmt.Printf("Output: %s\n", result.OutputDir)
}
