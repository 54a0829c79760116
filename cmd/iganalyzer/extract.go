package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	extractAccount string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <response.json>",
	Short: "Collect posts from a captured API response file",
	Long: `Collect posts from a previously captured API response document
instead of the live profile API.

The post collection is located anywhere inside the document structure, so
both raw GraphQL responses and wrapped captures work without pointing at the
exact path. Image posts are normalized into the same canonical collection
shape the live scrape produces, and their images are fetched.`,
	Example: `  # Extract posts from a captured response
  iganalyzer extract response.json --account natgeo`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractAccount, "account", "a", "", "account name for the output folder and artifacts")
}

func runExtract(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	p := newPipeline(cfg)

	result, err := p.Extract(args[0], extractAccount)
	exitOnError(err, "extraction failed")

	fmt.Printf("Extracted %d posts (%d rejected)\n", len(result.Posts), result.Rejected)
	fmt.Printf("Images: %d fetched, %d skipped, %d failed\n",
		result.Tally.Fetched, result.Tally.Skipped, result.Tally.Failed)
	fmt.Printf("Output: %s\n", result.OutputDir)
}
