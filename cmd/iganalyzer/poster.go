package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	posterInput   string
	posterAccount string
)

// posterCmd represents the poster command
var posterCmd = &cobra.Command{
	Use:   "poster",
	Short: "Assemble the analytics poster layout",
	Long: `Assemble the analytics poster layout over a persisted collection.

The layout binds the computed report, the top and most recent posts, and the
locally fetched images into an ordered list of labeled panels, written as
poster_layout.json. Posts whose image was never fetched carry an explicit
missing-image marker so a renderer can substitute a placeholder.`,
	Example: `  # Build the poster layout for a collected profile
  iganalyzer poster --input ./downloads/natgeo/posts.json --account natgeo`,
	Run: runPoster,
}

func init() {
	rootCmd.AddCommand(posterCmd)

	posterCmd.Flags().StringVarP(&posterInput, "input", "i", "posts.json", "path to the posts.json collection")
	posterCmd.Flags().StringVarP(&posterAccount, "account", "a", "", "account name shown on the poster")
}

func runPoster(cmd *cobra.Command, args []string) {
	if posterAccount == "" {
		fmt.Fprintln(os.Stderr, "an account name is required: pass --account")
		os.Exit(1)
	}

	cfg := loadConfig()
	p := newPipeline(cfg)

	path, err := p.Poster(posterInput, posterAccount)
	exitOnError(err, "poster assembly failed")

	fmt.Printf("Poster layout written to %s\n", path)
}
