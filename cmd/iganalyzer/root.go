package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"iganalyzer/pkg/config"
	"iganalyzer/pkg/errors"
	"iganalyzer/pkg/instagram"
	"iganalyzer/pkg/logger"
	"iganalyzer/pkg/pipeline"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	outputDir  string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "iganalyzer",
	Short: "Instagram profile analytics and poster generator",
	Long: `iganalyzer collects the image posts of a public Instagram profile,
computes an engagement report over the collection, and assembles the data
for a shareable analytics poster.

The pipeline runs in stages, each leaving a durable artifact:

  scrape    collect posts from the live profile API and fetch images
  extract   collect posts from a captured API response file instead
  analyze   compute report.json over a persisted collection
  poster    assemble the poster layout over a persisted collection`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logLevel = "error"
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .iganalyzer.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`iganalyzer {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads configuration with the global flag overrides applied and
// initializes the logger.
func loadConfig() *config.Config {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// newPipeline wires the pipeline over the live source. The source is
// created even for stages that never touch it; it is cheap and stateless.
// Blob downloads get their own client so the fetch timeout can differ from
// the API timeout.
func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	client := instagram.NewClient(&cfg.Source, cfg.Fetch.MaxRetries, nil)
	source := instagram.NewSource(client, cfg.Source.PageSize, nil)

	blobCfg := cfg.Source
	blobCfg.Timeout = cfg.Fetch.Timeout
	blobs := instagram.NewClient(&blobCfg, cfg.Fetch.MaxRetries, nil)

	return pipeline.New(cfg, liveSource{source}, blobs, nil)
}

// liveSource adapts the concrete iterator type to the pipeline interface.
type liveSource struct {
	*instagram.Source
}

func (s liveSource) ListPosts(userID string, limit int) pipeline.PostIterator {
	return s.Source.ListPosts(userID, limit)
}

// exitOnError prints a pipeline failure and exits. An empty collection is
// not a failure: the run simply has nothing to report on.
func exitOnError(err error, context string) {
	if err == nil {
		return
	}

	if errors.IsKind(err, errors.KindEmptyCollection) {
		fmt.Println("No posts found. Nothing to do.")
		os.Exit(0)
	}

	logger.WithError(err).Error(context)
	fmt.Fprintf(os.Stderr, "%s: %v\n", context, err)
	os.Exit(1)
}
