package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"iganalyzer/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage iganalyzer configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (IGANALYZER_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create a configuration file with the default values for all
available options.

The file is created as '.iganalyzer.yaml' in the current directory unless a
different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after merging all sources:
command line flags, environment variables, the configuration file and
defaults.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".iganalyzer.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, "configuration file already exists: %s\n", configPath)
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create configuration file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration file created: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust the defaults to taste")
	fmt.Println("2. Run 'iganalyzer config show' to verify the effective configuration")
	fmt.Println("3. Start collecting with 'iganalyzer scrape <username>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
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

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to format configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (IGANALYZER_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (auto-detected)")
	}
	fmt.Println("4. Default values")
}
