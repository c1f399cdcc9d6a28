package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/pkg/core/config"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

var (
	cfgFile      string
	logLevel     string
	outputFormat string

	projectConfig *config.Config
	logger        *aslog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "asfront",
	Short: "ActionScript 3 tokenizer and parser front end",
	Long: `asfront tokenizes and parses ActionScript 3 compilation units.

It expands include directives, evaluates conditional compilation
constants, repairs malformed input and reports every problem it finds
together with the best-effort syntax tree.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "project file (default: ./asfront.toml or $ASFRONT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		projectConfig, err = config.Load(cfgFile)
	} else {
		projectConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if logLevel != "" {
		projectConfig.Logging.Level = logLevel
		if err := projectConfig.Validate(); err != nil {
			return err
		}
	}
	switch outputFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	logger = projectConfig.Logger()
	aslog.SetDefault(logger)
	return nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
