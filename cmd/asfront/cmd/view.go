package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/internal/tui/tokenviewer"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Browse the tokens, tree and problems of a file",
	Long: `Opens an interactive terminal view of FILE.

Keys:
  tab         switch between tokens and problems
  c           show or hide comments
  t           show the syntax tree instead of tokens
  /           search token text
  r           parse again
  g / G       jump to top / bottom
  q, Ctrl+C   quit`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	opts := projectConfig.ParserOptions(logger)
	// log output would corrupt the alternate screen
	opts.Logger = aslog.Discard()
	return tokenviewer.Run(tokenviewer.Config{Path: args[0], Options: opts})
}
