package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/tokenizer"
	"github.com/apache/royale-compiler-sub012/pkg/core/cache"
)

var tokenizeComments bool

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize FILE",
	Short: "Print the disambiguated token stream of a file",
	Long: `Tokenizes FILE and prints every token with its position and kind.

Includes are expanded according to the project settings; comments are
printed with --comments.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().BoolVar(&tokenizeComments, "comments", false, "include line and block comments")
}

type tokenRow struct {
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		printError("failed to open file", err)
		return err
	}
	defer f.Close()

	provider := source.NewOSProvider(cache.DefaultConfig())
	defer provider.Close()

	opts := projectConfig.ParserOptions(logger)
	tokens, problems, err := tokenizer.GetTokens(path, f, tokenizer.Options{
		Provider:        provider,
		SourceRoots:     opts.SourceRoots,
		FollowIncludes:  opts.FollowIncludes,
		CollectComments: tokenizeComments || opts.CollectComments,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		rows := make([]tokenRow, 0, len(tokens))
		for _, t := range tokens {
			rows = append(rows, tokenRow{
				Kind: t.Kind.String(), Text: t.Text,
				Line: t.Line, Column: t.Column,
				Start: t.Start, End: t.End,
				File: t.SourcePath,
			})
		}
		return writeStructured(out, outputFormat, map[string]interface{}{
			"tokens":   rows,
			"problems": problemRows(problems.Sorted()),
		})
	}

	for _, t := range tokens {
		fmt.Fprintf(out, "%s %-24s %s\n",
			dimStyle.Render(fmt.Sprintf("%5d:%-4d", t.Line, t.Column)),
			t.Kind.String(),
			strconv.Quote(t.Text))
	}
	if problems.Len() > 0 {
		fmt.Fprintln(out)
		renderProblems(out, problems.Sorted())
	}
	return nil
}
