package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/pkg/core/version"
)

var (
	GitCommit = "development"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "asfront v%s\n", version.Release)
		fmt.Fprintf(out, "  Tokenizer:  %s\n", version.Tokenizer)
		fmt.Fprintf(out, "  Parser:     %s\n", version.Parser)
		fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
