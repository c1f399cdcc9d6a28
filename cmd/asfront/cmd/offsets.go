package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/internal/parser"
)

var offsetsCmd = &cobra.Command{
	Use:   "offsets FILE [OFFSET...]",
	Short: "Print the include offset cues of a file",
	Long: `Parses FILE and prints the offset cues recorded while includes were
expanded. Each OFFSET given is an absolute offset in the expanded stream
and is mapped back to its file and local offset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOffsets,
}

func init() {
	rootCmd.AddCommand(offsetsCmd)
}

type offsetRow struct {
	Absolute int    `json:"absolute" yaml:"absolute"`
	File     string `json:"file" yaml:"file"`
	Local    int    `json:"local" yaml:"local"`
}

func runOffsets(cmd *cobra.Command, args []string) error {
	var absolutes []int
	for _, a := range args[1:] {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("offset %q is not a number", a)
		}
		absolutes = append(absolutes, n)
	}

	res, err := parser.ParseFile(args[0], projectConfig.ParserOptions(logger))
	if err != nil {
		printError("failed to parse", err)
		return err
	}

	var mapped []offsetRow
	for _, abs := range absolutes {
		if file, local, ok := res.Lookup.Lookup(abs); ok {
			mapped = append(mapped, offsetRow{Absolute: abs, File: file, Local: local})
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, map[string]interface{}{
			"cues":    res.Cues,
			"offsets": mapped,
		})
	}

	renderHeader(out, "cues")
	fmt.Fprintf(out, "%10s %10s  %s\n", "absolute", "adjustment", "file")
	for _, c := range res.Cues {
		fmt.Fprintf(out, "%10d %10d  %s\n", c.Absolute, c.Adjustment, c.Filename)
	}
	if len(mapped) > 0 {
		fmt.Fprintln(out)
		renderHeader(out, "offsets")
		for _, m := range mapped {
			fmt.Fprintf(out, "%10d -> %s:%d\n", m.Absolute, m.File, m.Local)
		}
	}
	return nil
}
