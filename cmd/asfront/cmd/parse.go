package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/apache/royale-compiler-sub012/internal/buffer"
	"github.com/apache/royale-compiler-sub012/internal/parser"
	"github.com/apache/royale-compiler-sub012/internal/service"
	"github.com/apache/royale-compiler-sub012/internal/store"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	coregrpc "github.com/apache/royale-compiler-sub012/pkg/core/grpc"
)

var (
	parseStore   bool
	parseDefer   bool
	parseBuffer  string
	parseDefines []string
	parseRemote  string
	parseStrict  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a file and print its syntax tree and problems",
	Long: `Parses FILE and prints the syntax tree as an S-expression followed by
every problem found.

Examples:
  asfront parse src/Main.as
  asfront parse src/Main.as -D CONFIG::DEBUG=true --buffer array
  asfront parse src/Main.as --store -o yaml
  asfront parse src/Main.as --remote 127.0.0.1:9310`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseStore, "store", false, "record the session in the parse history")
	parseCmd.Flags().BoolVar(&parseDefer, "defer", false, "skip function bodies")
	parseCmd.Flags().StringVar(&parseBuffer, "buffer", "", "token buffer: streaming or array")
	parseCmd.Flags().StringArrayVarP(&parseDefines, "define", "D", nil, "config constant NS::NAME=VALUE (repeatable)")
	parseCmd.Flags().StringVar(&parseRemote, "remote", "", "send the file to a parse service at this address")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false, "exit with an error when a problem of error severity is found")
}

// parseDefine splits NS::NAME=VALUE; the namespace defaults to CONFIG
func parseDefine(s string) (parser.Define, error) {
	eq := strings.IndexByte(s, '=')
	if eq <= 0 {
		return parser.Define{}, aserror.Newf("define %q is not NAME=VALUE", s).WithCode(aserror.CodeInvalidInput)
	}
	name, value := s[:eq], s[eq+1:]
	ns := "CONFIG"
	if i := strings.Index(name, "::"); i >= 0 {
		ns, name = name[:i], name[i+2:]
	}
	if ns == "" || name == "" {
		return parser.Define{}, aserror.Newf("define %q has an empty namespace or name", s).WithCode(aserror.CodeInvalidInput)
	}
	return parser.Define{Namespace: ns, Name: name, Value: value}, nil
}

func parseOptions() (parser.Options, error) {
	opts := projectConfig.ParserOptions(logger)
	if parseDefer {
		opts.DeferFunctionBodies = true
	}
	if parseBuffer != "" {
		mode, err := buffer.ParseMode(parseBuffer)
		if err != nil {
			return opts, err
		}
		opts.BufferMode = mode
	}
	for _, d := range parseDefines {
		define, err := parseDefine(d)
		if err != nil {
			return opts, err
		}
		opts.Defines = append(opts.Defines, define)
	}
	return opts, nil
}

type parseReport struct {
	SessionID  string       `json:"session_id" yaml:"session_id"`
	Path       string       `json:"path" yaml:"path"`
	Tree       string       `json:"tree" yaml:"tree"`
	Problems   []problemRow `json:"problems" yaml:"problems"`
	DurationMS float64      `json:"duration_ms" yaml:"duration_ms"`
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseRemote != "" {
		return runRemoteParse(cmd, args[0])
	}

	opts, err := parseOptions()
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := parser.ParseFile(args[0], opts)
	if err != nil {
		printError("failed to parse", err)
		return err
	}

	if parseStore {
		history, err := store.Open(store.Config{Path: projectConfig.Store.Path, Logger: logger})
		if err != nil {
			return err
		}
		defer history.Close()
		if err := history.SaveResult(cmd.Context(), res, started); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		err = writeStructured(out, outputFormat, parseReport{
			SessionID:  res.SessionID,
			Path:       res.Path,
			Tree:       service.Tree(res.Root),
			Problems:   problemRows(res.Problems),
			DurationMS: float64(res.Duration.Microseconds()) / 1000,
		})
	} else {
		renderHeader(out, "tree")
		fmt.Fprintln(out, service.Tree(res.Root))
		fmt.Fprintln(out)
		renderHeader(out, "problems")
		renderProblems(out, res.Problems)
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("session %s  %s", res.SessionID, res.Duration)))
	}
	if err != nil {
		return err
	}

	if parseStrict && res.HasErrors() {
		return fmt.Errorf("%s has errors", res.Path)
	}
	return nil
}

func runRemoteParse(cmd *cobra.Command, path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		printError("failed to read file", err)
		return err
	}
	conn, err := coregrpc.Dial(coregrpc.DefaultClientConfig(parseRemote))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	resp, err := service.NewClient(conn).Parse(ctx, service.Request{
		Path:                path,
		Source:              string(text),
		BufferMode:          parseBuffer,
		DeferFunctionBodies: parseDefer,
	})
	if err != nil {
		printError("remote parse failed", err)
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return writeStructured(out, outputFormat, resp.AsMap())
	}
	fields := resp.GetFields()
	renderHeader(out, "tree")
	fmt.Fprintln(out, fields["tree"].GetStringValue())
	fmt.Fprintln(out)
	renderHeader(out, "problems")
	problems := fields["problems"].GetListValue().GetValues()
	if len(problems) == 0 {
		fmt.Fprintln(out, okStyle.Render("no problems"))
	}
	for _, v := range problems {
		p := v.GetStructValue().GetFields()
		fmt.Fprintf(out, "%s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%s:%d:%d:", p["path"].GetStringValue(),
				int(p["line"].GetNumberValue()), int(p["column"].GetNumberValue()))),
			p["severity"].GetStringValue(),
			p["message"].GetStringValue())
	}
	if parseStrict && fields["has_errors"].GetBoolValue() {
		return fmt.Errorf("%s has errors", path)
	}
	return nil
}
