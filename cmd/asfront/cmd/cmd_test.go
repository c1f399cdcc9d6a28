package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/parser"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, logLevel, outputFormat = "", "", "text"
	parseStore, parseDefer, parseStrict = false, false, false
	parseBuffer, parseRemote, parseDefines = "", "", nil
	tokenizeComments = false

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "asfront.toml")
	cfg := "[logging]\nlevel = \"error\"\n\n[store]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "history.db")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDefine(t *testing.T) {
	tests := []struct {
		in      string
		want    parser.Define
		wantErr bool
	}{
		{in: "DEBUG=true", want: parser.Define{Namespace: "CONFIG", Name: "DEBUG", Value: "true"}},
		{in: "APP::VERSION='1.0'", want: parser.Define{Namespace: "APP", Name: "VERSION", Value: "'1.0'"}},
		{in: "EMPTY=", want: parser.Define{Namespace: "CONFIG", Name: "EMPTY", Value: ""}},
		{in: "DEBUG", wantErr: true},
		{in: "=1", wantErr: true},
		{in: "::X=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDefine(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDefine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseDefine(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCommandJSON(t *testing.T) {
	path := writeSource(t, "main.as", "var a = 1;\n")

	out, err := execute(t, "parse", path, "-o", "json")
	if err != nil {
		t.Fatalf("parse failed: %v\n%s", err, out)
	}

	var report parseReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Tree != "(file (vars var (var a 1)))" {
		t.Errorf("tree = %q", report.Tree)
	}
	if len(report.Problems) != 0 {
		t.Errorf("problems = %+v, want none", report.Problems)
	}
}

func TestParseCommandStrict(t *testing.T) {
	path := writeSource(t, "bad.as", "var = 1;\n")

	if _, err := execute(t, "parse", path); err != nil {
		t.Fatalf("parse without --strict failed: %v", err)
	}
	if _, err := execute(t, "parse", path, "--strict"); err == nil {
		t.Fatal("expected --strict to fail on a file with errors")
	}
}

func TestTokenizeCommand(t *testing.T) {
	path := writeSource(t, "main.as", "var a;\n")

	out, err := execute(t, "tokenize", path)
	if err != nil {
		t.Fatalf("tokenize failed: %v\n%s", err, out)
	}
	for _, want := range []string{`"var"`, `"a"`, `";"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	path := writeSource(t, "main.as", "var a;\n")

	// a later --config overrides the one execute adds
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "asfront.yaml")
	cfg := "logging:\n  level: error\nstore:\n  path: " + filepath.ToSlash(filepath.Join(dir, "history.db")) + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", cfgPath, "parse", path, "--store"); err != nil {
		t.Fatalf("parse --store failed: %v", err)
	}
	out, err := execute(t, "--config", cfgPath, "history", "-o", "json")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, filepath.Base(path)) {
		t.Errorf("history does not list %s:\n%s", path, out)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	path := writeSource(t, "main.as", "var a;\n")
	if _, err := execute(t, "parse", path, "-o", "xml"); err == nil {
		t.Fatal("expected an error for -o xml")
	}
}
