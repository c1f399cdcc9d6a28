package error

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("boom")
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want boom", err.Error())
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if len(err.StackTrace()) == 0 {
		t.Error("expected a captured stack trace")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Fatal("Wrap(nil) should return nil")
	}

	inner := New("cannot open").WithCode(CodeIO).WithPath("a.as")
	outer := Wrap(inner, "include expansion")

	if outer.Code() != CodeIO {
		t.Errorf("wrapped code = %v, want %v", outer.Code(), CodeIO)
	}
	if outer.Path() != "a.as" {
		t.Errorf("wrapped path = %q, want a.as", outer.Path())
	}
	if !errors.Is(Wrap(io.EOF, "read"), io.EOF) {
		t.Error("errors.Is should see through Wrap")
	}
	if !HasCode(outer, CodeIO) {
		t.Error("HasCode should find the inherited code")
	}
}

func TestWithCode_DefaultSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeContractViolation, SeverityCritical},
		{CodeIO, SeverityHigh},
		{CodeNotFound, SeverityLow},
		{CodeConfigError, SeverityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := New("x").WithCode(tt.code).Severity(); got != tt.want {
				t.Errorf("severity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("bad config").WithCode(CodeInvalidConfig).WithOperation("load").WithDetail("key", "parser.buffer_mode")
	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal failed: %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal failed: %v", jerr)
	}
	if decoded["code"] != "INVALID_CONFIG" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["operation"] != "load" {
		t.Errorf("operation = %v", decoded["operation"])
	}
	if !strings.Contains(err.String(), "[INVALID_CONFIG]") {
		t.Errorf("String() = %q", err.String())
	}
}
