package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/royale-compiler-sub012/pkg/core/cache"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

func TestMemoryProvider(t *testing.T) {
	p := NewMemoryProvider()
	mod := time.Unix(1700000000, 0)
	p.AddWithTime("src/A.as", "package {}", mod)

	if !p.Exists("src/./A.as") {
		t.Error("cleaned path should exist")
	}
	content, err := ReadAll(p, "src/A.as")
	if err != nil || content != "package {}" {
		t.Errorf("ReadAll = %q, %v", content, err)
	}
	if got, _ := p.LastModified("src/A.as"); !got.Equal(mod) {
		t.Errorf("LastModified = %v", got)
	}

	_, err = p.Open("missing.as")
	if !aserror.HasCode(err, aserror.CodeNotFound) {
		t.Errorf("Open(missing) error = %v", err)
	}
}

func TestReadSpan(t *testing.T) {
	p := NewMemoryProvider()
	p.Add("a.as", "function f() { return 1; }")

	got, err := ReadSpan(p, "a.as", 13, 26)
	if err != nil {
		t.Fatalf("ReadSpan: %v", err)
	}
	if got != "{ return 1; }" {
		t.Errorf("ReadSpan = %q", got)
	}

	if _, err := ReadSpan(p, "a.as", 5, 2); err == nil {
		t.Error("inverted span should fail")
	}
}

func TestOSProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "B.as")
	if err := os.WriteFile(path, []byte("var b;"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewOSProvider(cache.Config{TTL: time.Minute})
	defer p.Close()

	spec, err := p.Specification(path)
	if err != nil {
		t.Fatalf("Specification: %v", err)
	}
	if spec.Size != 6 {
		t.Errorf("Size = %d, want 6", spec.Size)
	}
	if !p.Exists(path) || p.Exists(filepath.Join(dir, "nope.as")) || p.Exists(dir) {
		t.Error("Exists gave wrong answers")
	}

	content, err := ReadAll(p, path)
	if err != nil || content != "var b;" {
		t.Errorf("ReadAll = %q, %v", content, err)
	}
}
