// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     source
// Description: File-content providers used to open compilation units and
//              included files, with cached file specifications.
// License:     Apache-2.0
// ============================================================================

package source

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apache/royale-compiler-sub012/pkg/core/cache"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
)

// Specification describes a source file without opening it
type Specification struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Provider opens source files by path
type Provider interface {
	Open(path string) (io.ReadCloser, error)
	Exists(path string) bool
	LastModified(path string) (time.Time, error)
	Specification(path string) (*Specification, error)
}

// ReadAll reads the whole file and always closes the reader
func ReadAll(p Provider, path string) (string, error) {
	rc, err := p.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", aserror.Wrap(err, "failed to read source").
			WithCode(aserror.CodeIO).
			WithPath(path)
	}
	return string(data), nil
}

// ReadSpan reads bytes [start, end) of a file through a fresh reader that
// skips to start.
func ReadSpan(p Provider, path string, start, end int) (string, error) {
	if start < 0 || end < start {
		return "", aserror.Newf("invalid span [%d,%d)", start, end).
			WithCode(aserror.CodeInvalidInput).
			WithPath(path)
	}
	rc, err := p.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	r := bufio.NewReader(rc)
	if _, err := r.Discard(start); err != nil {
		return "", aserror.Wrap(err, "failed to skip to span start").
			WithCode(aserror.CodeIO).
			WithPath(path)
	}
	buf := make([]byte, end-start)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", aserror.Wrap(err, "failed to read span").
			WithCode(aserror.CodeIO).
			WithPath(path)
	}
	return string(buf[:n]), nil
}

// OSProvider reads from the file system and caches specifications
type OSProvider struct {
	specs *cache.Cache[*Specification]
}

// NewOSProvider creates a file-system provider
func NewOSProvider(cfg cache.Config) *OSProvider {
	return &OSProvider{specs: cache.New[*Specification](cfg)}
}

// Open opens path for reading
func (p *OSProvider) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		code := aserror.CodeIO
		if os.IsNotExist(err) {
			code = aserror.CodeNotFound
		}
		return nil, aserror.Wrap(err, "failed to open source").
			WithCode(code).
			WithPath(path)
	}
	return f, nil
}

// Specification returns the cached specification of path
func (p *OSProvider) Specification(path string) (*Specification, error) {
	path = filepath.Clean(path)
	return p.specs.GetOrSet(path, func() (*Specification, error) {
		info, err := os.Stat(path)
		if err != nil {
			code := aserror.CodeIO
			if os.IsNotExist(err) {
				code = aserror.CodeNotFound
			}
			return nil, aserror.Wrap(err, "failed to stat source").
				WithCode(code).
				WithPath(path)
		}
		if info.IsDir() {
			return nil, aserror.New("source is a directory").
				WithCode(aserror.CodeInvalidInput).
				WithPath(path)
		}
		return &Specification{Path: path, ModTime: info.ModTime(), Size: info.Size()}, nil
	})
}

// Exists reports whether path names a regular file
func (p *OSProvider) Exists(path string) bool {
	_, err := p.Specification(path)
	return err == nil
}

// LastModified returns the modification time of path
func (p *OSProvider) LastModified(path string) (time.Time, error) {
	spec, err := p.Specification(path)
	if err != nil {
		return time.Time{}, err
	}
	return spec.ModTime, nil
}

// Close releases the specification cache
func (p *OSProvider) Close() {
	p.specs.Close()
}

type memoryFile struct {
	content string
	modTime time.Time
}

// MemoryProvider serves sources from memory
type MemoryProvider struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{files: make(map[string]memoryFile)}
}

// Add stores content under path
func (p *MemoryProvider) Add(path, content string) {
	p.AddWithTime(path, content, time.Now())
}

// AddWithTime stores content with an explicit modification time
func (p *MemoryProvider) AddWithTime(path, content string, modTime time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files[filepath.Clean(path)] = memoryFile{content: content, modTime: modTime}
}

// Paths lists the stored paths in order
func (p *MemoryProvider) Paths() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.files))
	for k := range p.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p *MemoryProvider) lookup(path string) (memoryFile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f, ok := p.files[filepath.Clean(path)]
	if !ok {
		return memoryFile{}, aserror.New("source not found").
			WithCode(aserror.CodeNotFound).
			WithPath(path)
	}
	return f, nil
}

// Open returns a reader over the stored content
func (p *MemoryProvider) Open(path string) (io.ReadCloser, error) {
	f, err := p.lookup(path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

// Exists reports whether path is stored
func (p *MemoryProvider) Exists(path string) bool {
	_, err := p.lookup(path)
	return err == nil
}

// LastModified returns the stored modification time
func (p *MemoryProvider) LastModified(path string) (time.Time, error) {
	f, err := p.lookup(path)
	if err != nil {
		return time.Time{}, err
	}
	return f.modTime, nil
}

// Specification describes a stored file
func (p *MemoryProvider) Specification(path string) (*Specification, error) {
	f, err := p.lookup(path)
	if err != nil {
		return nil, err
	}
	return &Specification{Path: filepath.Clean(path), ModTime: f.modTime, Size: int64(len(f.content))}, nil
}
