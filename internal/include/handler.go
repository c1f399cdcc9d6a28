// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     include
// Description: Include-file bookkeeping. Maps per-file token offsets into a
//              single absolute offset space, records offset cues and
//              detects cyclic includes.
// License:     Apache-2.0
// ============================================================================

package include

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

// OffsetCue marks where control entered or left a file.
// For every offset covered by the cue, local = absolute - Adjustment.
type OffsetCue struct {
	Filename   string `json:"filename"`
	Absolute   int    `json:"absolute"`
	Adjustment int    `json:"adjustment"`
}

// Local converts an absolute offset covered by the cue
func (c OffsetCue) Local(absolute int) int {
	return absolute - c.Adjustment
}

func (c OffsetCue) String() string {
	return fmt.Sprintf("%s@%d(%+d)", c.Filename, c.Absolute, -c.Adjustment)
}

type node struct {
	path     string
	localEnd int
	parent   *node
	children []*node
}

// Options configures a Handler
type Options struct {
	Provider    source.Provider
	SourceRoots []string
	// MXML relaxes the monotonic end-offset check
	MXML   bool
	Logger *aslog.Logger
}

// Handler tracks the include tree of one parse
type Handler struct {
	provider    source.Provider
	sourceRoots []string
	mxml        bool
	logger      *aslog.Logger

	root     *node
	current  *node
	absolute int
	cues     []OffsetCue

	lastModified time.Time
	includeCount int
}

// New creates a handler
func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}
	return &Handler{
		provider:    opts.Provider,
		sourceRoots: opts.SourceRoots,
		mxml:        opts.MXML,
		logger:      logger.WithField("component", "include-handler"),
	}
}

// EnterFile makes path the current file
func (h *Handler) EnterFile(path string) {
	n := &node{path: path, parent: h.current}
	if h.current == nil {
		h.root = n
	} else {
		h.current.children = append(h.current.children, n)
		h.includeCount++
	}
	h.current = n

	if h.provider != nil {
		if mod, err := h.provider.LastModified(path); err == nil && mod.After(h.lastModified) {
			h.lastModified = mod
		}
	}

	h.cues = append(h.cues, OffsetCue{Filename: path, Absolute: h.absolute, Adjustment: h.absolute})
	h.logger.Debug("Entered file", aslog.Fields{
		"path":     path,
		"absolute": h.absolute,
		"depth":    h.Depth(),
	})
}

// LeaveFile pops the current file; endOffset is its local length
func (h *Handler) LeaveFile(endOffset int) {
	if h.current == nil {
		return
	}
	if delta := endOffset - h.current.localEnd; delta > 0 {
		h.absolute += delta
		h.current.localEnd = endOffset
	}
	left := h.current.path
	h.current = h.current.parent
	if h.current == nil {
		return
	}
	h.cues = append(h.cues, OffsetCue{
		Filename:   h.current.path,
		Absolute:   h.absolute,
		Adjustment: h.absolute - h.current.localEnd,
	})
	h.logger.Debug("Left file", aslog.Fields{
		"path":     left,
		"resume":   h.current.path,
		"absolute": h.absolute,
	})
}

// OnNextToken rewrites the local offsets of tok to absolute offsets
func (h *Handler) OnNextToken(tok *token.Token) {
	if h.current == nil {
		return
	}
	n := h.current
	if tok.End < n.localEnd {
		if !h.mxml {
			panic(aserror.Newf("token %s ends before previous token end %d", tok.Debug(), n.localEnd).
				WithCode(aserror.CodeContractViolation).
				WithOperation("include.OnNextToken").
				WithPath(n.path))
		}
		// MXML streams may revisit earlier text; map with the current
		// adjustment without moving the high-water mark.
		tok.Shift(h.absolute - n.localEnd)
		return
	}
	adjustment := h.absolute - n.localEnd
	end := tok.End
	tok.Shift(adjustment)
	n.localEnd = end
	h.absolute = tok.End
}

// IsCyclicInclude reports whether path is already on the include chain
func (h *Handler) IsCyclicInclude(path string) bool {
	clean := filepath.Clean(path)
	for n := h.current; n != nil; n = n.parent {
		if filepath.Clean(n.path) == clean {
			return true
		}
	}
	return false
}

// GetFileSpecificationForInclude resolves the string of an include
// directive. It tries the path as-is when absolute, then relative to the
// including file, then relative to each source root, and finally returns
// the includer-relative path even when it does not exist so that a
// not-found diagnostic has a sensible location.
func (h *Handler) GetFileSpecificationForInclude(includerPath, includeString string) string {
	exists := func(p string) bool {
		return h.provider != nil && h.provider.Exists(p)
	}
	if filepath.IsAbs(includeString) && exists(includeString) {
		return filepath.Clean(includeString)
	}
	relative := filepath.Join(filepath.Dir(includerPath), includeString)
	if exists(relative) {
		return relative
	}
	for _, root := range h.sourceRoots {
		candidate := filepath.Join(root, includeString)
		if exists(candidate) {
			return candidate
		}
	}
	return relative
}

// Cues returns a copy of the cue sequence
func (h *Handler) Cues() []OffsetCue {
	out := make([]OffsetCue, len(h.cues))
	copy(out, h.cues)
	return out
}

// OffsetLookup builds a lookup table from the cues recorded so far
func (h *Handler) OffsetLookup() *OffsetLookup {
	return NewOffsetLookup(h.Cues())
}

// Adjustment returns the shift from local offsets of the active file to
// absolute offsets. It is constant between include boundaries.
func (h *Handler) Adjustment() int {
	if h.current == nil {
		return 0
	}
	return h.absolute - h.current.localEnd
}

// AbsoluteOffset returns the running absolute offset
func (h *Handler) AbsoluteOffset() int {
	return h.absolute
}

// LastModified returns the newest modification time of all entered files
func (h *Handler) LastModified() time.Time {
	return h.lastModified
}

// IncludeCount returns the number of included files entered so far
func (h *Handler) IncludeCount() int {
	return h.includeCount
}

// CurrentPath returns the path of the active file
func (h *Handler) CurrentPath() string {
	if h.current == nil {
		return ""
	}
	return h.current.path
}

// Depth returns the length of the active include chain
func (h *Handler) Depth() int {
	d := 0
	for n := h.current; n != nil; n = n.parent {
		d++
	}
	return d
}

// Chain returns the active include chain from the root
func (h *Handler) Chain() []string {
	var out []string
	for n := h.current; n != nil; n = n.parent {
		out = append([]string{n.path}, out...)
	}
	return out
}
