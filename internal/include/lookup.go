package include

import "sort"

// OffsetLookup maps absolute offsets back to files
type OffsetLookup struct {
	cues []OffsetCue
}

// NewOffsetLookup creates a lookup over cues in recording order
func NewOffsetLookup(cues []OffsetCue) *OffsetLookup {
	return &OffsetLookup{cues: cues}
}

// Lookup returns the file and local offset of an absolute offset
func (l *OffsetLookup) Lookup(absolute int) (string, int, bool) {
	i := sort.Search(len(l.cues), func(i int) bool {
		return l.cues[i].Absolute > absolute
	})
	if i == 0 {
		return "", 0, false
	}
	c := l.cues[i-1]
	return c.Filename, c.Local(absolute), true
}

// Absolute maps a local offset in file back to the absolute space. When the
// file was entered several times the first segment containing the offset
// wins.
func (l *OffsetLookup) Absolute(file string, local int) (int, bool) {
	for i, c := range l.cues {
		if c.Filename != file {
			continue
		}
		abs := local + c.Adjustment
		if abs < c.Absolute {
			continue
		}
		if i+1 < len(l.cues) && abs >= l.cues[i+1].Absolute {
			continue
		}
		return abs, true
	}
	return 0, false
}

// Files returns the distinct file names in first-seen order
func (l *OffsetLookup) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range l.cues {
		if !seen[c.Filename] {
			seen[c.Filename] = true
			out = append(out, c.Filename)
		}
	}
	return out
}

// Cues returns the underlying cues
func (l *OffsetLookup) Cues() []OffsetCue {
	return l.cues
}
