// Package chunker splits document text into overlapping fragments for
// retrieval. Text is broken on a preferred separator first, then the
// separator-delimited segments are greedily packed into fragments up
// to the configured size. A segment that alone exceeds the size is
// kept whole rather than force-split, trading the hard limit for an
// intact semantic unit. Each fragment after the first starts with a
// tail of up to the configured overlap, taken from the end of the
// previous fragment, so context carries across the boundary.
package chunker

import (
	"errors"
	"strings"
	"unicode/utf8"

	"pdfchat/internal/models"
)

const (
	// DefaultSize and DefaultOverlap match the primary configuration
	// (a compact 500/20 pairing is also shipped, see internal/config).
	DefaultSize      = 800
	DefaultOverlap   = 100
	DefaultSeparator = "\n"
)

var (
	ErrInvalidSize    = errors.New("chunk size must be positive")
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")
)

// Chunker holds one chunking configuration. Sizes are measured in
// runes so multi-byte text never splits mid-character.
type Chunker struct {
	size      int
	overlap   int
	separator string
}

// New validates a chunking configuration. An empty separator falls
// back to newline.
func New(size, overlap int, separator string) (*Chunker, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Chunker{size: size, overlap: overlap, separator: separator}, nil
}

// Split produces the ordered fragment sequence for text. Empty input
// produces no fragments. The size budget governs a fragment's fresh
// content; the overlap tail seeded from the previous fragment sits in
// front of it, so concatenating the fragments with each tail removed
// reconstructs the original text exactly.
func (c *Chunker) Split(text string) []models.Fragment {
	if text == "" {
		return nil
	}

	segments := strings.Split(text, c.separator)
	sepLen := utf8.RuneCountInString(c.separator)

	var fragments []models.Fragment
	var current []string
	currentLen := 0 // rune length of the joined current segments
	tail := ""      // overlap carried from the previous fragment

	flush := func() {
		if len(current) == 0 {
			return
		}
		content := strings.Join(current, c.separator)
		if len(fragments) > 0 {
			// The separator consumed at the fragment boundary rides in
			// the next fragment's prefix, behind the overlap tail, so
			// no character of the original text is dropped.
			content = tail + c.separator + content
		}
		if content != "" {
			fragments = append(fragments, models.Fragment{
				Content: content,
				Ordinal: len(fragments),
			})
			tail = lastRunes(content, c.overlap)
		}
		current = nil
		currentLen = 0
	}

	for _, seg := range segments {
		segLen := utf8.RuneCountInString(seg)
		joinLen := segLen
		if len(current) > 0 {
			joinLen += sepLen
		}
		if len(current) > 0 && currentLen+joinLen > c.size {
			flush()
			joinLen = segLen
		}
		current = append(current, seg)
		currentLen += joinLen
	}
	flush()

	return fragments
}

func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
