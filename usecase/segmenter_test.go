package usecase_test

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FawadAli-1/xautomation-backend/usecase"
)

var chunkPrefixRe = regexp.MustCompile(`^\d+/\d+ `)

// stripMarkers removes the injected numeric prefixes and the thread suffix so
// the original word sequence can be compared.
func stripMarkers(parts []string) []string {
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		p = chunkPrefixRe.ReplaceAllString(p, "")
		if i == 0 {
			p = strings.TrimSuffix(p, " (thread)")
		}
		out = append(out, p)
	}
	return out
}

func TestSegment_ShortText(t *testing.T) {
	content := usecase.Segment("short text", 280)

	assert.False(t, content.IsThread)
	assert.Equal(t, "short text", content.Content)
	assert.Empty(t, content.ThreadParts)
	assert.Equal(t, []string{"short text"}, content.Segments())
}

func TestSegment_TrimsWhitespace(t *testing.T) {
	content := usecase.Segment("  padded out  \n", 280)

	assert.False(t, content.IsThread)
	assert.Equal(t, "padded out", content.Content)
}

func TestSegment_ExactlyMaxLength(t *testing.T) {
	text := strings.Repeat("a", 280)
	content := usecase.Segment(text, 280)

	assert.False(t, content.IsThread)
	assert.Equal(t, text, content.Content)
}

func TestSegment_LongTextBecomesThread(t *testing.T) {
	// 120 x "word" separated by spaces: 599 chars, packs into 3 chunks.
	words := make([]string, 120)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	content := usecase.Segment(text, 280)

	require.True(t, content.IsThread)
	require.Len(t, content.ThreadParts, 3)
	assert.Equal(t, content.ThreadParts[0], content.Content)

	for i, part := range content.ThreadParts {
		assert.LessOrEqualf(t, len(part), 280, "part %d exceeds max length", i)
		assert.Truef(t, strings.HasPrefix(part, fmt.Sprintf("%d/", i+1)), "part %d missing numeric prefix: %q", i, part)
	}
	assert.True(t, strings.HasSuffix(content.ThreadParts[0], "(thread)"))

	// Concatenation reconstructs the original word sequence in order.
	rebuilt := strings.Join(stripMarkers(content.ThreadParts), " ")
	assert.Equal(t, text, rebuilt)
}

func TestSegment_TotalIsAnEstimate(t *testing.T) {
	// The {i}/{total} total comes from raw length over max length, not from
	// the realized chunk count, so the two may disagree. Verify the displayed
	// total matches the documented estimate.
	words := make([]string, 120)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	content := usecase.Segment(text, 280)

	estimate := (len(text) + 279) / 280
	require.True(t, content.IsThread)
	for _, part := range content.ThreadParts {
		assert.Contains(t, part, fmt.Sprintf("/%d ", estimate))
	}
}

func TestSegment_OversizedWordGetsItsOwnChunk(t *testing.T) {
	long := strings.Repeat("x", 300)
	text := "a " + long + " b"

	content := usecase.Segment(text, 280)

	require.True(t, content.IsThread)
	require.Len(t, content.ThreadParts, 3)

	// the pathological word sits alone in its chunk and keeps its content
	assert.Contains(t, content.ThreadParts[1], long)
	assert.Greater(t, len(content.ThreadParts[1]), 280)
	assert.LessOrEqual(t, len(content.ThreadParts[2]), 280)

	rebuilt := strings.Join(stripMarkers(content.ThreadParts), " ")
	assert.Equal(t, text, rebuilt)
}

func TestSegment_Deterministic(t *testing.T) {
	text := strings.Repeat("repeatable input ", 40)

	first := usecase.Segment(text, 280)
	second := usecase.Segment(text, 280)

	assert.Equal(t, first, second)
}
