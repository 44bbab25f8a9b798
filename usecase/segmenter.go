package usecase

import (
	"fmt"
	"strings"

	"github.com/FawadAli-1/xautomation-backend/domain/model"
)

const threadSuffix = " (thread)"

// Segment deterministically partitions text into tweet-sized pieces. Text at
// or under maxLength comes back as a single post; longer text is packed
// greedily on word boundaries into numbered chunks.
//
// Each chunk is prefixed "{i}/{total} " where total is estimated up front as
// ceil(rawLength/maxLength). The realized chunk count can differ after
// word-aware packing, so the displayed total is an approximation; that is the
// published behavior and is kept as-is. The first chunk carries a trailing
// " (thread)" marker, and its packing budget reserves room for it.
//
// A single word longer than maxLength is placed alone in its own chunk even
// though it exceeds the bound; splitting it would corrupt the content.
func Segment(text string, maxLength int) *model.GeneratedContent {
	clean := strings.TrimSpace(text)
	if len(clean) <= maxLength {
		return &model.GeneratedContent{Content: clean, IsThread: false}
	}

	words := strings.Fields(clean)
	total := (len(clean) + maxLength - 1) / maxLength

	var chunks []string
	current := ""
	count := 1

	flush := func() {
		chunks = append(chunks, current)
		current = ""
		count++
	}

	for _, word := range words {
		if current == "" {
			current = fmt.Sprintf("%d/%d %s", count, total, word)
			if len(current) > chunkLimit(count, maxLength) {
				// oversized word, nothing more fits
				flush()
			}
			continue
		}
		candidate := current + " " + word
		if len(candidate) > chunkLimit(count, maxLength) {
			flush()
			current = fmt.Sprintf("%d/%d %s", count, total, word)
			if len(current) > chunkLimit(count, maxLength) {
				flush()
			}
		} else {
			current = candidate
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	chunks[0] += threadSuffix

	return &model.GeneratedContent{
		Content:     chunks[0],
		IsThread:    true,
		ThreadParts: chunks,
	}
}

// chunkLimit is the packing budget for chunk i. The first chunk reserves the
// thread marker appended after packing.
func chunkLimit(count, maxLength int) int {
	if count == 1 {
		return maxLength - len(threadSuffix)
	}
	return maxLength
}
