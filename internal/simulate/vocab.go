// SPDX-License-Identifier: AGPL-3.0-or-later

package simulate

import (
	"strings"
	"unicode"
)

// Reserved indices, matching the usual padding/start/unknown convention.
const (
	PadIndex     = 0
	StartIndex   = 1
	UnknownIndex = 2
	firstWord    = 3
)

// Vocabulary is an immutable word index. Build one with NewVocabulary.
type Vocabulary struct {
	index map[string]int
	words []string
}

// NewVocabulary assigns indices to words in order of first appearance, after
// the reserved ones. Words are lower-cased; duplicates and blanks are skipped.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{
		index: make(map[string]int, len(words)),
		words: []string{"<pad>", "<start>", "<unk>"},
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := v.index[w]; ok {
			continue
		}
		v.index[w] = len(v.words)
		v.words = append(v.words, w)
	}
	return v
}

// NewVocabularyFromText tokenizes corpus on anything that is not a letter,
// digit or apostrophe.
func NewVocabularyFromText(corpus string) *Vocabulary {
	return NewVocabulary(strings.FieldsFunc(corpus, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}))
}

// Size counts every index, reserved ones included.
func (v *Vocabulary) Size() int {
	return len(v.words)
}

func (v *Vocabulary) Index(word string) int {
	if i, ok := v.index[strings.ToLower(word)]; ok {
		return i
	}
	return UnknownIndex
}

// Encode maps a tokenized review to indices, prefixed with StartIndex.
func (v *Vocabulary) Encode(words []string) []int {
	ids := make([]int, 0, len(words)+1)
	ids = append(ids, StartIndex)
	for _, w := range words {
		ids = append(ids, v.Index(w))
	}
	return ids
}

// Decode is the inverse of Encode; unknown indices decode to "?".
func (v *Vocabulary) Decode(ids []int) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == StartIndex || id == PadIndex {
			continue
		}
		if id < firstWord || id >= len(v.words) {
			out = append(out, "?")
			continue
		}
		out = append(out, v.words[id])
	}
	return strings.Join(out, " ")
}
