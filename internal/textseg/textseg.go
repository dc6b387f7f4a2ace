// Package textseg segments raw UTF-8 text into words and sentences.
//
// Segmentation is pure and deterministic: the same input always yields the
// same Document. The segmenter tolerates Unicode punctuation (curly quotes,
// CJK terminators, ellipses) and mixed whitespace without failing; the only
// error condition is content below the minimum word count.
package textseg

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MinWords is the minimum word count for a sample to be analyzable.
const MinWords = 50

// ErrInsufficientContent is returned when a text has fewer than MinWords words.
var ErrInsufficientContent = errors.New("insufficient content for analysis")

// PunctCounts tallies sentence-level punctuation across a document.
type PunctCounts struct {
	Periods      int
	Commas       int
	Semicolons   int
	Exclamations int
	Questions    int
}

// Sentence is one segmented sentence: its words plus the punctuation
// observed inside and at the end of it.
type Sentence struct {
	Words      []string
	Commas     int
	Semicolons int
	Terminator rune // '.', '!', '?' or 0 for an unterminated trailing run
}

// Document is the segmented view of one text.
type Document struct {
	Words      []string // case-preserved, in order
	LowerWords []string // lowercase view, same order and length as Words
	Sentences  []Sentence
	Punct      PunctCounts
}

// WordCount returns the total number of words in the document.
func (d *Document) WordCount() int {
	return len(d.Words)
}

// Segment splits text into words and sentences. A sentence ends at '.', '!'
// or '?' followed by whitespace and an uppercase letter, or at end of text.
// Returns ErrInsufficientContent when the text has fewer than MinWords words.
func Segment(text string) (*Document, error) {
	doc := &Document{}
	runes := []rune(text)

	var word []rune
	var sent Sentence

	flushWord := func() {
		w := trimApostrophes(word)
		if len(w) > 0 {
			s := string(w)
			doc.Words = append(doc.Words, s)
			doc.LowerWords = append(doc.LowerWords, strings.ToLower(s))
			sent.Words = append(sent.Words, s)
		}
		word = word[:0]
	}

	endSentence := func(term rune) {
		if len(sent.Words) > 0 {
			sent.Terminator = term
			doc.Sentences = append(doc.Sentences, sent)
		}
		sent = Sentence{}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if isWordRune(r) {
			word = append(word, r)
			continue
		}
		flushWord()

		switch normalizePunct(r) {
		case '.':
			doc.Punct.Periods++
			if isSentenceBoundary(runes, i) {
				endSentence('.')
			}
		case '!':
			doc.Punct.Exclamations++
			if isSentenceBoundary(runes, i) {
				endSentence('!')
			}
		case '?':
			doc.Punct.Questions++
			if isSentenceBoundary(runes, i) {
				endSentence('?')
			}
		case ',':
			doc.Punct.Commas++
			sent.Commas++
		case ';':
			doc.Punct.Semicolons++
			sent.Semicolons++
		}
	}
	flushWord()
	endSentence(0)

	if len(doc.Words) < MinWords {
		return nil, fmt.Errorf("%w: %d words, need at least %d",
			ErrInsufficientContent, len(doc.Words), MinWords)
	}
	return doc, nil
}

// WordCount counts words without building a full Document. Used for cheap
// structural validation before analysis starts.
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if isWordRune(r) {
			if !inWord {
				count++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return count
}

// isWordRune reports whether r belongs inside a word. Apostrophes are word
// runes so contractions ("don't", curly variant included) stay one token;
// stray leading/trailing apostrophes are trimmed at flush.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

// normalizePunct folds Unicode punctuation variants onto their ASCII
// equivalents so counting and sentence detection see one symbol per role.
func normalizePunct(r rune) rune {
	switch r {
	case '.', '。': // CJK full stop
		return '.'
	case '…': // ellipsis counts as one terminator
		return '.'
	case '!', '！':
		return '!'
	case '?', '？':
		return '?'
	case ',', '，', '、':
		return ','
	case ';', '；':
		return ';'
	}
	return r
}

// isSentenceBoundary reports whether the terminator at index i ends a
// sentence: it must be followed (skipping closing quotes, parens, and
// further terminators) by end of text, or by whitespace and then an
// uppercase letter, digit, or opening quote.
func isSentenceBoundary(runes []rune, i int) bool {
	j := i + 1
	for j < len(runes) && isClosingRune(runes[j]) {
		j++
	}
	if j >= len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[j]) {
		return false
	}
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j >= len(runes) {
		return true
	}
	r := runes[j]
	return unicode.IsUpper(r) || unicode.IsDigit(r) || isOpeningRune(r)
}

func isClosingRune(r rune) bool {
	switch r {
	case '.', '!', '?', ')', ']', '"', '\'', '”', '’', '。', '！', '？':
		return true
	}
	return false
}

func isOpeningRune(r rune) bool {
	switch r {
	case '(', '[', '"', '\'', '“', '‘':
		return true
	}
	return false
}

// trimApostrophes strips leading and trailing apostrophes left over from
// quoted words ('tis the token, not the quote marks).
func trimApostrophes(w []rune) []rune {
	start, end := 0, len(w)
	for start < end && (w[start] == '\'' || w[start] == '’') {
		start++
	}
	for end > start && (w[end-1] == '\'' || w[end-1] == '’') {
		end--
	}
	return w[start:end]
}
