package analyzer

import (
	"strings"
	"unicode"
)

// stopwords is consulted by Tokenize; a token matching one of these is
// dropped before it ever reaches a posting list.
var stopwords = buildStopwordSet(
	"a", "an", "and", "are", "as", "at", "be", "by", "for",
	"from", "has", "he", "in", "is", "it", "its", "of", "on",
	"that", "the", "to", "was", "were", "will", "with", "this",
	"have", "had", "but", "not", "you", "your", "we", "our",
	"they", "their", "she", "her", "his", "if", "or", "so",
	"no", "can", "do", "does", "did", "been", "being", "would",
	"could", "should", "may", "might", "must", "shall", "which",
	"who", "whom", "what", "when", "where", "why", "how", "all",
	"each", "every", "both", "few", "more", "most", "other",
	"some", "such", "than", "too", "very", "just", "also",
)

func buildStopwordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// minTokenLen is the shortest token kept; single characters add noise to
// BM25 postings without discriminating power.
const minTokenLen = 2

// Tokenizer produces the normalized term stream a Chunk's Lexical Document
// is indexed and queried by: lowercased, stopword-filtered, and optionally
// Porter-stemmed.
type Tokenizer struct {
	stemmer *PorterStemmer
}

// NewTokenizer creates a Tokenizer. When useStemming is false, terms pass
// through Porter stemming untouched.
func NewTokenizer(useStemming bool) *Tokenizer {
	t := &Tokenizer{}
	if useStemming {
		t.stemmer = NewPorterStemmer()
	}
	return t
}

// Tokenize splits text on word boundaries and returns the surviving terms.
func (t *Tokenizer) Tokenize(text string) []string {
	raw := splitWords(text)
	terms := make([]string, 0, len(raw))

	for _, word := range raw {
		word = strings.ToLower(word)
		if len(word) < minTokenLen {
			continue
		}
		if _, isStop := stopwords[word]; isStop {
			continue
		}
		if t.stemmer != nil {
			word = t.stemmer.Stem(word)
		}
		terms = append(terms, word)
	}

	return terms
}

// splitWords breaks text on any rune that isn't a letter, digit, or
// underscore, so "snake_case_name" survives as one word while punctuation
// and whitespace split everything else.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}
