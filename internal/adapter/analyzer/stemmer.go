package analyzer

import (
	"strings"
)

// PorterStemmer reduces an English word to its Porter stem so that, e.g.,
// "running" and "runs" collapse to the same BM25 posting term.
type PorterStemmer struct{}

// NewPorterStemmer creates a Porter stemmer.
func NewPorterStemmer() *PorterStemmer {
	return &PorterStemmer{}
}

// Stem applies the Porter algorithm's five suffix-stripping passes in
// order. Words shorter than 3 runes are returned unchanged.
func (p *PorterStemmer) Stem(word string) string {
	if len(word) < 3 {
		return word
	}

	word = strings.ToLower(word)
	word = stripPluralSuffix(word)
	word = stripPastParticiple(word)
	word = terminalYToI(word)
	word = reduceDerivationalSuffixesLong(word)
	word = reduceDerivationalSuffixesShort(word)
	word = stripResidualSuffix(word)
	word = trimTrailingE(word)
	word = collapseTrailingLL(word)

	return word
}

func consonantAt(word string, i int) bool {
	switch word[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !consonantAt(word, i-1)
	}
	return true
}

// syllableMeasure counts VC sequences, the [C](VC)^m[V] "m" value the
// Porter paper's rules gate on.
func syllableMeasure(word string) int {
	n := len(word)
	m := 0
	i := 0

	for i < n && consonantAt(word, i) {
		i++
	}

	for i < n {
		for i < n && !consonantAt(word, i) {
			i++
		}
		if i >= n {
			break
		}
		m++
		for i < n && consonantAt(word, i) {
			i++
		}
	}

	return m
}

func containsVowel(word string) bool {
	for i := 0; i < len(word); i++ {
		if !consonantAt(word, i) {
			return true
		}
	}
	return false
}

func endsDoubledConsonant(word string) bool {
	n := len(word)
	if n < 2 {
		return false
	}
	return word[n-1] == word[n-2] && consonantAt(word, n-1)
}

func endsConsonantVowelConsonant(word string) bool {
	n := len(word)
	if n < 3 {
		return false
	}
	if !consonantAt(word, n-3) || consonantAt(word, n-2) || !consonantAt(word, n-1) {
		return false
	}
	c := word[n-1]
	return c != 'w' && c != 'x' && c != 'y'
}

// stripPluralSuffix is Porter's step 1a: normalizes plural endings.
func stripPluralSuffix(word string) string {
	if strings.HasSuffix(word, "sses") {
		return word[:len(word)-2]
	}
	if strings.HasSuffix(word, "ies") {
		return word[:len(word)-2]
	}
	if strings.HasSuffix(word, "ss") {
		return word
	}
	if strings.HasSuffix(word, "s") {
		return word[:len(word)-1]
	}
	return word
}

// stripPastParticiple is Porter's step 1b: strips -eed/-ed/-ing, then
// restores a trailing e or undoubles a final consonant where the resulting
// stem would otherwise look wrong (e.g. "hopping" -> "hop", not "hopp").
func stripPastParticiple(word string) string {
	if strings.HasSuffix(word, "eed") {
		stem := word[:len(word)-3]
		if syllableMeasure(stem) > 0 {
			return word[:len(word)-1]
		}
		return word
	}

	var stem string
	modified := false

	if strings.HasSuffix(word, "ed") {
		stem = word[:len(word)-2]
		if containsVowel(stem) {
			word = stem
			modified = true
		}
	} else if strings.HasSuffix(word, "ing") {
		stem = word[:len(word)-3]
		if containsVowel(stem) {
			word = stem
			modified = true
		}
	}

	if modified {
		if strings.HasSuffix(word, "at") || strings.HasSuffix(word, "bl") || strings.HasSuffix(word, "iz") {
			return word + "e"
		}
		if endsDoubledConsonant(word) {
			c := word[len(word)-1]
			if c != 'l' && c != 's' && c != 'z' {
				return word[:len(word)-1]
			}
		}
		if syllableMeasure(word) == 1 && endsConsonantVowelConsonant(word) {
			return word + "e"
		}
	}

	return word
}

// terminalYToI is Porter's step 1c: a trailing y becomes i when the stem
// before it contains a vowel.
func terminalYToI(word string) string {
	if strings.HasSuffix(word, "y") {
		stem := word[:len(word)-1]
		if containsVowel(stem) {
			return stem + "i"
		}
	}
	return word
}

var longDerivationalSuffixes = map[string]string{
	"ational": "ate", "tional": "tion", "enci": "ence", "anci": "ance",
	"izer": "ize", "abli": "able", "alli": "al", "entli": "ent",
	"eli": "e", "ousli": "ous", "ization": "ize", "ation": "ate",
	"ator": "ate", "alism": "al", "iveness": "ive", "fulness": "ful",
	"ousness": "ous", "aliti": "al", "iviti": "ive", "biliti": "ble",
}

// reduceDerivationalSuffixesLong is Porter's step 2.
func reduceDerivationalSuffixesLong(word string) string {
	for suffix, replacement := range longDerivationalSuffixes {
		if strings.HasSuffix(word, suffix) {
			stem := word[:len(word)-len(suffix)]
			if syllableMeasure(stem) > 0 {
				return stem + replacement
			}
			return word
		}
	}
	return word
}

var shortDerivationalSuffixes = map[string]string{
	"icate": "ic", "ative": "", "alize": "al", "iciti": "ic",
	"ical": "ic", "ful": "", "ness": "",
}

// reduceDerivationalSuffixesShort is Porter's step 3.
func reduceDerivationalSuffixesShort(word string) string {
	for suffix, replacement := range shortDerivationalSuffixes {
		if strings.HasSuffix(word, suffix) {
			stem := word[:len(word)-len(suffix)]
			if syllableMeasure(stem) > 0 {
				return stem + replacement
			}
			return word
		}
	}
	return word
}

var residualSuffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
	"ous", "ive", "ize",
}

// stripResidualSuffix is Porter's step 4: strips the stem's final suffix
// once it's measured two or more syllables deep.
func stripResidualSuffix(word string) string {
	for _, suffix := range residualSuffixes {
		if strings.HasSuffix(word, suffix) {
			stem := word[:len(word)-len(suffix)]
			if syllableMeasure(stem) > 1 {
				if suffix == "ion" {
					n := len(stem)
					if n > 0 && (stem[n-1] == 's' || stem[n-1] == 't') {
						return stem
					}
				} else {
					return stem
				}
			}
		}
	}
	return word
}

// trimTrailingE is Porter's step 5a.
func trimTrailingE(word string) string {
	if strings.HasSuffix(word, "e") {
		stem := word[:len(word)-1]
		if syllableMeasure(stem) > 1 {
			return stem
		}
		if syllableMeasure(stem) == 1 && !endsConsonantVowelConsonant(stem) {
			return stem
		}
	}
	return word
}

// collapseTrailingLL is Porter's step 5b.
func collapseTrailingLL(word string) string {
	if syllableMeasure(word) > 1 && endsDoubledConsonant(word) && word[len(word)-1] == 'l' {
		return word[:len(word)-1]
	}
	return word
}
