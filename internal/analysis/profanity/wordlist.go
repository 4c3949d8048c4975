package profanity

import (
	"strings"
	"unicode"
)

// defaultWords 是内置的英文屏蔽词表，用于大模型不可用时的离线判断。
var defaultWords = []string{
	"arse", "arsehole", "ass", "asshole", "bastard", "bitch", "bollocks", "bullshit",
	"crap", "cunt", "damn", "dick", "dickhead", "douche", "fag", "faggot", "fuck",
	"fucker", "fucking", "motherfucker", "nigger", "piss", "prick", "pussy", "retard",
	"shit", "shitty", "slut", "twat", "wanker", "whore",
}

var leetReplacer = strings.NewReplacer(
	"@", "a", "4", "a", "3", "e", "1", "i", "0", "o", "$", "s", "5", "s", "7", "t",
)

// Detector flags text that contains a censored word as a whole token.
type Detector struct {
	words map[string]struct{}
}

// NewDetector builds a detector from words; an empty list uses the built-in list.
func NewDetector(words []string) *Detector {
	if len(words) == 0 {
		words = defaultWords
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return &Detector{words: set}
}

// ContainsProfanity reports whether any token of text, after lowercasing and
// undoing common character substitutions, is a censored word.
func (d *Detector) ContainsProfanity(text string) bool {
	normalized := leetReplacer.Replace(strings.ToLower(text))
	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, token := range tokens {
		if _, ok := d.words[token]; ok {
			return true
		}
	}
	return false
}
