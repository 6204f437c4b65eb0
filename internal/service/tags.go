package service

import (
	"regexp"
)

// styleTagVocabulary is the static, ordered set of known style keywords.
// Loaded once at process start and never mutated, so concurrent reads need no
// synchronization. Output order of ExtractStyleTags follows this order.
var styleTagVocabulary = []string{
	"photorealistic", "4k", "8k", "cinematic", "film grain", "portrait",
	"landscape", "sci-fi", "fantasy", "anime", "manga", "cartoon", "comic book",
	"noir", "cyberpunk", "steampunk", "vaporwave", "gothic", "art deco",
	"impressionism", "surrealism", "abstract", "minimalist", "vintage",
	"retro", "black and white", "monochrome", "vibrant", "pastel", "dark",
	"moody", "epic", "dramatic lighting", "studio lighting", "octane render",
	"unreal engine", "hyperrealistic", "concept art", "digital painting",
	"long exposure", "golden hour", "blue hour", "art nouveau", "bauhaus",
}

// tagMatchers holds one compiled whole-word matcher per vocabulary entry.
// Word boundaries keep "art" from matching inside "cartoon".
var tagMatchers = buildTagMatchers(styleTagVocabulary)

func buildTagMatchers(vocabulary []string) []*regexp.Regexp {
	matchers := make([]*regexp.Regexp, len(vocabulary))
	for i, tag := range vocabulary {
		matchers[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(tag) + `\b`)
	}
	return matchers
}

// StyleTagVocabulary returns a copy of the known style keywords.
func StyleTagVocabulary() []string {
	out := make([]string, len(styleTagVocabulary))
	copy(out, styleTagVocabulary)
	return out
}

// ExtractStyleTags returns the vocabulary entries that appear in text as
// delimited tokens, case-insensitively. Deterministic: the same text always
// yields the same tags, in vocabulary order. Empty text yields an empty slice.
func ExtractStyleTags(text string) []string {
	tags := []string{}
	if text == "" {
		return tags
	}
	for i, tag := range styleTagVocabulary {
		if tagMatchers[i].MatchString(text) {
			tags = append(tags, tag)
		}
	}
	return tags
}
