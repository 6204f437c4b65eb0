package service

import (
	"reflect"
	"testing"
)

func TestExtractStyleTags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "no matching tags",
			text:     "a dog sitting on a porch",
			expected: []string{},
		},
		{
			name:     "single tag",
			text:     "a photorealistic rendering of a city street",
			expected: []string{"photorealistic"},
		},
		{
			name:     "case insensitive",
			text:     "An ANIME character in a CYBERPUNK alley",
			expected: []string{"anime", "cyberpunk"},
		},
		{
			name:     "whole word only, no substring match",
			text:     "a cartoon character waving",
			expected: []string{"cartoon"},
		},
		{
			name:     "multi-word phrase",
			text:     "shot during golden hour with dramatic lighting",
			expected: []string{"dramatic lighting", "golden hour"},
		},
		{
			name:     "hyphenated tag",
			text:     "a sci-fi spaceship interior",
			expected: []string{"sci-fi"},
		},
		{
			name:     "numeric tag with boundary",
			text:     "rendered in 4k resolution",
			expected: []string{"4k"},
		},
		{
			name:     "output follows vocabulary order",
			text:     "a vintage noir portrait in 8k",
			expected: []string{"8k", "portrait", "noir", "vintage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractStyleTags(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractStyleTags(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractStyleTags_Deterministic(t *testing.T) {
	text := "an epic fantasy landscape, concept art, vibrant"
	first := ExtractStyleTags(text)
	for i := 0; i < 10; i++ {
		if got := ExtractStyleTags(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
		}
	}
}

func TestExtractStyleTags_SubsetOfVocabulary(t *testing.T) {
	vocab := make(map[string]bool)
	for _, tag := range StyleTagVocabulary() {
		vocab[tag] = true
	}

	got := ExtractStyleTags("cinematic anime cartoon art deco monochrome something else")
	for _, tag := range got {
		if !vocab[tag] {
			t.Errorf("extracted tag %q is not in the vocabulary", tag)
		}
	}
}
