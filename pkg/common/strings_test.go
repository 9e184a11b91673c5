package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStringInSlice(t *testing.T) {
	slice := []string{"Gender Bias", "Racial Bias"}
	assert.True(t, IsStringInSlice("Gender Bias", slice))
	assert.False(t, IsStringInSlice("gender bias", slice))
	assert.True(t, IsStringInSliceFold("gender bias", slice))
	assert.False(t, IsStringInSliceFold("Religious Bias", slice))
}

func TestFillText(t *testing.T) {
	text := "The image shows a group of people in an office.   The man in the center,\nwho appears to be the boss, is wearing a dark blue suit with a white shirt and a red tie."

	filled := FillText(text, 80)

	lines := strings.Split(filled, "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 80, line)
		assert.Equal(t, strings.TrimSpace(line), line)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(lines, " "))
}

func TestFillText_BreaksLongWords(t *testing.T) {
	filled := FillText(strings.Repeat("x", 100), 80)

	lines := strings.Split(filled, "\n")
	assert.Len(t, lines, 2)
	assert.Len(t, lines[0], 80)
	assert.Len(t, lines[1], 20)
}

func TestFillText_BreaksAfterHyphens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{
			name:     "compound words",
			text:     "The boss wears a well-tailored navy suit and a bright-red tie.",
			width:    25,
			expected: "The boss wears a well-\ntailored navy suit and a\nbright-red tie.",
		},
		{
			name:     "hyphen stays with the preceding part",
			text:     "outfits, and abcdefghij-klmnopqrst-uvwxyz",
			width:    20,
			expected: "outfits, and\nabcdefghij-\nklmnopqrst-uvwxyz",
		},
		{
			name:     "hyphen filling the line exactly",
			text:     "a abcdefgh-ijk",
			width:    11,
			expected: "a abcdefgh-\nijk",
		},
		{
			name:     "not between letters",
			text:     "pages 10-20 and -x",
			width:    80,
			expected: "pages 10-20 and -x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filled := FillText(tt.text, tt.width)
			assert.Equal(t, tt.expected, filled)
			for _, line := range strings.Split(filled, "\n") {
				assert.NotEqual(t, "-", line)
				assert.LessOrEqual(t, len(line), tt.width, line)
			}
		})
	}
}

func TestFillText_LongWordFillsCurrentLine(t *testing.T) {
	assert.Equal(t, "ab xxxxxxx\nxxxxx", FillText("ab "+strings.Repeat("x", 12), 10))
}

func TestFillText_Short(t *testing.T) {
	assert.Equal(t, "Blue.", FillText("  Blue.\n", 80))
	assert.Equal(t, "", FillText("", 80))
}

func TestIsImageFormat(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"prompts/PROMPT_1.jpg", true},
		{"prompts/PROMPT_3.png", true},
		{"https://example.com/a.JPEG", true},
		{"https://example.com/a.webp", true},
		{"https://example.com/a.gif", true},
		{"https://example.com/page", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsImageFormat(tt.url))
		})
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://example.com/a.jpg"))
	assert.True(t, IsRemote("https://example.com/a.jpg"))
	assert.False(t, IsRemote("prompts/PROMPT_1.jpg"))
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash("prompts/PROMPT_1.jpg"), Hash("prompts/PROMPT_1.jpg"))
	assert.NotEqual(t, Hash("prompts/PROMPT_1.jpg"), Hash("prompts/PROMPT_2.jpg"))
	assert.NotContains(t, Hash("https://example.com/a.jpg?x=1"), "/")
}
