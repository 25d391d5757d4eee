package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/echotutor/internal/lang"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lang  lang.Language
		limit int
		want  []string
	}{
		{"capped at three", "A. B. C. D.", lang.English, 3, []string{"A.", "B.", "C."}},
		{"no terminator keeps full input", "  a right angle has ninety degrees ", lang.English, 3, []string{"  a right angle has ninety degrees "}},
		{"trailing fragment", "Count the sides. Then the corners", lang.English, 3, []string{"Count the sides.", "Then the corners"}},
		{"urdu terminator", "یہ مثلث ہے۔ اس کے تین کونے ہیں۔", lang.Urdu, 3, []string{"یہ مثلث ہے۔", "اس کے تین کونے ہیں۔"}},
		{"latin period ignored for urdu", "Three sides. Three corners.", lang.Urdu, 3, []string{"Three sides. Three corners."}},
		{"only terminators falls back", "...", lang.English, 3, []string{"..."}},
		{"empty", "   ", lang.English, 3, nil},
		{"no limit", "A. B. C. D.", lang.English, 0, []string{"A.", "B.", "C.", "D."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.text, tt.lang, tt.limit))
		})
	}
}

func TestSplit_ReappendsTerminator(t *testing.T) {
	assert.Equal(t, []string{"One.", "Two."}, Split("One.Two.", lang.English))
	assert.Equal(t, []string{"One.", "tail"}, Split("One. tail", lang.English))
}

func TestSplitter_CompletesSentencesAcrossFragments(t *testing.T) {
	s := newSplitter(lang.English)

	assert.Empty(t, s.feed("The tri"))
	assert.Equal(t, []string{"The triangle is red."}, s.feed("angle is red. It"))
	assert.Equal(t, []string{"It points up.", "Its base is flat."}, s.feed(" points up. Its base is flat. And"))
	assert.Equal(t, "And", s.flush())
	assert.Equal(t, "", s.flush())
}
