package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple sentence", "Hello, World!", "hello world"},
		{"digits removed", "Test 123.", "test"},
		{"diacritics folded", "Économie!!", "economie"},
		{"mixed punctuation", "one--two...three", "onetwothree"},
		{"punctuation inside word stays joined", "don't", "dont"},
		{"symbols become spaces", "a€b", "a b"},
		{"whitespace collapsed", "  a \t b\n\nc  ", "a b c"},
		{"digits inside words", "covid19 in 2020", "covid in"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"Économie!! 2020, c'est fini...",
		"De tweede  kamer stemde\tmet 75 stemmen vóór",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "re-applying the chain must be a no-op for %q", in)
	}
}

func TestBody(t *testing.T) {
	raw := domain.RawArticle{
		Position: 1,
		File:     "a.rtf",
		Paragraphs: []string{
			"Some Title",
			"Le Soir* 12 jan 2020",
			"By Someone",
			"Summary of the piece.",
			"First body paragraph, with 3 numbers.",
			"Second body paragraph!",
		},
	}
	assert.Equal(t, "first body paragraph with numbers second body paragraph", Body(raw))
}

func TestBody_NoBodyParagraphs(t *testing.T) {
	raw := domain.RawArticle{Paragraphs: []string{"title", "meta", "byline", "summary"}}
	assert.Equal(t, "", Body(raw))

	assert.Equal(t, "", Body(domain.RawArticle{}))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "Economie", Fold("Économie"))
	assert.Equal(t, "deja vu", Fold("déjà vu"))
	assert.Equal(t, "plain ascii", Fold("plain ascii"))
}
