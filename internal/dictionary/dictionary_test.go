package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleEntry = `[{"word":"apple","meanings":[{"partOfSpeech":"noun","definitions":[
	{"definition":"A common, round fruit.","example":"He ate an apple."}]}]}]`

func TestClient_Define(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/apple":
			_, _ = w.Write([]byte(appleEntry))
		case "/empty":
			_, _ = w.Write([]byte(`[{"word":"empty","meanings":[]}]`))
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", 0)

	tests := []struct {
		name     string
		word     string
		expected *Definition
		wantErr  error
		anyErr   bool
	}{
		{
			name: "found",
			word: " Apple ",
			expected: &Definition{
				Word:         "apple",
				PartOfSpeech: "noun",
				Text:         "A common, round fruit.",
				Example:      "He ate an apple.",
			},
		},
		{name: "unknown word", word: "zzyzx", wantErr: ErrNotFound},
		{name: "entry without definitions", word: "empty", wantErr: ErrNotFound},
		{name: "several words", word: "red apple", wantErr: ErrNotAWord},
		{name: "digits", word: "abc123", wantErr: ErrNotAWord},
		{name: "server error", word: "broken", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := c.Define(context.Background(), tt.word)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expected, def)
			}
		})
	}
}

func TestIsWord(t *testing.T) {
	assert.True(t, IsWord("huis"))
	assert.True(t, IsWord("café"))
	assert.False(t, IsWord(""))
	assert.False(t, IsWord("two words"))
	assert.False(t, IsWord("it's"))
}
