package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFExtractor_Text_InvalidContent(t *testing.T) {
	e := NewPDF()

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "empty content", content: []byte{}},
		{name: "not a pdf", content: []byte("just some plain text, no PDF header")},
		{name: "truncated header", content: []byte("%PDF-1.4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := e.Text(tt.content, 2)
			assert.Error(t, err)
			assert.Empty(t, text)
		})
	}
}
