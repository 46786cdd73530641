package document

import (
	"testing"

	"github.com/Abraxas-365/recruitdesk/pkg/errx"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		maxBytes int64
		wantCode errx.Code
	}{
		{"empty", nil, 0, resume.CodeEmptyFile},
		{"plain text", []byte("John Smith\nEmail: john@x.com"), 0, resume.CodeUnsupportedFormat},
		{"png", []byte("\x89PNG\r\n\x1a\n0000"), 0, resume.CodeUnsupportedFormat},
		{"too large", []byte("%PDF-1.4 0123456789"), 8, resume.CodeFileTooLarge},
		{"pdf", []byte("%PDF-1.4\n"), 1024, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data, tt.maxBytes)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errx.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestUnsupportedFormatMessage(t *testing.T) {
	err := Validate([]byte("<html></html>"), 0)
	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid file type. Only PDF files are supported.", e.Message)
	assert.Equal(t, 415, e.HTTPStatus)
}

func TestPDFReader_RejectsNonPDF(t *testing.T) {
	_, err := NewPDFReader().ReadText([]byte("just text"))
	assert.True(t, errx.IsCode(err, resume.CodeUnsupportedFormat))
}

func TestPDFReader_BrokenPDFYieldsEmptyText(t *testing.T) {
	text, err := NewPDFReader().ReadText([]byte("%PDF-1.4\nthis is not a real pdf body"))
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
