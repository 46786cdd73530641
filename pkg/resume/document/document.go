package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/logx"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// PDFMime es el único formato aceptado para CVs
const PDFMime = "application/pdf"

// DetectFormat retorna el MIME detectado por contenido (no por extensión)
func DetectFormat(data []byte) string {
	return mimetype.Detect(data).String()
}

// Validate verifica que el archivo no esté vacío, respete el tamaño máximo y sea PDF.
// maxBytes <= 0 desactiva el límite.
func Validate(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return resume.ErrEmptyFile()
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return resume.ErrFileTooLarge().
			WithDetail("size_bytes", len(data)).
			WithDetail("max_bytes", maxBytes)
	}
	if !mimetype.Detect(data).Is(PDFMime) {
		return resume.ErrUnsupportedFormat().WithDetail("detected", DetectFormat(data))
	}
	return nil
}

// PDFReader lee la capa de texto de un PDF
type PDFReader struct{}

var _ resume.TextReader = PDFReader{}

func NewPDFReader() PDFReader {
	return PDFReader{}
}

// ReadText valida el formato y retorna el texto de todas las páginas unido por "\n".
// Un PDF sin capa de texto (escaneado) o ilegible retorna "" sin error.
func (PDFReader) ReadText(data []byte) (string, error) {
	if err := Validate(data, 0); err != nil {
		return "", err
	}

	text, err := pageTexts(data)
	if err != nil {
		logx.WithError(err).Warn("pdf text layer could not be read, continuing with empty text")
		return "", nil
	}
	return text, nil
}

func pageTexts(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}
