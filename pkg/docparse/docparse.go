package docparse

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupported = errors.New("unsupported document type")

// Text is the plain text preview of a stored document.
type Text struct {
	Body      string            `json:"text"`
	Meta      map[string]string `json:"meta,omitempty"`
	Truncated bool              `json:"truncated"`
}

// Extract converts a PDF or DOCX stream into plain text. maxRunes <= 0
// disables truncation.
func Extract(r io.Reader, mimeType string, maxRunes int) (*Text, error) {
	var (
		body string
		meta map[string]string
		err  error
	)

	switch normalize(mimeType) {
	case mimeDOCX:
		body, meta, err = docconv.ConvertDocx(r)
	case mimePDF:
		var res *docconv.Response
		res, err = docconv.Convert(r, mimePDF, true)
		if res != nil {
			body, meta = res.Body, res.Meta
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	text := &Text{Body: strings.TrimSpace(body), Meta: meta}
	if maxRunes > 0 && utf8.RuneCountInString(text.Body) > maxRunes {
		text.Body = string([]rune(text.Body)[:maxRunes])
		text.Truncated = true
	}
	return text, nil
}

func normalize(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
