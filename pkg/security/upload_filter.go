package security

import (
	"bytes"
	"path/filepath"
	"strings"

	"go-ats-backend/internal/domain"

	"github.com/gabriel-vasile/mimetype"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// documentTypes maps each accepted extension to its declared MIME type and
// magic prefix.
var documentTypes = map[string]struct {
	mime  string
	magic []byte
}{
	".pdf":  {domain.MIMETypePDF, []byte("%PDF")},
	".docx": {domain.MIMETypeDOCX, []byte{0x50, 0x4B, 0x03, 0x04}},
}

// ValidateDocument checks an uploaded candidate document in four layers:
//  1. extension whitelist (.pdf, .docx)
//  2. declared MIME whitelist, consistent with the extension
//  3. magic bytes
//  4. sniffed content type (DOCX may sniff as plain ZIP)
func ValidateDocument(filename, declaredMIME string, data []byte) FileValidationResult {
	ext := strings.ToLower(filepath.Ext(filename))
	result := FileValidationResult{Extension: ext}

	declaredMIME = strings.ToLower(strings.TrimSpace(strings.SplitN(declaredMIME, ";", 2)[0]))
	if declaredMIME != domain.MIMETypePDF && declaredMIME != domain.MIMETypeDOCX {
		result.Error = "Invalid file type. Only PDF and DOCX files are allowed"
		return result
	}

	want, ok := documentTypes[ext]
	if !ok {
		result.Error = "File extension not allowed: " + ext
		return result
	}
	if want.mime != declaredMIME {
		result.Error = "File extension does not match its content type"
		return result
	}

	if !bytes.HasPrefix(data, want.magic) {
		result.Error = "File content does not match its extension"
		return result
	}

	detected := mimetype.Detect(data)
	result.DetectedMIME = detected.String()
	switch ext {
	case ".pdf":
		ok = detected.Is(domain.MIMETypePDF)
	case ".docx":
		ok = detected.Is(domain.MIMETypeDOCX) || detected.Is("application/zip")
	}
	if !ok {
		result.Error = "File content type not allowed: " + detected.String()
		return result
	}

	result.Valid = true
	return result
}
