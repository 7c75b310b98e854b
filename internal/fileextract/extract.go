package fileextract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"sseojum/internal/config"
)

var (
	ErrUnsupportedType = errors.New("unsupported resume file type")
	ErrFileTooLarge    = errors.New("resume file exceeds the size limit")
	ErrEmptyDocument   = errors.New("no text could be extracted from the resume")
)

// Extractor turns an uploaded resume file into plain text.
type Extractor struct {
	maxFileSize int64
}

func New(cfg config.UploadConfig) *Extractor {
	max := cfg.MaxFileSize
	if max <= 0 {
		max = 10 << 20
	}
	return &Extractor{maxFileSize: max}
}

// Extract dispatches on the file extension. Supported: .pdf, .docx, .txt.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	if int64(len(data)) > e.maxFileSize {
		return "", ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".txt":
		text = string(data)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", err
	}

	text = normalize(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(reader.Len()))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent()), nil
}

var (
	docxParaEndRe = regexp.MustCompile(`</w:p>`)
	xmlTagRe      = regexp.MustCompile(`<[^>]+>`)
)

// stripDocxXML flattens document.xml content to plain text, keeping
// paragraph boundaries as newlines.
func stripDocxXML(content string) string {
	content = docxParaEndRe.ReplaceAllString(content, "\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", `"`)
	content = strings.ReplaceAll(content, "&apos;", "'")
	return content
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
