// Package resume turns an uploaded resume document into plain text.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	KindPDF  = "pdf"
	KindDOCX = "docx"
	KindText = "text"
)

var (
	ErrUnsupported = errors.New("unsupported document type")
	ErrEmpty       = errors.New("document contains no extractable text")
)

// ExtractionError reports a resume that could not be turned into text.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract resume %q: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extract reads the document at path and returns its text.
func Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Name: path, Err: err}
	}
	return ExtractBytes(path, data)
}

// ExtractBytes returns the text of an in-memory document. PDF pages are joined by
// newlines in page order.
func ExtractBytes(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch Detect(name, data) {
	case KindPDF:
		text, err = pdfText(data)
	case KindDOCX:
		text, err = docxText(data)
	case KindText:
		text = string(data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
	}
	if err != nil {
		return "", &ExtractionError{Name: name, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Name: name, Err: ErrEmpty}
	}
	return text, nil
}

// Detect picks a document kind from the file extension, falling back to content sniffing.
func Detect(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".txt", ".md", ".text":
		return KindText
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return KindPDF
	}
	contentType := http.DetectContentType(data)
	if strings.HasPrefix(contentType, "text/plain") {
		return KindText
	}
	return ""
}

func pdfText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	return joinPages(reader.NumPage(), func(i int) (string, bool, error) {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", false, nil
		}
		pageText, err := page.GetPlainText(nil)
		return pageText, true, err
	})
}

// joinPages reads pages 1..count and joins them with newlines. A page with no
// content still takes its slot so page boundaries stay where they were.
func joinPages(count int, read func(i int) (string, bool, error)) (string, error) {
	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		pageText, ok, err := read(i)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if !ok {
			pageText = ""
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>`)
	tabTag       = regexp.MustCompile(`<w:tab\s*/>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

// documentXMLText flattens WordprocessingML into one line per paragraph.
func documentXMLText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabTag.ReplaceAllString(content, "\t")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
