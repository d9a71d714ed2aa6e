package resume

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("I led automotive strategy transformation."), 0o600))

	text, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "I led automotive strategy transformation.", text)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.pdf"))

	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExtractBytesErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"resume.txt", []byte("  \n\t "), ErrEmpty},
		{"resume.png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, ErrUnsupported},
	}

	for _, tc := range cases {
		_, err := ExtractBytes(tc.name, tc.data)
		var extractErr *ExtractionError
		require.True(t, errors.As(err, &extractErr), tc.name)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestExtractBytesCorruptDocuments(t *testing.T) {
	for _, name := range []string{"resume.pdf", "resume.docx"} {
		_, err := ExtractBytes(name, []byte("definitely not a real document"))
		var extractErr *ExtractionError
		assert.True(t, errors.As(err, &extractErr), name)
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, KindPDF, Detect("cv.PDF", nil))
	assert.Equal(t, KindDOCX, Detect("cv.docx", nil))
	assert.Equal(t, KindText, Detect("cv.md", nil))
	assert.Equal(t, KindPDF, Detect("upload", []byte("%PDF-1.7\n...")))
	assert.Equal(t, KindText, Detect("upload", []byte("plain words")))
	assert.Equal(t, "", Detect("upload.bin", []byte{0x00, 0x01, 0x02}))
}

func TestDocumentXMLText(t *testing.T) {
	content := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Head of EV Strategy</w:t><w:tab/><w:t>2019 &amp; 2020</w:t></w:r></w:p>` +
		`<w:p></w:p>` +
		`<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got := documentXMLText(content)
	assert.Equal(t, "Jane Doe\nHead of EV Strategy\t2019 & 2020\nLine one\nLine two", got)
}

func TestJoinPagesKeepsEmptyPageSlots(t *testing.T) {
	pages := map[int]string{1: "Page one", 3: "Page three"}
	got, err := joinPages(3, func(i int) (string, bool, error) {
		text, ok := pages[i]
		return text, ok, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Page one\n\nPage three", got)
}

func TestJoinPagesReportsFailingPage(t *testing.T) {
	_, err := joinPages(2, func(i int) (string, bool, error) {
		if i == 2 {
			return "", true, errors.New("bad stream")
		}
		return "ok", true, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read pdf page 2")
}
