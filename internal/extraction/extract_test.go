package extraction

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func writeDocx(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `<w:sectPr/></w:body></w:document>`

	for name, content := range map[string]string{
		"word/document.xml":            doc,
		"word/_rels/document.xml.rels": minimalRels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestDocTypeFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    DocType
		wantErr bool
	}{
		{path: "resume.pdf", want: TypePDF},
		{path: "Resume.PDF", want: TypePDF},
		{path: "/tmp/jd.docx", want: TypeDOCX},
		{path: "notes.txt", want: TypeText},
		{path: "legacy.doc", wantErr: true},
		{path: "README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DocTypeFromPath(tt.path)
			if tt.wantErr {
				var fmtErr *UnsupportedFormatError
				assert.True(t, errors.As(err, &fmtErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.docx"))
	assert.False(t, IsSupported("a.rtf"))
	assert.Len(t, SupportedExtensions(), 3)
}

func TestExtractText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Senior Go Engineer\nRemote"), 0o644))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\nRemote", text)
}

func TestExtractText_MissingFile(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestExtractDOCX(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t xml:space="preserve">Skills: </w:t></w:r><w:r><w:t>Go &amp; SQL</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>`
	path := writeDocx(t, t.TempDir(), "resume.docx", body)

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nSkills: Go & SQL\na\tb", text)
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := ExtractFile(path)
	assert.Error(t, err)
}

func TestExtractPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := ExtractFile(path)
	assert.Error(t, err)
}

func TestExtract_UnknownType(t *testing.T) {
	_, err := Extract("x.bin", DocType("bin"))
	var fmtErr *UnsupportedFormatError
	assert.True(t, errors.As(err, &fmtErr))
}

func TestParagraphsText_NoParagraphs(t *testing.T) {
	assert.Equal(t, "", paragraphsText(`<w:body><w:sectPr/></w:body>`))
}

func TestSetPDFLicense_Empty(t *testing.T) {
	assert.NoError(t, SetPDFLicense(""))
}
