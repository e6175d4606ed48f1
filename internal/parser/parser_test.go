package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportbot/internal/models"
)

// buildPDF writes a minimal single-font PDF with one text line per page.
func buildPDF(t *testing.T, path string, pages ...string) {
	t.Helper()

	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	fontObj := 3 + 2*len(pages)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>", 4+2*i, fontObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("guide.pdf"))
	assert.True(t, IsPDF("dir/manual.pdf"))
	assert.False(t, IsPDF("GUIDE.PDF"))
	assert.False(t, IsPDF("dir/manual.Pdf"))
	assert.False(t, IsPDF("notes.txt"))
	assert.False(t, IsPDF("pdf"))
	assert.False(t, IsPDF("archive.pdf.zip"))
}

func TestChunkContent(t *testing.T) {
	t.Run("short content is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello world"}, chunkContent("  hello world \n", 100, 10))
	})

	t.Run("empty content", func(t *testing.T) {
		assert.Nil(t, chunkContent("   ", 100, 10))
	})

	t.Run("non-positive size", func(t *testing.T) {
		assert.Nil(t, chunkContent("hello", 0, 0))
	})

	t.Run("long content covers everything with overlap", func(t *testing.T) {
		content := strings.Repeat("abcdefghij ", 30) // 330 bytes
		chunks := chunkContent(content, 100, 20)
		require.Greater(t, len(chunks), 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 100)
		}
		assert.True(t, strings.HasPrefix(content, chunks[0]))
		assert.True(t, strings.HasSuffix(strings.TrimSpace(content), chunks[len(chunks)-1]))
	})

	t.Run("breaks on whitespace near the limit", func(t *testing.T) {
		content := strings.Repeat("x", 95) + " " + strings.Repeat("y", 50)
		chunks := chunkContent(content, 100, 0)
		require.Len(t, chunks, 2)
		assert.Equal(t, strings.Repeat("x", 95), chunks[0])
		assert.Equal(t, strings.Repeat("y", 50), chunks[1])
	})

	t.Run("overlap larger than size is capped", func(t *testing.T) {
		chunks := chunkContent(strings.Repeat("z", 250), 100, 500)
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 100)
		}
	})
}

func TestParsePDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manual.pdf")
	buildPDF(t, path, "Reset your password from settings", "Billing happens monthly")

	p := NewParserConfig(1000, 200)
	passages, err := p.ParsePDF(path)
	require.NoError(t, err)
	require.Len(t, passages, 2)

	assert.Equal(t, "manual.pdf", passages[0].Source)
	assert.Equal(t, 1, passages[0].Page)
	assert.Contains(t, passages[0].Content, "Reset your password")
	assert.Equal(t, "manual.pdf-p1-c1", passages[0].ID)

	assert.Equal(t, "manual.pdf", passages[1].Source)
	assert.Equal(t, 2, passages[1].Page)
	assert.Contains(t, passages[1].Content, "Billing")
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	buildPDF(t, filepath.Join(dir, "b.pdf"), "Second document")
	buildPDF(t, filepath.Join(dir, "a.pdf"), "First document")
	buildPDF(t, filepath.Join(dir, "c.PDF"), "Uppercase extension")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not indexed"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	passages, err := NewParserConfig(1000, 200).LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "a.pdf", passages[0].Source)
	assert.Equal(t, "b.pdf", passages[1].Source)
	for _, p := range passages {
		assert.NotContains(t, p.Content, "not indexed")
		assert.NotContains(t, p.Content, "Uppercase")
	}
}

func TestLoadDirectory_EmptyDir(t *testing.T) {
	passages, err := NewParserConfig(1000, 200).LoadDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestLoadDirectory_Missing(t *testing.T) {
	_, err := NewParserConfig(1000, 200).LoadDirectory(filepath.Join(t.TempDir(), "data"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInputMissing))
}

func TestLoadDirectory_BadPDFAbortsEverything(t *testing.T) {
	dir := t.TempDir()
	buildPDF(t, filepath.Join(dir, "a.pdf"), "Fine document")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("this is not a pdf"), 0o644))

	passages, err := NewParserConfig(1000, 200).LoadDirectory(dir)
	require.Error(t, err)
	assert.Nil(t, passages)
	assert.Equal(t, models.KindParse, models.KindOf(err))
	assert.Contains(t, err.Error(), "b.pdf")
}
