package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-ai/internal/ai"
)

// minimalPDF builds a one-page PDF with a correct cross-reference table.
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	classified, ok := ai.AsError(err)
	require.True(t, ok, "expected classified error, got %v", err)
	assert.Equal(t, ai.KindValidation, classified.Kind)
	assert.Equal(t, message, classified.Error())
}

func TestPageCount(t *testing.T) {
	pages, err := PageCount(minimalPDF())
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestFromBytes(t *testing.T) {
	data := minimalPDF()

	doc, err := FromBytes("cv.pdf", data)
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", doc.Name)
	assert.Equal(t, MIMEPDF, doc.MIMEType)
	assert.Equal(t, data, doc.Data)

	data[0] = 'X'
	assert.Equal(t, byte('%'), doc.Data[0], "captured bytes must not alias the input")
}

func TestValidateRejects(t *testing.T) {
	oversized := append([]byte("%PDF-1.4\n"), make([]byte, MaxSize)...)

	requireValidation(t, Validate(nil), MsgEmpty)
	requireValidation(t, Validate([]byte("just some text, not a resume")), MsgInvalidType)
	requireValidation(t, Validate([]byte("PK\x03\x04 docx-ish zip")), MsgInvalidType)
	requireValidation(t, Validate(oversized), MsgTooLarge)
	requireValidation(t, Validate([]byte("%PDF-1.4\ngarbage without trailer\n")), MsgUnreadable)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(good, minimalPDF(), 0o600))

	doc, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", doc.Name)

	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxSize+1), 0o600))
	_, err = Load(big)
	requireValidation(t, err, MsgTooLarge)

	_, err = Load(filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.False(t, ai.IsKind(err, ai.KindValidation))
}
