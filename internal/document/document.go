// Package document validates resume files before anything is sent to the
// provider: one format (PDF) and at most 5 MiB.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/spigell/resume-ai/internal/ai"
)

const (
	MIMEPDF = "application/pdf"
	MaxSize = 5 << 20

	MsgInvalidType = "Invalid file type. PDF format required."
	MsgTooLarge    = "File exceeds 5MB limit."
	MsgUnreadable  = "The file could not be read as a PDF document."
	MsgEmpty       = "The file is empty."
)

// Load reads and validates a resume from disk. The size is checked before
// the file is read.
func Load(path string) (*ai.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, ai.Validation(MsgInvalidType)
	}
	if info.Size() > MaxSize {
		return nil, ai.Validation(MsgTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", path, err)
	}

	return FromBytes(filepath.Base(path), data)
}

// FromBytes validates an in-memory document and captures it.
func FromBytes(name string, data []byte) (*ai.Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	captured := make([]byte, len(data))
	copy(captured, data)

	return &ai.Document{Name: name, MIMEType: MIMEPDF, Data: captured}, nil
}

// Validate enforces the size limit, the sniffed content type and that the
// payload opens as a PDF with at least one page.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ai.Validation(MsgEmpty)
	}
	if len(data) > MaxSize {
		return ai.Validation(MsgTooLarge)
	}
	if !mimetype.Detect(data).Is(MIMEPDF) {
		return ai.Validation(MsgInvalidType)
	}

	pages, err := PageCount(data)
	if err != nil {
		return &ai.Error{Kind: ai.KindValidation, Message: MsgUnreadable, Err: err}
	}
	if pages == 0 {
		return ai.Validation(MsgUnreadable)
	}

	return nil
}

// PageCount opens data as a PDF and returns its page count.
func PageCount(data []byte) (pages int, err error) {
	defer func() {
		// the pdf reader panics on some malformed object graphs
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("open pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return reader.NumPage(), nil
}
