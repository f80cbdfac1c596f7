// Package pdftext extracts plain text from uploaded PDF reports.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/insurelens/insurelens-backend/internal/parsing/domain"
	apperrors "github.com/insurelens/insurelens-backend/pkg/errors"
)

// Extract reads a PDF from an in-memory upload and returns its
// per-page concatenated text. Pages that fail text extraction are
// skipped; a document with no extractable text at all is an
// unreadable upload.
func Extract(data []byte) (domain.RawDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.RawDocument{}, apperrors.UnreadableUpload(fmt.Sprintf("could not open PDF: %v", err))
	}

	pageCount := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	doc := domain.RawDocument{
		Text:      strings.TrimSpace(sb.String()),
		PageCount: pageCount,
	}
	if doc.Text == "" {
		return domain.RawDocument{}, apperrors.UnreadableUpload(fmt.Sprintf("no extractable text in %d pages", pageCount))
	}
	return doc, nil
}
