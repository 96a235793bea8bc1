package export

import (
	"context"
	"strings"
	"unicode"

	"cv-generator-backend/internal/domain"
	"cv-generator-backend/pkg/apperror"
	"cv-generator-backend/pkg/logger"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Exporter struct {
	renderer Renderer
}

// NewExporter returns an exporter. With a nil renderer only HTML is available.
func NewExporter(renderer Renderer) *Exporter {
	return &Exporter{renderer: renderer}
}

func (e *Exporter) Export(ctx context.Context, doc *domain.GeneratedDoc, format domain.ExportFormat) (*domain.ExportedFile, error) {
	title := doc.DocumentTitle
	if title == "" {
		title = doc.CandidateName
	}
	page, err := RenderHTML(title, doc.Content)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	switch format {
	case domain.ExportHTML:
		return &domain.ExportedFile{
			Filename:    Slug(title) + ".html",
			ContentType: "text/html; charset=utf-8",
			Data:        page,
		}, nil
	case domain.ExportPDF:
		if e.renderer == nil {
			return nil, apperror.Configuration("PDF export is not enabled")
		}
		data, err := e.renderer.RenderPDF(ctx, page)
		if err != nil {
			logger.Log.Error("PDF render failed", "document_id", doc.ID, "error", err)
			return nil, apperror.Internal(err)
		}
		return &domain.ExportedFile{
			Filename:    Slug(title) + ".pdf",
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
	return nil, apperror.BadRequest("Unsupported export format: " + string(format))
}

// Slug lowercases s, folds accents, and keeps only ASCII letters, digits and single dashes.
func Slug(s string) string {
	if folded, _, err := transform.String(foldAccents(), s); err == nil {
		s = folded
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "document"
	}
	return out
}

// foldAccents strips combining marks so "é" becomes "e".
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
