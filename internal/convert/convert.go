// Package convert turns uploaded document bytes into plain text. It is the
// default implementation of the pipeline's text source; extraction logic
// never lives here.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/nmezrioui/facturex/internal/common"
)

// Config for the converter. The OCR binaries are external tools resolved
// from PATH unless absolute paths are given.
type Config struct {
	Tesseract     string // default "tesseract"
	Pdftoppm      string // default "pdftoppm"
	TesseractLang string // default "eng+fra"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
}

// Converter routes a document to the extractor matching its extension.
type Converter struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewConverter(cfg Config, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng+fra"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Converter{cfg: cfg, runner: execRunner{}, logger: logger}
}

// TextOf converts document bytes to text based on the filename extension.
// Unsupported extensions return common.ErrUnsupportedFormat.
func (c *Converter) TextOf(ctx context.Context, filename string, data []byte) (string, error) {
	start := time.Now()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = c.extractPDF(ctx, data)
	case "jpg", "jpeg", "png", "tiff", "tif":
		text, err = c.extractImage(ctx, data, ext)
	case "docx":
		text, err = extractDOCX(data)
	case "xlsx", "xlsm", "xls":
		text, err = extractSpreadsheet(data)
	default:
		return "", fmt.Errorf("%w: .%s", common.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		c.logger.Error("convert.failed", "filename", filename, "ext", ext, "error", err)
		return "", err
	}

	c.logger.Info("convert.ok",
		"filename", filename,
		"ext", ext,
		"text_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
