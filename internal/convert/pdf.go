package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads the embedded text layer first. Scanned PDFs have none,
// so an empty result falls back to page-level OCR.
func (c *Converter) extractPDF(ctx context.Context, data []byte) (string, error) {
	text, err := pdfTextLayer(data)
	if err != nil {
		c.logger.Warn("convert.pdf.text_layer_failed", "error", err)
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	c.logger.Info("convert.pdf.no_text_layer", "method", "ocr")
	return c.ocrPDF(ctx, data)
}

func pdfTextLayer(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
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
	return strings.TrimSpace(b.String()), nil
}

// ocrPDF rasterizes every page with pdftoppm, then runs tesseract over each
// image in page order.
func (c *Converter) ocrPDF(ctx context.Context, data []byte) (string, error) {
	dir, err := os.MkdirTemp("", "facturex-pdf-*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	if _, stderr, err := c.runner.Run(ctx, c.cfg.Pdftoppm,
		"-r", strconv.Itoa(c.cfg.DPI), "-png", src, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, stderr)
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(pages) == 0 {
		return "", fmt.Errorf("no pages rasterized")
	}
	sort.Strings(pages)

	var b strings.Builder
	for _, p := range pages {
		stdout, stderr, err := c.runner.Run(ctx, c.cfg.Tesseract,
			p, "stdout", "-l", c.cfg.TesseractLang)
		if err != nil {
			return "", fmt.Errorf("tesseract: %w: %s", err, stderr)
		}
		b.Write(stdout)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
