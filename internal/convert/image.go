package convert

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// extractImage OCRs a single image with tesseract. The bytes go through a
// temp file because tesseract wants a path.
func (c *Converter) extractImage(ctx context.Context, data []byte, ext string) (string, error) {
	f, err := os.CreateTemp("", "facturex-img-*."+ext)
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	stdout, stderr, err := c.runner.Run(ctx, c.cfg.Tesseract,
		f.Name(), "stdout", "-l", c.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, stderr)
	}
	return strings.TrimSpace(string(stdout)), nil
}
