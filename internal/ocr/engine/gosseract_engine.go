package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

// GosseractEngine creates a fresh Tesseract client per image; gosseract
// clients are not safe to share across the OCR workers.
type GosseractEngine struct{}

func NewGosseractEngine() (*GosseractEngine, error) {
	return &GosseractEngine{}, nil
}

// ProcessImage runs Tesseract over a single image. Chat screenshots are
// mixed simplified-Chinese and English, so both language packs are loaded.
func (g *GosseractEngine) ProcessImage(imagePath string) (*ocr.Document, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage("chi_sim", "eng"); err != nil {
		return nil, fmt.Errorf("setting languages for %s: %w", imagePath, err)
	}
	client.SetPageSegMode(gosseract.PSM_AUTO)

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("setting image %s: %w", imagePath, err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from image %s: %w", imagePath, err)
	}

	doc := &ocr.Document{
		Image: filepath.Base(imagePath),
		Path:  imagePath,
	}

	// Line-level items with confidence. If box extraction fails we still
	// have the full text, just without per-line scores.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		doc.RawText = strings.TrimSpace(text)
		return doc, nil
	}

	for _, box := range boxes {
		line := strings.TrimSpace(box.Word)
		if line == "" {
			continue
		}
		doc.Items = append(doc.Items, ocr.Item{
			Text: line,
			Conf: float64(box.Confidence) / 100.0,
		})
	}
	doc.RawText = joinItems(doc.Items)
	if doc.RawText == "" {
		doc.RawText = strings.TrimSpace(text)
	}

	return doc, nil
}

func (g *GosseractEngine) Close() error {
	return nil
}

func joinItems(items []ocr.Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Text)
	}
	return strings.Join(lines, "\n")
}
