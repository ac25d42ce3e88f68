package image

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// webp decode support for imaging.Open (WeChat exports screenshots as webp)
	_ "golang.org/x/image/webp"
)

type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// EnhanceQuality prepares a chat screenshot for OCR: upscale tiny images,
// then grayscale + contrast + sharpen so Tesseract copes better with
// anti-aliased CJK glyphs. Writes a _processed sibling and returns its path.
func (ip *ImageProcessor) EnhanceQuality(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image %s: %w", path, err)
	}

	// Resize if too small
	bounds := img.Bounds()
	if bounds.Dx() < 300 || bounds.Dy() < 300 {
		img = imaging.Resize(img, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	contrast := imaging.AdjustContrast(gray, 10)
	sharp := imaging.Sharpen(contrast, 1.1)

	extension := filepath.Ext(path)
	outExt := extension
	if strings.EqualFold(outExt, ".webp") {
		// imaging has no webp encoder
		outExt = ".png"
	}
	localPath := path[:len(path)-len(extension)]
	tempPath := localPath + "_processed" + outExt
	if err := imaging.Save(sharp, tempPath); err != nil {
		return "", fmt.Errorf("saving processed image: %w", err)
	}

	return tempPath, nil
}

func (ip *ImageProcessor) Cleanup(filePath string) error {
	return os.Remove(filePath)
}
