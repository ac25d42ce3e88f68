package engine

import (
	"fmt"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

func New(engineType string) (ocr.Engine, error) {
	var e ocr.Engine
	var err error

	switch engineType {
	case "ollama":
		e = NewOllamaEngine("", "")
	case "gosseract", "":
		e, err = NewGosseractEngine()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown engine type: %s", engineType)
	}

	return e, nil
}
