package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/logger"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

func performOcr(ctx context.Context, enhancedChan <-chan enhancedItem, ocrChan chan<- ocr.Result, errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.DebugLog("[performOcr]: missing clients in context")
		errChan <- fmt.Errorf("[performOcr]: missing clients in context")
		return
	}
	ocrEngine := proc.engine

	for item := range enhancedChan {
		if ctx.Err() != nil {
			logger.DebugLog("[performOcr]: context cancelled")
			return
		}

		logger.DebugLog("[performOcr]: processing image %s", item.Processed)
		doc, err := ocrEngine.ProcessImage(item.Processed)
		if doc != nil {
			// report against the original screenshot, not the temp file
			doc.Image = filepath.Base(item.Source)
			doc.Path = item.Source
		}

		logger.DebugLog("[performOcr]: sending OCR result for %s (err=%v)", item.Source, err)
		select {
		case ocrChan <- ocr.Result{Doc: doc, Filename: item.Processed, Source: item.Source, Error: err}:
		case <-ctx.Done():
			logger.DebugLog("[performOcr]: context done while sending OCR result for %s", item.Source)
			return
		}
	}
}
