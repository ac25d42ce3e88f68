package pipeline

import (
	"context"
	"fmt"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/logger"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

// enhancedItem pairs the original screenshot with its preprocessed temp
// file, so OCR reads the temp while reports stay keyed by the original.
type enhancedItem struct {
	Source    string
	Processed string
}

func enhanceImage(ctx context.Context, files <-chan string, results chan<- enhancedItem, errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.DebugLog("[enhanceImage]: missing clients in context")
		errChan <- fmt.Errorf("[enhanceImage]: missing clients in context")
		return
	}
	imageProcessor := proc.image

	for file := range files {
		if ctx.Err() != nil {
			logger.DebugLog("[enhanceImage]: context cancelled")
			return
		}

		logger.DebugLog("[enhanceImage]: enhancing file %s", file)
		processed, err := imageProcessor.EnhanceQuality(file)
		if err != nil {
			logger.DebugLog("[enhanceImage]: error processing %s: %v", file, err)
			errChan <- fmt.Errorf("preprocessing image %s: %w", file, err)
			continue
		}

		logger.DebugLog("[enhanceImage]: sending processed file %s", processed)
		select {
		case results <- enhancedItem{Source: file, Processed: processed}:
		case <-ctx.Done():
			logger.DebugLog("[enhanceImage]: context done while sending %s", processed)
			return
		}
	}
}

func cleanupImage(ctx context.Context, ocrChan <-chan ocr.Result, errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.DebugLog("[cleanupImage]: missing clients in context")
		errChan <- fmt.Errorf("[cleanupImage]: missing clients in context")
		return
	}
	imageProcessor := proc.image

	for ocrOutput := range ocrChan {
		if ctx.Err() != nil {
			logger.DebugLog("[cleanupImage]: context cancelled")
			return
		}

		logger.DebugLog("[cleanupImage]: cleaning up %s", ocrOutput.Filename)
		if err := imageProcessor.Cleanup(ocrOutput.Filename); err != nil {
			logger.DebugLog("[cleanupImage]: error cleaning up %s: %v", ocrOutput.Filename, err)
			errChan <- fmt.Errorf("cleanup image %s: %w", ocrOutput.Filename, err)
		}
	}
}
