package pipeline

import (
	"context"
	"fmt"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/data"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/logger"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

func extractData(ctx context.Context, ocrChan <-chan ocr.Result, results chan<- result[data.ProcurementRecord], errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.DebugLog("extractData: missing clients in context")
		errChan <- fmt.Errorf("extractData: missing clients in context")
		return
	}
	dataExtractor := proc.data

	for ocrOutput := range ocrChan {
		if ctx.Err() != nil {
			logger.DebugLog("extractData: context cancelled")
			return
		}

		if ocrOutput.Error != nil {
			logger.DebugLog("extractData: OCR error for %s: %v", ocrOutput.Source, ocrOutput.Error)
			results <- result[data.ProcurementRecord]{path: ocrOutput.Source, err: ocrOutput.Error}
			continue
		}
		if ocrOutput.Doc == nil {
			logger.DebugLog("extractData: OCR returned no document for %s", ocrOutput.Source)
			results <- result[data.ProcurementRecord]{path: ocrOutput.Source, err: fmt.Errorf("OCR returned no document for %s", ocrOutput.Source)}
			continue
		}

		logger.DebugLog("extractData: extracting procurement fields from %s", ocrOutput.Source)
		record := dataExtractor.Extract(ocrOutput.Doc.RawText)
		logger.DebugLog("extractData: sending record for %s", ocrOutput.Source)
		results <- result[data.ProcurementRecord]{path: ocrOutput.Source, doc: ocrOutput.Doc, data: record}
	}
}
