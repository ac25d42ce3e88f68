package pipeline

import (
	"context"
	"fmt"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/data"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/logger"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/writer"
)

func writeOutput(ctx context.Context,
	extractedChan <-chan result[data.ProcurementRecord],
	results *writeResult[data.ProcurementRecord],
	errChan chan<- error) {
	ctxClients := ctx.Value(clientsKey)
	proc, ok := ctxClients.(*Clients)
	if !ok {
		logger.DebugLog("[writeOutput]: missing clients in context")
		errChan <- fmt.Errorf("[writeOutput]: missing clients in context")
		return
	}
	csvWriter := proc.writer

	outputs, ok := ctx.Value(outputsKey).(Outputs)
	if !ok {
		logger.DebugLog("[writeOutput]: missing outputs in context")
		errChan <- fmt.Errorf("[writeOutput]: missing outputs in context")
		return
	}

	var docs []*ocr.Document

	for res := range extractedChan {
		if ctx.Err() != nil {
			logger.DebugLog("[writeOutput]: context cancelled")
			return
		}

		if res.err != nil {
			logger.DebugLog("[writeOutput]: failure for %s: %v", res.path, res.err)
			results.addFailure(res.path, res.err)
			continue
		}

		logger.DebugLog("[writeOutput]: writing record for %s", res.path)
		if err := csvWriter.WriteToFile([]data.ProcurementRecord{res.data}, outputs.CSVPath); err != nil {
			logger.DebugLog("[writeOutput]: error writing to file %s: %v", outputs.CSVPath, err)
			results.addFailure(res.path, fmt.Errorf("writing to file %s: %w", outputs.CSVPath, err))
			continue
		}

		docs = append(docs, res.doc)
		logger.DebugLog("[writeOutput]: successfully wrote record for %s", res.path)
		results.addWrite(res.path, res.data)
	}

	logger.DebugLog("[writeOutput]: closing CSV writer")
	csvWriter.Close()
	logger.DebugLog("[writeOutput]: CSV writer closed")

	if len(docs) == 0 {
		return
	}

	// whole-run artifacts: raw OCR dump and the Excel view of the CSV
	logger.DebugLog("[writeOutput]: dumping %d OCR documents to %s", len(docs), outputs.JSONPath)
	if err := writer.WriteJSON(docs, outputs.JSONPath); err != nil {
		errChan <- fmt.Errorf("writing OCR JSON %s: %w", outputs.JSONPath, err)
	}

	logger.DebugLog("[writeOutput]: converting %s to %s", outputs.CSVPath, outputs.XLSXPath)
	if err := writer.CSVToExcel(outputs.CSVPath, outputs.XLSXPath); err != nil {
		errChan <- fmt.Errorf("converting CSV to Excel: %w", err)
	}
}

func (r *writeResult[T]) addWrite(path string, data T) {
	r.mu.Lock()
	r.writes[path] = data
	r.mu.Unlock()
}

func (r *writeResult[T]) addFailure(path string, err error) {
	r.mu.Lock()
	r.failures[path] = err
	r.mu.Unlock()
}
