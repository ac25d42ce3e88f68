package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/data"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/image"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/logger"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr/engine"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/writer"
)

type result[T any] struct {
	path string
	doc  *ocr.Document
	data T
	err  error
}

type writeResult[T any] struct {
	mu       sync.Mutex
	writes   map[string]T
	failures map[string]error
}

// Outputs names the three files one run produces.
type Outputs struct {
	JSONPath string
	CSVPath  string
	XLSXPath string
}

type Clients struct {
	engine ocr.Engine
	image  image.ImageProcessor
	data   data.DataExtractor
	writer *writer.CSVWriter[data.ProcurementRecord]
}

type contextKey string

const clientsKey contextKey = "all_my_clients"

const outputsKey contextKey = "run_outputs"

func Run(engineType string, directory string, outputs Outputs) (writes map[string]data.ProcurementRecord, failures map[string]error) {
	ocrEngine, err := engine.New(engineType)
	if err != nil {
		logger.DebugLog("Failed to create OCR engine: %v", err)
		return nil, map[string]error{"engine": err}
	}
	return RunWithEngine(ocrEngine, directory, outputs)
}

// RunWithEngine drives the whole pipeline with an already-constructed
// engine. Split out of Run so a stub engine can stand in for Tesseract.
func RunWithEngine(ocrEngine ocr.Engine, directory string, outputs Outputs) (writes map[string]data.ProcurementRecord, failures map[string]error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.DebugLog("Pipeline started with directory=%s, csv=%s", directory, outputs.CSVPath)

	defer func() {
		logger.DebugLog("Closing OCR engine")
		ocrEngine.Close()
	}()

	clients := &Clients{
		engine: ocrEngine,
		image:  *image.NewImageProcessor(),
		data:   *data.NewDataExtractor(),
		writer: writer.NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader),
	}

	// Embed clients in context
	ctx = context.WithValue(ctx, clientsKey, clients)
	ctx = context.WithValue(ctx, outputsKey, outputs)

	errChan := make(chan error, 10)                              // Buffered channel to collect errors
	files := make(chan string)                                   // Unbuffered channel for file paths
	enhancedChan := make(chan enhancedItem, 2)                   // Bounded buffer to throttle image preprocessing
	ocrChan := make(chan ocr.Result)                             // OCR documents from enhanced images
	extractChan := make(chan result[data.ProcurementRecord], 10) // Extraction output (OCR documents to procurement records)
	results := &writeResult[data.ProcurementRecord]{
		writes:   make(map[string]data.ProcurementRecord), // Map to store extracted records
		failures: make(map[string]error),                  // Map to store failures
	}

	// Stage errors are drained for the entire run. Stages send to errChan
	// mid-flight, so draining only at the end would wedge the whole
	// pipeline once a batch produces more errors than the buffer holds.
	var drainWg sync.WaitGroup
	drainWg.Add(1)
	go func() {
		defer drainWg.Done()
		logger.DebugLog("Starting [drainErrors] goroutine")
		n := 0
		for err := range errChan {
			if err != nil {
				n++
				logger.DebugLog("Error received in errChan: %v", err)
				results.addFailure(fmt.Sprintf("pipeline_error_%d", n), err)
			}
		}
		logger.DebugLog("[drainErrors] goroutine finished after %d errors", n)
	}()

	go func() {
		defer close(files)
		logger.DebugLog("Starting [walkFiles] goroutine")
		walkFiles(ctx, directory, files, errChan)
		defer logger.DebugLog("[walkFiles] goroutine finished")
	}()

	go func() {
		defer close(enhancedChan)
		logger.DebugLog("Starting [enhanceImage] goroutine")
		enhanceImage(ctx, files, enhancedChan, errChan)
		defer logger.DebugLog("[enhanceImage] goroutine finished")
	}()

	processCount := 2 // hard limit on OCR workers for now
	var wg sync.WaitGroup

	for i := 0; i < processCount; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			logger.DebugLog("Starting [performOcr] worker #%d", worker+1)
			performOcr(ctx, enhancedChan, ocrChan, errChan)
			defer logger.DebugLog("[performOcr] worker #%d finished", worker+1)
		}(i)
	}
	go func() {
		wg.Wait()
		logger.DebugLog("All [performOcr] workers finished, closing ocrChan")
		close(ocrChan)
	}()

	// fan-out - forward ocr results to extraction + cleanup
	extractInput := make(chan ocr.Result)
	cleanupInput := make(chan ocr.Result, 10) // Buffered channel for cleanup of files created during enhancement

	go func() {
		logger.DebugLog("Starting [forwardChan] for ocrChan -> extractInput, cleanupInput")
		forwardChan(ctx, ocrChan, extractInput, cleanupInput)
		defer logger.DebugLog("[forwardChan] for ocrChan finished")
	}()

	go func() {
		defer close(extractChan)
		logger.DebugLog("Starting [extractData] goroutine")
		extractData(ctx, extractInput, extractChan, errChan)
		defer logger.DebugLog("[extractData] goroutine finished")
	}()

	var cleanupWg sync.WaitGroup
	cleanupWg.Add(1)
	go func() {
		defer cleanupWg.Done()
		logger.DebugLog("Starting [cleanupImage] goroutine")
		cleanupImage(ctx, cleanupInput, errChan)
		defer logger.DebugLog("[cleanupImage] goroutine finished")
	}()

	var writeWg sync.WaitGroup
	writeWg.Add(1)
	go func() {
		defer writeWg.Done()
		logger.DebugLog("Starting [writeOutput] goroutine")
		writeOutput(ctx, extractChan, results, errChan)
		defer logger.DebugLog("[writeOutput] goroutine finished")
	}()

	writeWg.Wait()
	cleanupWg.Wait()
	logger.DebugLog("All stages finished, closing errChan")
	close(errChan)
	drainWg.Wait()

	logger.DebugLog("Pipeline finished")
	return results.writes, results.failures
}

func forwardChan[T any](ctx context.Context, in <-chan T, outs ...chan<- T) {
	defer func() {
		for _, out := range outs {
			close(out)
		}
	}()

	for res := range in {
		if ctx.Err() != nil {
			logger.DebugLog("forwardChan: context cancelled")
			return
		}

		logger.DebugLog("forwardChan: forwarding result to %d outputs", len(outs))
		for _, out := range outs {
			select {
			case out <- res:
			case <-ctx.Done():
				logger.DebugLog("forwardChan: context done while forwarding")
				return
			}
		}
	}
}
