package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/data"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/feishu"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/pipeline"
)

type CLI struct {
	imagesDir  string
	outputDir  string
	engineType string
	feishuSync bool

	out io.Writer
	now func() time.Time
}

func NewCLI() *CLI {
	return &CLI{
		imagesDir:  "input_images",
		outputDir:  "output",
		engineType: "gosseract",
		out:        os.Stdout,
		now:        time.Now,
	}
}

func (c *CLI) Run(args []string) error {
	fs := flag.NewFlagSet("procurement-ocr", flag.ExitOnError)

	fs.StringVar(&c.imagesDir, "images", c.imagesDir, "Directory containing chat screenshots to process")
	fs.StringVar(&c.outputDir, "output", c.outputDir, "Output directory for results")
	fs.StringVar(&c.engineType, "engine", c.engineType, "OCR engine type (ollama, gosseract)")
	fs.BoolVar(&c.feishuSync, "feishu", c.feishuSync, "Upload each record's source text to the Feishu Bitable")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	// Timestamped outputs so reruns never clobber an earlier batch
	ts := c.now().Format("20060102_150405")
	outputs := pipeline.Outputs{
		JSONPath: filepath.Join(c.outputDir, fmt.Sprintf("ocr_%s.json", ts)),
		CSVPath:  filepath.Join(c.outputDir, fmt.Sprintf("procurement_%s.csv", ts)),
		XLSXPath: filepath.Join(c.outputDir, fmt.Sprintf("procurement_%s.xlsx", ts)),
	}

	return c.process(outputs)
}

func (c *CLI) process(outputs pipeline.Outputs) error {
	results, errors := pipeline.Run(c.engineType, c.imagesDir, outputs)
	for path, err := range errors {
		fmt.Fprintf(c.out, "Error processing %s: %v\n", path, err)
	}
	for path, record := range results {
		fmt.Fprintf(c.out, "Processed %s: %s (confidence %.2f)\n", path, record.ItemName, record.Confidence)
	}
	fmt.Fprintf(c.out, "\nProcessing complete! Results saved to: %s\n", outputs.CSVPath)
	fmt.Fprintf(c.out, "Excel workbook: %s\n", outputs.XLSXPath)
	fmt.Fprintf(c.out, "Raw OCR dump: %s\n", outputs.JSONPath)
	fmt.Fprintf(c.out, "Processed %d records\n", len(results)+len(errors))

	if c.feishuSync {
		return c.uploadToFeishu(results)
	}
	return nil
}

func (c *CLI) uploadToFeishu(results map[string]data.ProcurementRecord) error {
	cfg, err := feishu.ConfigFromEnv()
	if err != nil {
		return err
	}
	client := feishu.NewClient(cfg)

	ctx := context.Background()
	for path, record := range results {
		recordID, err := client.CreateRecord(ctx, record.SourceText)
		if err != nil {
			// keep going, one bad upload should not sink the batch
			fmt.Fprintf(c.out, "Feishu upload failed for %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(c.out, "Uploaded %s to Feishu (record %s)\n", path, recordID)
	}
	return nil
}
