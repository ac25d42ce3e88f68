package engine

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/logger"
	"github.com/AnnieYe17/Material-Procurement-Intelligent-Data-Center/internal/ocr"
)

type OllamaEngine struct {
	baseURL string
	model   string
	client  *http.Client
}

type OllamaRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaTranscript struct {
	Lines []struct {
		Text string  `json:"text"`
		Conf float64 `json:"conf"`
	} `json:"lines"`
}

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2-vision"
)

func NewOllamaEngine(baseURL, model string) *OllamaEngine {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}

	return &OllamaEngine{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

func (o *OllamaEngine) ProcessImage(imagePath string) (*ocr.Document, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	encodedImage := base64.StdEncoding.EncodeToString(imageData)

	request := OllamaRequest{
		Model: o.model,
		Prompt: `
You are an OCR helper. The image is a chat screenshot containing short lines
of Chinese and/or English text (product names, sizes, prices, quantities).

Your job:

1. Transcribe every visible text line, top to bottom, one entry per line.
2. Keep the original language. Do not translate, summarize, or merge lines.
3. Give each line a confidence between 0 and 1.
4. Return **only** a JSON object with this exact schema:

{
  "lines": [
    {"text": "<line text>", "conf": <0.0-1.0>},
    ...
  ]
}

* Do not add any other text, explanations, or formatting.
* Skip empty lines and decorations (timestamps, avatars, UI chrome).
* Make sure the JSON is syntactically correct - double quotes, no trailing commas, no comments.
				`,
		Images: []string{encodedImage},
		Stream: false,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := o.client.Post(o.baseURL+"/api/generate", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var ollamaResp OllamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	jsonObj, err := extractJSON(ollamaResp.Response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract JSON from response: %w", err)
	}

	var transcript ollamaTranscript
	if err := json.Unmarshal(jsonObj, &transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}

	doc := &ocr.Document{
		Image: filepath.Base(imagePath),
		Path:  imagePath,
	}
	for _, ln := range transcript.Lines {
		text := strings.TrimSpace(ln.Text)
		if text == "" {
			continue
		}
		doc.Items = append(doc.Items, ocr.Item{Text: text, Conf: ln.Conf})
	}
	doc.RawText = joinItems(doc.Items)

	return doc, nil
}

func (o *OllamaEngine) Close() error {
	return nil
}

func extractJSON(input string) (json.RawMessage, error) {
	logger.DebugLog("Extracting JSON from input: %s", input)

	// Well-formed output is used untouched. De-escaping valid JSON would
	// break escaped quotes and eat double spaces inside the line texts.
	if jsonStr, ok := matchBraces(input); ok {
		var temp any
		if err := json.Unmarshal([]byte(jsonStr), &temp); err == nil {
			return json.RawMessage(jsonStr), nil
		}
	}

	// Fallback for replies that arrive double-encoded
	normalized := bytes.ReplaceAll([]byte(input), []byte("\\n"), []byte(""))
	normalized = bytes.ReplaceAll(normalized, []byte("\\r"), []byte(""))
	normalized = bytes.ReplaceAll(normalized, []byte("\\t"), []byte(""))
	normalized = bytes.ReplaceAll(normalized, []byte("\\"), []byte(""))
	normalized = bytes.ReplaceAll(normalized, []byte("  "), []byte(""))

	jsonStr, ok := matchBraces(string(normalized))
	if !ok {
		return nil, fmt.Errorf("no JSON found in text")
	}

	var temp any
	if err := json.Unmarshal([]byte(jsonStr), &temp); err != nil {
		return nil, fmt.Errorf("extracted text is not valid JSON: %w", err)
	}

	return json.RawMessage(jsonStr), nil
}

// matchBraces returns the first balanced {...} slice of text.
func matchBraces(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	braceCount := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
