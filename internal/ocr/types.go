package ocr

// Item is one recognized text line with its OCR confidence.
type Item struct {
	Text string  `json:"text"`
	Conf float64 `json:"conf"`
}

// Document is the per-image OCR output. RawText is the item texts joined
// by newlines; downstream extraction works on it.
type Document struct {
	Image   string `json:"image"`
	Path    string `json:"path"`
	RawText string `json:"raw_text"`
	Items   []Item `json:"items"`
}

type Result struct {
	Doc      *Document
	Filename string // path the engine actually read (preprocessed temp), used for cleanup
	Source   string // original image path
	Error    error
}

type Engine interface {
	ProcessImage(imagePath string) (*Document, error)
	Close() error
}
