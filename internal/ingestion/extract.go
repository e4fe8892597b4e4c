package ingestion

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxDocumentBytes caps the size of a document accepted for extraction
const MaxDocumentBytes = 10 << 20

// Format is a supported document format
type Format string

// Supported formats
const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
	FormatUnknown Format = ""
)

// ExtractionError reports a document that could not be read or converted to text
type ExtractionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error for %s: %s", e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extractor reads documents from disk or S3 and returns their cleaned text
type Extractor struct {
	mu sync.Mutex
	s3 ObjectGetter
}

// Option configures an Extractor
type Option func(*Extractor)

// WithS3Client sets the client used for s3:// sources
func WithS3Client(client ObjectGetter) Option {
	return func(e *Extractor) {
		e.s3 = client
	}
}

// NewExtractor creates an Extractor
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText reads source (a local path or s3://bucket/key) and returns its cleaned text.
func (e *Extractor) ExtractText(ctx context.Context, source string) (string, error) {
	data, err := e.read(ctx, source)
	if err != nil {
		return "", err
	}
	return ExtractBytes(source, data)
}

func (e *Extractor) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "s3://") {
		bucket, key, err := ParseS3URI(source)
		if err != nil {
			return nil, err
		}
		client, err := e.s3Client(ctx)
		if err != nil {
			return nil, &ExtractionError{Source: source, Message: "failed to configure S3", Cause: err}
		}
		return Download(ctx, client, bucket, key)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, &ExtractionError{Source: source, Message: "file not found", Cause: err}
	}
	if info.Size() > MaxDocumentBytes {
		return nil, &ExtractionError{Source: source, Message: fmt.Sprintf("file exceeds %d bytes", MaxDocumentBytes)}
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &ExtractionError{Source: source, Message: "failed to read file", Cause: err}
	}
	return data, nil
}

// s3Client returns the configured client, creating a default one on first use
func (e *Extractor) s3Client(ctx context.Context) (ObjectGetter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.s3 == nil {
		client, err := NewS3Client(ctx, "")
		if err != nil {
			return nil, err
		}
		e.s3 = client
	}
	return e.s3, nil
}

// ExtractBytes converts document bytes to cleaned text. name is used for the
// extension and in errors; content sniffing covers unknown extensions.
func ExtractBytes(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch format := DetectFormat(name, data); format {
	case FormatPDF:
		text, err = extractPDFText(data)
	case FormatDOCX:
		text, err = extractDocxText(data)
	case FormatHTML:
		return HTMLToText(string(data))
	case FormatText:
		text = string(data)
	default:
		return "", &ExtractionError{Source: name, Message: "unsupported file type"}
	}
	if err != nil {
		return "", &ExtractionError{Source: name, Message: "failed to extract text", Cause: err}
	}
	return CleanText(text), nil
}

// extensionFormats maps recognised file extensions to their format
var extensionFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatText,
}

// FormatForExtension returns the format named by a file's extension, or FormatUnknown.
func FormatForExtension(name string) Format {
	return extensionFormats[strings.ToLower(filepath.Ext(name))]
}

// DetectFormat picks a format from the file extension, falling back to the leading bytes.
func DetectFormat(name string, data []byte) Format {
	if f := FormatForExtension(name); f != FormatUnknown {
		return f
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatDOCX
	case utf8.Valid(data):
		head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
		if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") {
			return FormatHTML
		}
		return FormatText
	}
	return FormatUnknown
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return wordXMLText(doc.Editable().GetContent())
}

// wordXMLText returns the text runs of a WordprocessingML body, one paragraph per line
func wordXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
