package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	// MaxChars bounds normalized resume text to cap downstream AI cost.
	MaxChars = 50000
	// MinChars is the threshold below which extraction counts as failed.
	MinChars = 25
)

// Result is the outcome of normalizing a resume reference. A failed
// extraction is a valid result: scoring proceeds in degraded mode.
type Result struct {
	Text          string
	ParsingFailed bool
	FailureReason string
}

// Normalizer turns a resume reference (inline text or a remote pointer)
// into normalized plain text.
type Normalizer struct {
	Fetcher Fetcher
}

// Normalize resolves the reference and extracts plain text from it.
// It never returns an error for candidate-input problems; those are
// reported through Result.ParsingFailed so scoring can continue.
func (n *Normalizer) Normalize(ctx context.Context, ref string) Result {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return failed("no resume reference identified")
	}

	if isRemoteRef(ref) {
		if n.Fetcher == nil {
			return failed("no document fetcher configured")
		}
		data, err := n.Fetcher.Fetch(ctx, ref)
		if err != nil {
			return failed(fmt.Sprintf("document fetch failed: %v", err))
		}
		return fromBytes(ctx, data)
	}

	// Inline reference: the field value is the resume text itself.
	return finish(ref)
}

func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func fromBytes(ctx context.Context, data []byte) Result {
	if err := ctx.Err(); err != nil {
		return failed(err.Error())
	}

	var (
		text string
		err  error
	)
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		text, err = extractPDF(data)
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		text, err = extractDOCX(data)
	default:
		text = string(data)
	}
	if err != nil {
		return failed(fmt.Sprintf("document extract failed: %v", err))
	}
	return finish(text)
}

func finish(text string) Result {
	normalized := normalizeText(text)
	if len(normalized) < MinChars {
		return failed("extracted text below minimum length")
	}
	return Result{Text: normalized}
}

func failed(reason string) Result {
	return Result{ParsingFailed: true, FailureReason: reason}
}

// normalizeText strips control characters, collapses runs of whitespace
// and caps the result at MaxChars.
func normalizeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := false
	lastNewline := false
	for _, r := range raw {
		switch {
		case r == '\n':
			if !lastNewline {
				b.WriteRune('\n')
			}
			lastNewline = true
			lastSpace = true
		case r == ' ' || r == '\t' || r == '\r':
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		case r < 0x20 || r == 0x7f:
			// drop other control characters
		default:
			b.WriteRune(r)
			lastSpace = false
			lastNewline = false
		}
	}

	out := strings.TrimSpace(b.String())
	if len(out) > MaxChars {
		cut := MaxChars
		// back up to a rune boundary so the cap never leaves invalid UTF-8
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
