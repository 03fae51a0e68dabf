package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (s stubFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return s.data, s.err
}

func TestNormalizeInlineText(t *testing.T) {
	n := &Normalizer{}
	res := n.Normalize(context.Background(), "Experienced engineer.\n\n\nPython,   Go, Postgres.\x00\x07")

	if res.ParsingFailed {
		t.Fatalf("unexpected parsing failure: %s", res.FailureReason)
	}
	if strings.Contains(res.Text, "\x00") {
		t.Fatal("control characters should be stripped")
	}
	if strings.Contains(res.Text, "  ") {
		t.Fatalf("whitespace runs should collapse, got %q", res.Text)
	}
	if strings.Contains(res.Text, "\n\n") {
		t.Fatalf("newline runs should collapse, got %q", res.Text)
	}
}

func TestNormalizeEmptyReference(t *testing.T) {
	n := &Normalizer{}
	res := n.Normalize(context.Background(), "  ")
	if !res.ParsingFailed {
		t.Fatal("empty reference must report parsing failure")
	}
	if res.Text != "" {
		t.Fatalf("failed extraction must not carry text, got %q", res.Text)
	}
}

func TestNormalizeFetchFailure(t *testing.T) {
	n := &Normalizer{Fetcher: stubFetcher{err: errors.New("connection refused")}}
	res := n.Normalize(context.Background(), "https://example.com/resume.pdf")
	if !res.ParsingFailed {
		t.Fatal("fetch failure must report parsing failure, not raise")
	}
}

func TestNormalizeFetchedPlainText(t *testing.T) {
	body := []byte("Grace Hopper\nBuilt compilers for 10+ years. Led teams at scale.")
	n := &Normalizer{Fetcher: stubFetcher{data: body}}
	res := n.Normalize(context.Background(), "https://example.com/resume.txt")
	if res.ParsingFailed {
		t.Fatalf("unexpected failure: %s", res.FailureReason)
	}
	if !strings.Contains(res.Text, "Grace Hopper") {
		t.Fatalf("text lost in normalization: %q", res.Text)
	}
}

func TestNormalizeFetchedDocx(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document xmlns:w="ns"><w:body>` +
		`<w:p><w:r><w:t>Grace Hopper, compiler engineer with many years of experience.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	n := &Normalizer{Fetcher: stubFetcher{data: buf.Bytes()}}
	res := n.Normalize(context.Background(), "https://example.com/resume.docx")
	if res.ParsingFailed {
		t.Fatalf("unexpected failure: %s", res.FailureReason)
	}
	if !strings.Contains(res.Text, "compiler engineer") {
		t.Fatalf("docx text not extracted: %q", res.Text)
	}
}

func TestNormalizeNearEmptyOutputFails(t *testing.T) {
	n := &Normalizer{Fetcher: stubFetcher{data: []byte("   hi  ")}}
	res := n.Normalize(context.Background(), "https://example.com/resume.txt")
	if !res.ParsingFailed {
		t.Fatal("near-empty extraction must count as failed")
	}
}

func TestNormalizeCapsLength(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 4000)
	n := &Normalizer{}
	res := n.Normalize(context.Background(), long)
	if res.ParsingFailed {
		t.Fatalf("unexpected failure: %s", res.FailureReason)
	}
	if len(res.Text) > MaxChars {
		t.Fatalf("text length %d exceeds cap %d", len(res.Text), MaxChars)
	}
}

func TestNormalizeCapKeepsValidUTF8(t *testing.T) {
	// place a multi-byte rune straddling the byte cap
	long := strings.Repeat("a", MaxChars-1) + "é…"
	n := &Normalizer{}
	res := n.Normalize(context.Background(), long)
	if res.ParsingFailed {
		t.Fatalf("unexpected failure: %s", res.FailureReason)
	}
	if len(res.Text) > MaxChars {
		t.Fatalf("text length %d exceeds cap %d", len(res.Text), MaxChars)
	}
	if !utf8.ValidString(res.Text) {
		t.Fatalf("capped text is not valid UTF-8 (len=%d)", len(res.Text))
	}
}

func TestParseHelpers(t *testing.T) {
	text := "Ada Lovelace\nada@example.com\n+1 (555) 010-0123\nMathematician and programmer."

	if got := FindEmail(text); got != "ada@example.com" {
		t.Fatalf("FindEmail = %q", got)
	}
	if got := FindPhone(text); got == "" {
		t.Fatal("FindPhone found nothing")
	}
	if got := GuessName(text); got != "Ada Lovelace" {
		t.Fatalf("GuessName = %q", got)
	}
}
