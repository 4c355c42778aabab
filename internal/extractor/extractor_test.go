// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"report.txt", FormatPlainText, false},
		{"notes.md", FormatPlainText, false},
		{"README.TEXT", FormatPlainText, false},
		{"proposal.docx", FormatWord, false},
		{"paper.PDF", FormatPDF, false},
		{"deck.pptx", FormatSlideDeck, false},
		{"legacy.rtf", "", true},
		{"data.xlsx", "", true},
		{"noextension", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	blocks, err := Extract([]byte("hello world"), FormatPlainText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != "hello world" {
		t.Errorf("content = %q", blocks[0].Content)
	}
	if blocks[0].Location.Kind != LocationCharacterOffset {
		t.Errorf("location kind = %v, want character offset", blocks[0].Location.Kind)
	}
}

func TestExtract_PlainTextInvalidUTF8(t *testing.T) {
	_, err := Extract([]byte{0xff, 0xfe, 0x00}, FormatPlainText)
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("error = %v, want ErrEncoding", err)
	}
}

func TestExtract_UnknownFormat(t *testing.T) {
	_, err := Extract([]byte("data"), Format("spreadsheet"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
}

// buildZip assembles an in-memory archive from entry name to content.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_WordDocument(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>First paragraph about </w:t></w:r><w:r><w:t>diversity.</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Second paragraph.</w:t></w:r></w:p>
<w:p></w:p>
</w:body>
</w:document>`
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	blocks, err := Extract(data, FormatWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	want := "First paragraph about diversity.\nSecond paragraph."
	if blocks[0].Content != want {
		t.Errorf("content = %q, want %q", blocks[0].Content, want)
	}
	if blocks[0].Location.Kind != LocationCharacterOffset {
		t.Errorf("location kind = %v", blocks[0].Location.Kind)
	}
}

func TestExtract_WordDocumentUnescapesEntities(t *testing.T) {
	documentXML := `<w:document><w:body><w:p><w:t>research &amp; development</w:t></w:p></w:body></w:document>`
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	blocks, err := Extract(data, FormatWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocks[0].Content != "research & development" {
		t.Errorf("content = %q", blocks[0].Content)
	}
}

func TestExtract_WordMissingDocumentXML(t *testing.T) {
	data := buildZip(t, map[string]string{"other.xml": "<x/>"})
	_, err := Extract(data, FormatWord)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("error = %v, want ErrCorruptDocument", err)
	}
}

func TestExtract_WordNotAZip(t *testing.T) {
	_, err := Extract([]byte("plain bytes, not an archive"), FormatWord)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("error = %v, want ErrCorruptDocument", err)
	}
}

func TestExtract_SlideDeck(t *testing.T) {
	// Entry order intentionally scrambled; slide 10 checks numeric sorting.
	data := buildZip(t, map[string]string{
		"ppt/slides/slide2.xml":  `<p:sld><a:t>Second slide text</a:t></p:sld>`,
		"ppt/slides/slide10.xml": `<p:sld><a:t>Tenth slide text</a:t></p:sld>`,
		"ppt/slides/slide1.xml":  `<p:sld><a:t>Title</a:t><a:t>Subtitle</a:t></p:sld>`,
	})

	blocks, err := Extract(data, FormatSlideDeck)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}

	if blocks[0].Content != "[Slide 1] Title Subtitle" {
		t.Errorf("slide 1 content = %q", blocks[0].Content)
	}
	if !strings.Contains(blocks[1].Content, "Second slide text") {
		t.Errorf("slide 2 content = %q", blocks[1].Content)
	}
	if !strings.Contains(blocks[2].Content, "Tenth slide text") {
		t.Errorf("slide 3 content = %q", blocks[2].Content)
	}

	for i, block := range blocks {
		if block.Location.Kind != LocationSlide {
			t.Errorf("block %d location kind = %v, want slide", i, block.Location.Kind)
		}
		if block.Location.Number != i+1 {
			t.Errorf("block %d slide number = %d, want %d", i, block.Location.Number, i+1)
		}
	}
}

func TestExtract_SlideDeckNoSlides(t *testing.T) {
	data := buildZip(t, map[string]string{"ppt/presentation.xml": "<p:presentation/>"})
	_, err := Extract(data, FormatSlideDeck)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("error = %v, want ErrCorruptDocument", err)
	}
}

func TestExtract_PDFCorrupt(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.7 truncated garbage"), FormatPDF)
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("error = %v, want ErrCorruptDocument", err)
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Kind: LocationCharacterOffset}, "document"},
		{Location{Kind: LocationPage, Number: 3}, "page 3"},
		{Location{Kind: LocationSlide, Number: 7}, "slide 7"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
