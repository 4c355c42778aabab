// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Office Open XML documents are zip archives; text lives in well-known
// entries (word/document.xml, ppt/slides/slideN.xml). Extraction follows
// a regex-over-XML approach rather than a full schema parser: text runs
// are short, flat elements and the surrounding markup is discarded.
var (
	wordParagraphRe = regexp.MustCompile(`<w:p[ >]`)
	wordTextRunRe   = regexp.MustCompile(`<w:t[^>]*>(.*?)</w:t>`)
	slideTextRunRe  = regexp.MustCompile(`<a:t[^>]*>(.*?)</a:t>`)
	slideNumberRe   = regexp.MustCompile(`slide(\d+)\.xml$`)
)

// extractWord concatenates paragraph text in document order with a newline
// separator and yields exactly one character-offset block. Paragraph
// boundaries carry no locational meaning a reviewer needs, unlike pages
// or slides.
func extractWord(data []byte) ([]TextBlock, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a word document archive: %v", ErrCorruptDocument, err)
	}

	var documentFile *zip.File
	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}
	if documentFile == nil {
		return nil, fmt.Errorf("%w: document.xml not found in the archive", ErrCorruptDocument)
	}

	docContent, err := readZipEntry(documentFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var paragraphs []string
	for _, rawParagraph := range wordParagraphRe.Split(string(docContent), -1)[1:] {
		var runs []string
		for _, match := range wordTextRunRe.FindAllStringSubmatch(rawParagraph, -1) {
			runs = append(runs, unescapeXMLEntities(match[1]))
		}
		text := strings.TrimSpace(strings.Join(runs, ""))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	return []TextBlock{{
		Content:  strings.Join(paragraphs, "\n"),
		Location: Location{Kind: LocationCharacterOffset},
	}}, nil
}

// extractSlideDeck yields one block per slide, in slide order, containing
// the concatenated text of every text-bearing shape on that slide. Each
// block is prefixed with a slide marker for traceability.
func extractSlideDeck(data []byte) ([]TextBlock, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a slide deck archive: %v", ErrCorruptDocument, err)
	}

	var slides []*zip.File
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file)
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: no slides found in the archive", ErrCorruptDocument)
	}

	// Archive order is not slide order; sort by the number in the entry name.
	sort.Slice(slides, func(i, j int) bool {
		return slideEntryNumber(slides[i].Name) < slideEntryNumber(slides[j].Name)
	})

	blocks := make([]TextBlock, 0, len(slides))
	for i, slide := range slides {
		slideContent, err := readZipEntry(slide)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}

		var shapes []string
		for _, match := range slideTextRunRe.FindAllStringSubmatch(string(slideContent), -1) {
			text := unescapeXMLEntities(match[1])
			if text != "" {
				shapes = append(shapes, text)
			}
		}

		slideNum := i + 1
		blocks = append(blocks, TextBlock{
			Content:  fmt.Sprintf("[Slide %d] %s", slideNum, strings.Join(shapes, " ")),
			Location: Location{Kind: LocationSlide, Number: slideNum},
		})
	}

	return blocks, nil
}

// slideEntryNumber extracts the slide number from an archive entry name,
// returning a high sentinel for non-standard names so they sort last.
func slideEntryNumber(name string) int {
	matches := slideNumberRe.FindStringSubmatch(name)
	if len(matches) >= 2 {
		if num, err := strconv.Atoi(matches[1]); err == nil {
			return num
		}
	}
	return 9999
}

func readZipEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// unescapeXMLEntities cleans up the entities that appear in Office XML
// text runs and strips any nested markup.
func unescapeXMLEntities(text string) string {
	text = strings.Replace(text, "&lt;", "<", -1)
	text = strings.Replace(text, "&gt;", ">", -1)
	text = strings.Replace(text, "&amp;", "&", -1)
	text = strings.Replace(text, "&quot;", "\"", -1)
	text = strings.Replace(text, "&apos;", "'", -1)
	text = strings.Replace(text, " ", " ", -1)
	return text
}
