// Package extractor pulls plain text out of uploaded documents. Every
// format funnels into the same contract: the result is the
// concatenation of the document's parts in their natural order, and a
// document whose text is empty or whitespace-only yields
// ErrNoExtractableText.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	mdtext "github.com/yuin/goldmark/text"
)

// ErrNoExtractableText means the document produced no usable text,
// for example a scanned PDF with image-only pages. The pipeline cannot
// continue past this point.
var ErrNoExtractableText = errors.New("no extractable text in document")

// FromFile reads a document and extracts its text, dispatching on the
// file extension.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return PDF(data)
	case ".docx":
		return DOCX(data)
	case ".md", ".markdown":
		return Markdown(data)
	case ".xlsx", ".ods":
		return Spreadsheet(data)
	case ".txt":
		return Text(data)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

// PDF extracts text from PDF bytes, concatenating pages in order.
// A page that yields no text contributes an empty string; it never
// fails the whole document.
func PDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only or malformed page, skip it.
			continue
		}
		text.WriteString(pageText)
	}

	return ensureText(text.String())
}

// DOCX extracts the paragraph text of a Word document.
func DOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var text strings.Builder
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		text.WriteString(p)
		text.WriteString("\n")
	}

	return ensureText(text.String())
}

// Markdown extracts the plain text of a markdown document by walking
// the parsed AST and collecting text segments, one line per block.
func Markdown(data []byte) (string, error) {
	root := goldmark.New().Parser().Parse(mdtext.NewReader(data))

	var text strings.Builder
	err := mdast.Walk(root, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			if n.Type() == mdast.TypeBlock && text.Len() > 0 {
				text.WriteString("\n")
			}
			return mdast.WalkContinue, nil
		}
		if t, ok := n.(*mdast.Text); ok {
			text.Write(t.Segment.Value(data))
			if t.SoftLineBreak() || t.HardLineBreak() {
				text.WriteString("\n")
			}
		}
		return mdast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("walking markdown: %w", err)
	}

	return ensureText(text.String())
}

// Spreadsheet extracts sheet contents as tab-separated rows, sheets in
// workbook order. Works for both .xlsx and .ods.
func Spreadsheet(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(sheetName)
		text.WriteString("\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
	}

	return ensureText(text.String())
}

// Text passes plain-text bytes through the extraction contract.
func Text(data []byte) (string, error) {
	return ensureText(string(data))
}

func ensureText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoExtractableText
	}
	return text, nil
}
