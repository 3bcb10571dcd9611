package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"qatbot/internal/models"
)

// ExtractPaths reads every file and concatenates the extracted text in input
// order, with no separator between documents or pages. All paths are
// validated before any extraction starts: one bad path fails the whole batch
// with no work done.
func ExtractPaths(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("%w: no file paths provided", models.ErrValidation)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: file %s does not exist", models.ErrValidation, p)
		}
	}

	var text strings.Builder
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", models.ErrExtraction, p, err)
		}
		content, err := extract(filepath.Base(p), data)
		if err != nil {
			return "", err
		}
		text.WriteString(content)
	}
	return text.String(), nil
}

// ExtractUploads extracts text from in-memory uploads, concatenated in input
// order with no separators.
func ExtractUploads(uploads []models.Upload) (string, error) {
	if len(uploads) == 0 {
		return "", fmt.Errorf("%w: no files provided", models.ErrValidation)
	}
	var text strings.Builder
	for _, u := range uploads {
		content, err := extract(u.Name, u.Data)
		if err != nil {
			return "", err
		}
		text.WriteString(content)
	}
	return text.String(), nil
}

func extract(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return extractPDF(name, data)
	case ".docx":
		return extractDOCX(name, data)
	case ".xlsx":
		return extractXLSX(name, data)
	case ".md":
		return extractMarkdown(data)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: unsupported file format %q", models.ErrValidation, ext)
	}
}

// extractPDF pulls the plain text of every page, in page order.
func extractPDF(name string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrExtraction, name, err)
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
			return "", fmt.Errorf("%w: %s page %d: %v", models.ErrExtraction, name, i, err)
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

func extractDOCX(name string, data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrExtraction, name, err)
	}
	defer r.Close()

	var text strings.Builder
	for _, p := range strings.Split(r.Editable().GetContent(), "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		text.WriteString(p)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractXLSX(name string, data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrExtraction, name, err)
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString("Sheet: " + sheetName + "\n")
		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}

// extractMarkdown walks the goldmark AST and collects the text segments,
// one line per block element.
func extractMarkdown(data []byte) (string, error) {
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(data))

	var text strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				text.Write(t.Segment.Value(data))
				if t.SoftLineBreak() || t.HardLineBreak() {
					text.WriteString("\n")
				}
			}
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock {
			text.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: markdown: %v", models.ErrExtraction, err)
	}
	return text.String(), nil
}
