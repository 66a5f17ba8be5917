package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF pages. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docnav-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	title, pages, err := readPDF(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = pdftotextPages(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.DocTree{Title: title}
	var b doctree.Builder
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		b.Add(fmt.Sprintf("Page %d", i+1), 0)
	}
	tree.Children = b.Sections()

	if tree.Title == "" && len(pages) > 0 {
		tree.Title = firstLine(pages[0])
	}
	if tree.Title == "" {
		tree.Title = Stem(filename)
	}
	return tree, nil
}

// readPDF returns the Info dictionary title and the plain text of each page.
func readPDF(path string) (string, []string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	title := strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return title, pages, nil
}

func pdftotextPages(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// Form feed separates pages.
	return strings.Split(string(out), "\f"), nil
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
