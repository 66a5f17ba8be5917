package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
)

// TextParser handles plain text pages. The first non-blank line is the title.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.DocTree{}
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			tree.Title = line
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if tree.Title == "" {
		tree.Title = Stem(filename)
	}
	return tree, nil
}
