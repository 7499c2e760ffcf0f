package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

var markdown = goldmark.New()

func (e *implExtractor) extractMarkdown(path string) ([]fragment.Fragment, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	doc := markdown.Parser().Parse(text.NewReader(source))

	var frags []fragment.Fragment
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			role, ok := fragment.HeadingRole(node.Level)
			if !ok {
				role = fragment.Heading6
			}
			frags = e.add(frags, role, markdownText(node, source))
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			frags = e.add(frags, fragment.Paragraph, markdownText(node, source))
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			frags = e.add(frags, fragment.ListItem, markdownText(node, source))
			return ast.WalkSkipChildren, nil
		case *ast.Blockquote:
			frags = e.add(frags, fragment.Quote, markdownText(node, source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return frags, nil
}

func markdownText(n ast.Node, source []byte) string {
	var b strings.Builder
	var collect func(ast.Node)
	collect = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(t.Value)
			case *ast.CodeSpan:
				collect(t)
			default:
				collect(c)
				if c.Type() == ast.TypeBlock {
					b.WriteByte(' ')
				}
			}
		}
	}
	collect(n)
	return b.String()
}
