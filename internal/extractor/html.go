package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

const maxDepth = 10

var roleAtoms = map[atom.Atom]fragment.Role{
	atom.H1:         fragment.Heading1,
	atom.H2:         fragment.Heading2,
	atom.H3:         fragment.Heading3,
	atom.H4:         fragment.Heading4,
	atom.H5:         fragment.Heading5,
	atom.H6:         fragment.Heading6,
	atom.P:          fragment.Paragraph,
	atom.Li:         fragment.ListItem,
	atom.Blockquote: fragment.Quote,
	atom.Strong:     fragment.Strong,
	atom.Em:         fragment.Emphasis,
}

func (e *implExtractor) extractHTMLFile(path string) ([]fragment.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html: %w", err)
	}
	defer f.Close()

	return e.extractHTML(f, false)
}

// extractHTML walks the document body. An element with a narration role is
// emitted whole and its descendants are not visited again.
func (e *implExtractor) extractHTML(r io.Reader, promoteChapters bool) ([]fragment.Fragment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	start := findBody(doc)
	if start == nil {
		start = doc
	}

	var frags []fragment.Fragment
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		if depth > maxDepth {
			return
		}
		if n.Type == html.ElementNode {
			if role, ok := roleAtoms[n.DataAtom]; ok {
				text := textContent(n)
				if promoteChapters && role == fragment.Paragraph && e.chapter.MatchString(cleanText(text)) {
					role = fragment.Heading1
				}
				frags = e.add(frags, role, text)
				return
			}
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth+1)
		}
	}
	walk(start, 0)

	return frags, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			if n.DataAtom == atom.Br {
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
