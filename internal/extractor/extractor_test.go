package extractor

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
	"github.com/nguyentantai21042004/narration-flow/internal/logger"
)

func newTestExtractor(chapterLang string) Extractor {
	return New(Options{ChapterLanguage: chapterLang}, logger.NewWithOptions(logger.Options{Level: "error", Output: io.Discard}))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse whitespace", "  hola \n\t mundo  ", "hola mundo"},
		{"keeps latin accents", "Capítulo número ñandú", "Capítulo número ñandú"},
		{"composes decomposed accents", "cafe\u0301", "caf\u00e9"},
		{"replaces emoji", "hola 👋 mundo", "hola mundo"},
		{"replaces cjk", "abc漢字def", "abc def"},
		{"keeps vietnamese range", "Tiếng Việt", "Tiếng Việt"},
		{"nbsp collapses", "a\u00a0\u00a0b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanText(tt.in); got != tt.want {
				t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractHTML(t *testing.T) {
	doc := `<!DOCTYPE html>
<html><head><title>ignored title</title><style>p { color: red }</style></head>
<body>
  <h1>Capítulo uno</h1>
  <div>
    <p>Había una vez un   pueblo <strong>pequeño</strong>.</p>
    <span>texto suelto sin rol</span>
  </div>
  <h2>Second part</h2>
  <ul><li>first item</li><li>ok</li></ul>
  <blockquote>A quoted line</blockquote>
  <p>12</p>
  <script>var x = "not narrated";</script>
</body></html>`
	path := writeFile(t, "story.html", doc)

	got, err := newTestExtractor("es").Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []fragment.Fragment{
		{Role: fragment.Heading1, Text: "Capítulo uno"},
		{Role: fragment.Paragraph, Text: "Había una vez un pueblo pequeño."},
		{Role: fragment.Heading2, Text: "Second part"},
		{Role: fragment.ListItem, Text: "first item"},
		{Role: fragment.Quote, Text: "A quoted line"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v\nwant %+v", got, want)
	}
}

func TestExtractHTMLDepthLimit(t *testing.T) {
	nested := "<html><body>"
	for i := 0; i < 12; i++ {
		nested += "<div>"
	}
	nested += "<p>too deep to narrate</p>"
	for i := 0; i < 12; i++ {
		nested += "</div>"
	}
	nested += "<p>shallow paragraph</p></body></html>"
	path := writeFile(t, "deep.htm", nested)

	got, err := newTestExtractor("en").Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []fragment.Fragment{{Role: fragment.Paragraph, Text: "shallow paragraph"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractText(t *testing.T) {
	path := writeFile(t, "notes.txt", "First paragraph\nstill first.\r\n\r\nSecond one.\n   \n\n...\n\nThird")

	got, err := newTestExtractor("es").Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []fragment.Fragment{
		{Role: fragment.Paragraph, Text: "First paragraph still first."},
		{Role: fragment.Paragraph, Text: "Second one."},
		{Role: fragment.Paragraph, Text: "Third"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v\nwant %+v", got, want)
	}
}

func TestExtractMarkdown(t *testing.T) {
	md := "# Title here\n\nIntro *with* emphasis\nand a soft break.\n\n### Deeper\n\n- item one\n- item two\n\n> quoted text\n\n```\ncode is skipped\n```\n"
	path := writeFile(t, "readme.md", md)

	got, err := newTestExtractor("en").Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []fragment.Fragment{
		{Role: fragment.Heading1, Text: "Title here"},
		{Role: fragment.Paragraph, Text: "Intro with emphasis and a soft break."},
		{Role: fragment.Heading3, Text: "Deeper"},
		{Role: fragment.ListItem, Text: "item one"},
		{Role: fragment.ListItem, Text: "item two"},
		{Role: fragment.Quote, Text: "quoted text"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v\nwant %+v", got, want)
	}
}

func writeEPUB(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>
    <item id="c2" href="text/ch%202.xhtml" media-type="application/xhtml+xml"/>
    <item id="c1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="c1"/>
    <itemref idref="css"/>
    <itemref idref="c2"/>
  </spine>
</package>`

func TestExtractEPUB(t *testing.T) {
	path := writeEPUB(t, map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      contentOPF,
		"OEBPS/text/ch1.xhtml": `<html xmlns="http://www.w3.org/1999/xhtml"><body>
			<p>Capítulo 1</p><p>Érase una vez en la parte alta.</p></body></html>`,
		"OEBPS/text/ch 2.xhtml": `<html><body><h2>Final</h2><p>Parte dos del libro.</p></body></html>`,
	})

	got, err := newTestExtractor("es").Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []fragment.Fragment{
		{Role: fragment.Heading1, Text: "Capítulo 1"},
		{Role: fragment.Paragraph, Text: "Érase una vez en la parte alta."},
		{Role: fragment.Heading2, Text: "Final"},
		{Role: fragment.Heading1, Text: "Parte dos del libro."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %+v\nwant %+v", got, want)
	}
}

func TestChapterPromotionOnlyAtStart(t *testing.T) {
	tests := []struct {
		name string
		lang string
		text string
		want fragment.Role
	}{
		{"spanish chapter word first", "es", "Capítulo 3: El regreso", fragment.Heading1},
		{"spanish chapter word later", "es", "Volvimos al capítulo anterior.", fragment.Paragraph},
		{"english upper case", "en", "CHAPTER IV", fragment.Heading1},
		{"english chapter word later", "en", "This chapter explains the plan.", fragment.Paragraph},
		{"english word containing chapter", "en", "Chapters are short here.", fragment.Paragraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeEPUB(t, map[string]string{
				"META-INF/container.xml": containerXML,
				"OEBPS/content.opf":      contentOPF,
				"OEBPS/text/ch1.xhtml":   "<html><body><p>" + tt.text + "</p></body></html>",
				"OEBPS/text/ch 2.xhtml":  "<html><body></body></html>",
			})

			got, err := newTestExtractor(tt.lang).Extract(context.Background(), path)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(got) != 1 || got[0].Role != tt.want {
				t.Errorf("Extract() = %+v, want one %v fragment", got, tt.want)
			}
		})
	}
}

func TestExtractEPUBMissingContainer(t *testing.T) {
	path := writeEPUB(t, map[string]string{"mimetype": "application/epub+zip"})

	_, err := newTestExtractor("es").Extract(context.Background(), path)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Extract() error = %v, want validation error", err)
	}
}

func TestExtractErrors(t *testing.T) {
	ext := newTestExtractor("es")

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "slides.pdf", "x")
		_, err := ext.Extract(context.Background(), path)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Extract() error = %v, want validation error", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ext.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.html"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Extract() error = %v, want not-exist", err)
		}
	})
}

func TestSupports(t *testing.T) {
	ext := newTestExtractor("es")
	for path, want := range map[string]bool{
		"a.HTML":     true,
		"b.epub":     true,
		"c.txt":      true,
		"d.md":       true,
		"e.markdown": true,
		"f.docx":     false,
		"noext":      false,
	} {
		if got := ext.Supports(path); got != want {
			t.Errorf("Supports(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestMinLength(t *testing.T) {
	ext := New(Options{MinLength: 6}, logger.NewWithOptions(logger.Options{Output: io.Discard}))
	path := writeFile(t, "short.txt", "tiny\n\nlonger text")

	got, err := ext.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "longer text" {
		t.Errorf("Extract() = %+v", got)
	}
}
