package transcript

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
	"github.com/nguyentantai21042004/narration-flow/internal/subtitle"
)

var sample = []fragment.Fragment{
	{Role: fragment.Heading1, Text: "Capítulo uno"},
	{Role: fragment.Paragraph, Text: "Había una vez."},
	{Role: fragment.ListItem, Text: "primer punto"},
}

func documentXML(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts", "story.txt")
	if err := WriteText(path, sample); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Capítulo uno\nHabía una vez.\nprimer punto"
	if string(data) != want {
		t.Errorf("WriteText() wrote %q, want %q", data, want)
	}
}

func TestWriteDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.docx")
	if err := WriteDocx(path, "Story", sample); err != nil {
		t.Fatalf("WriteDocx() error = %v", err)
	}

	xml := documentXML(t, path)
	for _, want := range []string{"Story", "Capítulo uno", "Había una vez.", "• primer punto", "Times New Roman"} {
		if !strings.Contains(xml, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestWriteSRTDocx(t *testing.T) {
	cues := []subtitle.Cue{
		{Index: 1, Start: 0, End: 1, Text: "hola mundo"},
		{Index: 2, Start: 1, End: 2, Text: "hola mundo"},
		{Index: 3, Start: 2, End: 3, Text: "segunda línea\nmás texto"},
	}
	path := filepath.Join(t.TempDir(), "subs.docx")
	if err := WriteSRTDocx(path, "Subtítulos", cues); err != nil {
		t.Fatalf("WriteSRTDocx() error = %v", err)
	}

	xml := documentXML(t, path)
	if n := strings.Count(xml, "hola mundo"); n != 1 {
		t.Errorf("duplicate line written %d times, want 1", n)
	}
	for _, want := range []string{"segunda línea", "más texto"} {
		if !strings.Contains(xml, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
	if strings.Contains(xml, "00:00:01") {
		t.Error("timestamps must not appear in the transcript")
	}
}

func TestHeadingSize(t *testing.T) {
	tests := []struct {
		depth int
		want  uint64
	}{
		{1, 16}, {2, 15}, {3, 14}, {4, 13}, {6, 13},
	}
	for _, tt := range tests {
		if got := headingSize(tt.depth); got != tt.want {
			t.Errorf("headingSize(%d) = %d, want %d", tt.depth, got, tt.want)
		}
	}
}
