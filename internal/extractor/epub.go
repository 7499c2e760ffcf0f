package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

func (e *implExtractor) extractEPUB(ctx context.Context, epubPath string) ([]fragment.Fragment, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, apperr.Validation("open epub %s: %v", filepath.Base(epubPath), err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var container epubContainer
	if err := decodeXML(files, "META-INF/container.xml", &container); err != nil {
		return nil, err
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return nil, apperr.Validation("epub has no rootfile")
	}
	opfPath := container.Rootfiles[0].FullPath

	var pkg epubPackage
	if err := decodeXML(files, opfPath, &pkg); err != nil {
		return nil, err
	}

	hrefs := make(map[string]string, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		if item.MediaType == "application/xhtml+xml" || item.MediaType == "text/html" {
			hrefs[item.ID] = item.Href
		}
	}

	var frags []fragment.Fragment
	for _, ref := range pkg.Spine {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		name, err := url.PathUnescape(href)
		if err != nil {
			name = href
		}
		name = path.Join(path.Dir(opfPath), name)

		items, err := e.extractEPUBItem(files, name)
		if err != nil {
			e.logger.Warn(ctx, "Skipping EPUB item %s: %v", name, err)
			continue
		}
		frags = append(frags, items...)
	}

	return frags, nil
}

func (e *implExtractor) extractEPUBItem(files map[string]*zip.File, name string) ([]fragment.Fragment, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	return e.extractHTML(rc, true)
}

func decodeXML(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return apperr.Validation("epub is missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return apperr.Validation("parse %s: %v", name, err)
	}
	return nil
}
