// Package render converts PDF documents into per-page PNG images.
// It wraps document-context's ImageMagick renderer with bounded
// concurrency so downstream steps can operate on page images.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"

	"golang.org/x/sync/errgroup"
)

// Page references a rendered page image on disk.
type Page struct {
	Number int
	Path   string
}

// Renderer converts a PDF file into page images written under dir.
// Pages are returned in page order.
type Renderer interface {
	RenderPDF(ctx context.Context, pdfPath, dir string) ([]Page, error)
}

type magick struct{}

// NewMagick creates a Renderer backed by document-context's ImageMagick pipeline.
func NewMagick() Renderer {
	return magick{}
}

func (magick) RenderPDF(ctx context.Context, pdfPath, dir string) ([]Page, error) {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(config.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}

	pageCount := len(allPages)
	pages := make([]Page, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(pageCount))

	for i, page := range allPages {
		pageNum := i + 1
		imgPath := filepath.Join(dir, fmt.Sprintf("page-%d.png", pageNum))
		pages[i] = Page{
			Number: pageNum,
			Path:   imgPath,
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", pageNum, err)
			}

			if err := os.WriteFile(imgPath, data, 0600); err != nil {
				return fmt.Errorf("write page %d image: %w", pageNum, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
