package orient

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

// Assembler recombines page images into a single PDF document.
type Assembler interface {
	Assemble(ctx context.Context, imagePaths []string, outPath string) error
}

type pdfcpuAssembler struct{}

// NewAssembler creates an Assembler backed by pdfcpu's image import.
func NewAssembler() Assembler {
	return pdfcpuAssembler{}
}

func (pdfcpuAssembler) Assemble(ctx context.Context, imagePaths []string, outPath string) error {
	if len(imagePaths) == 0 {
		return fmt.Errorf("no page images to assemble")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := api.ImportImagesFile(imagePaths, outPath, nil, nil); err != nil {
		return fmt.Errorf("import page images: %w", err)
	}

	return nil
}

func uploadFile(ctx context.Context, sys storage.System, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := sys.Upload(ctx, key, f, "application/pdf"); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	return nil
}
