// Package pdfthumb renders the first page of a PDF to an image.
package pdfthumb

import (
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

const baseDPI = 72.0

var ErrNoPages = errors.New("pdf has no pages")

type Renderer interface {
	RenderFirstPage(data []byte) (image.Image, error)
}

// Fitz rasterizes through MuPDF. Zoom 1.0 is 72 DPI.
type Fitz struct {
	Zoom float64
}

func NewFitz(zoom float64) Fitz {
	if zoom <= 0 {
		zoom = 2.0
	}
	return Fitz{Zoom: zoom}
}

func (f Fitz) DPI() float64 {
	return baseDPI * f.Zoom
}

func (f Fitz) RenderFirstPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()
	if doc.NumPage() < 1 {
		return nil, ErrNoPages
	}
	img, err := doc.ImageDPI(0, f.DPI())
	if err != nil {
		return nil, fmt.Errorf("render page 1: %w", err)
	}
	return img, nil
}
