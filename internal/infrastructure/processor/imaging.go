package processor

import (
	"image"

	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/disintegration/imaging"
)

// Runner applies an operation list to a decoded image.
type Runner struct {
	filter imaging.ResampleFilter
}

func NewRunner() *Runner {
	return &Runner{filter: imaging.Lanczos}
}

// Run folds ops over img left to right. Every step returns a new image.
func (r *Runner) Run(img image.Image, ops entity.Operations) image.Image {
	for _, op := range ops {
		switch op.Kind {
		case entity.OperationResize:
			img = r.resize(img, op.Width, op.Height)
		case entity.OperationFlipHorizontal:
			img = imaging.FlipH(img)
		case entity.OperationFlipVertical:
			img = imaging.FlipV(img)
		}
	}

	return img
}

func (r *Runner) resize(img image.Image, width, height uint32) image.Image {
	bounds := img.Bounds()

	w, h := int(width), int(height)
	if w == 0 {
		w = bounds.Dx()
	}
	if h == 0 {
		h = bounds.Dy()
	}

	if w == bounds.Dx() && h == bounds.Dy() {
		return imaging.Clone(img)
	}

	return imaging.Resize(img, w, h, r.filter)
}
