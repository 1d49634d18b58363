package validation

import (
	"fmt"

	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
	"github.com/dustin/go-humanize"
)

// Validator checks requests and fetched content against configured limits.
// Every method reports all violated limits at once; nil means OK.
type Validator interface {
	ValidateOperations(limits entity.ValidationLimits, ops entity.Operations) *errs.ValidationError
	ValidateSourceImage(limits entity.ValidationLimits, width, height int) *errs.ValidationError
	ValidateDownloadSize(limits entity.ValidationLimits, size uint64) *errs.ValidationError
	ValidateImageSize(limits entity.ValidationLimits, size uint64, truncated bool) *errs.ValidationError
}

type LimitsValidator struct{}

var _ Validator = LimitsValidator{}

func New() LimitsValidator {
	return LimitsValidator{}
}

func (LimitsValidator) ValidateOperations(limits entity.ValidationLimits, ops entity.Operations) *errs.ValidationError {
	var problems []string

	for _, op := range ops {
		if op.Kind != entity.OperationResize {
			continue
		}

		if op.Width > limits.MaxResizeWidth {
			problems = append(problems, fmt.Sprintf(
				"Resize target width [%d] too large, must be [%d] or lower", op.Width, limits.MaxResizeWidth))
		}
		if op.Height > limits.MaxResizeHeight {
			problems = append(problems, fmt.Sprintf(
				"Resize target height [%d] too large, must be [%d] or lower", op.Height, limits.MaxResizeHeight))
		}
	}

	return errs.NewValidationError(problems)
}

func (LimitsValidator) ValidateSourceImage(limits entity.ValidationLimits, width, height int) *errs.ValidationError {
	var problems []string

	if uint64(width) > uint64(limits.MaxSourceWidth) {
		problems = append(problems, fmt.Sprintf(
			"Source image width [%d] too large, must be [%d] or lower", width, limits.MaxSourceWidth))
	}
	if uint64(height) > uint64(limits.MaxSourceHeight) {
		problems = append(problems, fmt.Sprintf(
			"Source image height [%d] too large, must be [%d] or lower", height, limits.MaxSourceHeight))
	}

	return errs.NewValidationError(problems)
}

func (LimitsValidator) ValidateDownloadSize(limits entity.ValidationLimits, size uint64) *errs.ValidationError {
	if size <= limits.MaxDownloadSize {
		return nil
	}

	return errs.NewValidationError([]string{fmt.Sprintf(
		"Image download size [%s] is too large, must be [%s] or lower",
		humanize.Bytes(size), humanize.Bytes(limits.MaxDownloadSize))})
}

// ValidateImageSize checks the size of a read body. truncated means reading stopped early,
// so size is only a lower bound and is not quoted.
func (LimitsValidator) ValidateImageSize(limits entity.ValidationLimits, size uint64, truncated bool) *errs.ValidationError {
	if size <= limits.MaxSourceSize && !truncated {
		return nil
	}

	actual := humanize.Bytes(size)
	if truncated {
		actual = "more than " + humanize.Bytes(limits.MaxSourceSize)
	}

	return errs.NewValidationError([]string{fmt.Sprintf(
		"Image size [%s] is too large, must be [%s] or lower",
		actual, humanize.Bytes(limits.MaxSourceSize))})
}
