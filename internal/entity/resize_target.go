package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
)

// ResizeTarget is the "WxH" path segment. A negative axis requests a flip on that axis.
type ResizeTarget struct {
	Width  int32 `json:"target_width"`
	Height int32 `json:"target_height"`
}

func ParseResizeTarget(s string) (ResizeTarget, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return ResizeTarget{}, fmt.Errorf("ParseResizeTarget - %q: %w", s, errs.ErrInvalidResizeTarget)
	}

	width, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return ResizeTarget{}, fmt.Errorf("ParseResizeTarget - width %q: %w", parts[0], errs.ErrInvalidResizeTarget)
	}

	height, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return ResizeTarget{}, fmt.Errorf("ParseResizeTarget - height %q: %w", parts[1], errs.ErrInvalidResizeTarget)
	}

	return ResizeTarget{Width: int32(width), Height: int32(height)}, nil
}

func (t ResizeTarget) String() string {
	return fmt.Sprintf("%dx%d", t.Width, t.Height)
}
