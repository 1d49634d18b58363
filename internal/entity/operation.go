package entity

type OperationKind string

const (
	OperationResize         OperationKind = "resize"
	OperationFlipHorizontal OperationKind = "flip_horizontally"
	OperationFlipVertical   OperationKind = "flip_vertically"
)

// Operation is a single step of the transform pipeline.
// Width and Height only matter for resize; 0 keeps the current size on that axis.
type Operation struct {
	Kind   OperationKind `json:"kind"`
	Width  uint32        `json:"width"`
	Height uint32        `json:"height"`
}

type Operations []Operation

func Resize(width, height uint32) Operation {
	return Operation{Kind: OperationResize, Width: width, Height: height}
}

func FlipHorizontal() Operation {
	return Operation{Kind: OperationFlipHorizontal}
}

func FlipVertical() Operation {
	return Operation{Kind: OperationFlipVertical}
}

// BuildOperations compiles a resize target into an ordered operation list:
// resize first, then horizontal flip, then vertical flip.
func BuildOperations(t ResizeTarget) Operations {
	ops := Operations{Resize(abs(t.Width), abs(t.Height))}

	if t.Width < 0 {
		ops = append(ops, FlipHorizontal())
	}
	if t.Height < 0 {
		ops = append(ops, FlipVertical())
	}

	return ops
}

func abs(v int32) uint32 {
	if v < 0 {
		return uint32(-int64(v))
	}

	return uint32(v)
}
