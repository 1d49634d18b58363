package response

import "github.com/andreyxaxa/miniaturs/internal/entity"

type Error struct {
	Messages []string `json:"messages"`
}

type Standard struct {
	Message string `json:"message"`
}

type Metadata struct {
	Source     Source      `json:"source"`
	Operations []Operation `json:"operations"`
}

type Source struct {
	URL string `json:"url"`
}

// Operation leaves width and height null for flips.
type Operation struct {
	Type   string  `json:"type"`
	Width  *uint32 `json:"width"`
	Height *uint32 `json:"height"`
}

func NewMetadata(url string, ops entity.Operations) Metadata {
	out := Metadata{
		Source:     Source{URL: url},
		Operations: make([]Operation, 0, len(ops)),
	}

	for _, op := range ops {
		o := Operation{Type: string(op.Kind)}
		if op.Kind == entity.OperationResize {
			width, height := op.Width, op.Height
			o.Width, o.Height = &width, &height
		}
		out.Operations = append(out.Operations, o)
	}

	return out
}
