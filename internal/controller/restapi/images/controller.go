package images

import "github.com/andreyxaxa/miniaturs/internal/usecase"

type Images struct {
	resize          usecase.ResizeUseCase
	stripEmptyQuery bool
}
