package usecase

import (
	"context"
	"image"

	"github.com/andreyxaxa/miniaturs/internal/dto"
	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/andreyxaxa/miniaturs/internal/usecase/cache"
	"github.com/disintegration/imaging"
)

type (
	ResizeUseCase interface {
		Resize(ctx context.Context, in dto.ResizeInput) (*dto.ResizedImage, error)
		Metadata(ctx context.Context, in dto.ResizeInput) (*dto.OperationsMetadata, error)
	}

	Verifier interface {
		Verify(pathAndQuery, signature string) error
	}

	Fetcher interface {
		Open(ctx context.Context, url string) (*dto.OriginResponse, error)
	}

	Codec interface {
		DetectFormat(contentType *string, sourceURL string, data []byte) (imaging.Format, error)
		DecodeConfig(data []byte, format imaging.Format) (image.Config, error)
		Decode(data []byte, format imaging.Format) (image.Image, error)
		Encode(img image.Image, format imaging.Format) ([]byte, string, error)
	}

	TransformRunner interface {
		Run(img image.Image, ops entity.Operations) image.Image
	}

	UnprocessedCache interface {
		Get(ctx context.Context, req cache.Keyer) (*cache.Retrieved[entity.FetchedEntry], error)
		Set(ctx context.Context, data []byte, entry entity.FetchedEntry) error
	}

	ProcessedCache interface {
		Get(ctx context.Context, req cache.Keyer) (*cache.Retrieved[entity.ResizedEntry], error)
		Set(ctx context.Context, data []byte, entry entity.ResizedEntry) error
	}
)
