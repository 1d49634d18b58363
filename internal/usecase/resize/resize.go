package resize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/andreyxaxa/miniaturs/internal/dto"
	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/andreyxaxa/miniaturs/internal/usecase"
	"github.com/andreyxaxa/miniaturs/internal/usecase/validation"
	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/metrics"
	"github.com/andreyxaxa/miniaturs/pkg/signature"
	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
)

type ResizeUseCase struct {
	verifier    usecase.Verifier
	validator   validation.Validator
	processed   usecase.ProcessedCache
	unprocessed usecase.UnprocessedCache
	fetcher     usecase.Fetcher
	codec       usecase.Codec
	runner      usecase.TransformRunner
	limits      entity.ValidationLimits

	metrics *metrics.Metrics
	logger  logger.Interface
}

var _ usecase.ResizeUseCase = (*ResizeUseCase)(nil)

func New(
	verifier usecase.Verifier,
	validator validation.Validator,
	processed usecase.ProcessedCache,
	unprocessed usecase.UnprocessedCache,
	fetcher usecase.Fetcher,
	codec usecase.Codec,
	runner usecase.TransformRunner,
	limits entity.ValidationLimits,
	m *metrics.Metrics,
	l logger.Interface,
) *ResizeUseCase {
	return &ResizeUseCase{
		verifier:    verifier,
		validator:   validator,
		processed:   processed,
		unprocessed: unprocessed,
		fetcher:     fetcher,
		codec:       codec,
		runner:      runner,
		limits:      limits,
		metrics:     m,
		logger:      l,
	}
}

func (uc *ResizeUseCase) Resize(ctx context.Context, in dto.ResizeInput) (*dto.ResizedImage, error) {
	ops, err := uc.authorize(in)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.authorize: %w", err)
	}

	// 1. transform tier
	resizeReq := entity.ResizeRequest{URL: in.URL, Operations: ops}
	cached, err := uc.processed.Get(ctx, resizeReq)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.processed.Get: %w", err)
	}
	if cached != nil {
		return &dto.ResizedImage{Data: cached.Data, ContentType: cached.Entry.ContentType}, nil
	}

	// 2. fetch tier, then origin
	data, contentType, err := uc.source(ctx, in.URL)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.source: %w", err)
	}

	// 3. check dimensions from the header, then decode
	format, err := uc.codec.DetectFormat(contentType, in.URL, data)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.codec.DetectFormat: %w", err)
	}

	cfg, err := uc.codec.DecodeConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.codec.DecodeConfig: %w", err)
	}

	if vErr := uc.validator.ValidateSourceImage(uc.limits, cfg.Width, cfg.Height); vErr != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.validator.ValidateSourceImage: %w", vErr)
	}

	img, err := uc.codec.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.codec.Decode: %w", err)
	}

	// 4. transform and re-encode in the source format
	encoded, encodedType, err := uc.codec.Encode(uc.runner.Run(img, ops), format)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.codec.Encode: %w", err)
	}

	err = uc.processed.Set(ctx, encoded, entity.ResizedEntry{Request: resizeReq, ContentType: encodedType})
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Resize - uc.processed.Set: %w", err)
	}

	return &dto.ResizedImage{Data: encoded, ContentType: encodedType}, nil
}

// Metadata describes what Resize would do without touching the source image.
func (uc *ResizeUseCase) Metadata(_ context.Context, in dto.ResizeInput) (*dto.OperationsMetadata, error) {
	ops, err := uc.authorize(in)
	if err != nil {
		return nil, fmt.Errorf("ResizeUseCase - Metadata - uc.authorize: %w", err)
	}

	return &dto.OperationsMetadata{URL: in.URL, Operations: ops}, nil
}

// authorize verifies the signature, then parses the size and compiles and validates the operations.
func (uc *ResizeUseCase) authorize(in dto.ResizeInput) (entity.Operations, error) {
	err := uc.verifier.Verify(in.PathAndQuery, in.Signature)
	if err != nil {
		if errors.Is(err, signature.ErrBadSignature) {
			return nil, &errs.BadSignatureError{Signature: in.Signature}
		}

		return nil, fmt.Errorf("could not use the configured key, maybe it's too long or too short: %w", err)
	}

	target, err := entity.ParseResizeTarget(in.Size)
	if err != nil {
		return nil, err
	}

	ops := entity.BuildOperations(target)

	if vErr := uc.validator.ValidateOperations(uc.limits, ops); vErr != nil {
		return nil, vErr
	}

	return ops, nil
}

// source returns the raw source bytes and declared content type, from the fetch tier
// when possible, otherwise from the origin (populating the fetch tier).
func (uc *ResizeUseCase) source(ctx context.Context, url string) ([]byte, *string, error) {
	fetchReq := entity.FetchRequest{URL: url}

	cached, err := uc.unprocessed.Get(ctx, fetchReq)
	if err != nil {
		return nil, nil, fmt.Errorf("uc.unprocessed.Get: %w", err)
	}
	if cached != nil {
		return cached.Data, cached.Entry.ContentType, nil
	}

	res, err := uc.fetcher.Open(ctx, url)
	if err != nil {
		uc.metrics.OriginFetch(metrics.ResultError)

		return nil, nil, fmt.Errorf("uc.fetcher.Open: %w", err)
	}
	defer res.Body.Close()

	if res.DeclaredSize != nil {
		if vErr := uc.validator.ValidateDownloadSize(uc.limits, *res.DeclaredSize); vErr != nil {
			uc.metrics.OriginFetch("rejected")

			return nil, nil, vErr
		}
	}

	data, truncated, err := readAtMost(res.Body, uc.limits.MaxSourceSize)
	if err != nil {
		uc.metrics.OriginFetch(metrics.ResultError)

		return nil, nil, fmt.Errorf("readAtMost: %w", err)
	}

	if vErr := uc.validator.ValidateImageSize(uc.limits, uint64(len(data)), truncated); vErr != nil {
		uc.metrics.OriginFetch("rejected")

		return nil, nil, vErr
	}

	uc.metrics.OriginFetch(metrics.ResultOK)

	err = uc.unprocessed.Set(ctx, data, entity.FetchedEntry{Request: fetchReq, ContentType: res.ContentType})
	if err != nil {
		return nil, nil, fmt.Errorf("uc.unprocessed.Set: %w", err)
	}

	return data, res.ContentType, nil
}

// readAtMost stops after limit+1 bytes, so an oversized body is detected without buffering it whole.
// truncated reports that the body had more than limit bytes.
func readAtMost(r io.Reader, limit uint64) ([]byte, bool, error) {
	n := int64(math.MaxInt64)
	if limit < math.MaxInt64 {
		n = int64(limit) + 1
	}

	data, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, false, err
	}

	return data, uint64(len(data)) > limit, nil
}
