package config

import (
	"fmt"
	"time"

	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP       HTTP
		Log        Log
		Auth       Auth
		S3         S3
		Validation Validation
		Fetch      Fetch
		Metrics    Metrics
		Swagger    Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	Auth struct {
		SharedSecret    string `env:"MINIATURS_SHARED_SECRET,required,notEmpty"`
		StripEmptyQuery bool   `env:"AUTH_STRIP_EMPTY_QUERY" envDefault:"true"`
	}

	S3 struct {
		ProcessedBucket   string        `env:"PROCESSED_IMAGES_BUCKET,required"`
		UnprocessedBucket string        `env:"UNPROCESSED_IMAGES_BUCKET,required"`
		Endpoint          string        `env:"S3_ENDPOINT"`
		Region            string        `env:"S3_REGION" envDefault:"us-east-1"`
		AccessKey         string        `env:"S3_ACCESS_KEY"`
		SecretKey         string        `env:"S3_SECRET_KEY"`
		UsePathStyle      bool          `env:"REQUIRE_PATH_STYLE_S3" envDefault:"false"`
		CfgLoadTimeout    time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Validation struct {
		MaxResizeTargetWidth       uint32 `env:"MAX_RESIZE_TARGET_WIDTH" envDefault:"10000"`
		MaxResizeTargetHeight      uint32 `env:"MAX_RESIZE_TARGET_HEIGHT" envDefault:"10000"`
		MaxSourceImageWidth        uint32 `env:"MAX_SOURCE_IMAGE_WIDTH" envDefault:"10000"`
		MaxSourceImageHeight       uint32 `env:"MAX_SOURCE_IMAGE_HEIGHT" envDefault:"10000"`
		MaxSourceImageDownloadSize uint64 `env:"MAX_SOURCE_IMAGE_DOWNLOAD_SIZE" envDefault:"10000000"`
		MaxSourceImageSize         uint64 `env:"MAX_SOURCE_IMAGE_SIZE" envDefault:"10000000"`
	}

	Fetch struct {
		Timeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	}

	Metrics struct {
		Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (v Validation) Limits() entity.ValidationLimits {
	return entity.ValidationLimits{
		MaxResizeWidth:  v.MaxResizeTargetWidth,
		MaxResizeHeight: v.MaxResizeTargetHeight,
		MaxSourceWidth:  v.MaxSourceImageWidth,
		MaxSourceHeight: v.MaxSourceImageHeight,
		MaxDownloadSize: v.MaxSourceImageDownloadSize,
		MaxSourceSize:   v.MaxSourceImageSize,
	}
}
