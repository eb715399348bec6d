package gallery

import (
	"context"
	"io"
	"time"

	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/config"
	"routeaura/pkg/filemanager"
	"routeaura/pkg/logger"
	"routeaura/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const (
	galleryDir  = "gallery"
	linkExpires = time.Hour
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		Config config.IConfig
		File   filemanager.File
	}

	// Image is one gallery entry with a presigned link the frontend can
	// render directly.
	Image struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}

	Service interface {
		List(ctx context.Context) ([]Image, error)
		Upload(ctx context.Context, fileName string, body io.Reader) error
		UploadFromURL(ctx context.Context, fileURL string) (string, error)
		Remove(ctx context.Context, fileName string) error
	}

	service struct {
		logger logger.Logger
		config config.IConfig
		file   filemanager.File
	}
)

func New(p Params) Service {
	return &service{
		logger: p.Logger,
		config: p.Config,
		file:   p.File,
	}
}

// List is public: the landing page gallery.
func (s service) List(ctx context.Context) ([]Image, error) {
	keys, err := s.file.List(ctx, galleryDir)
	if err != nil {
		s.logger.Error(ctx, "->file.List", zap.Error(err))
		return nil, err
	}

	images := make([]Image, 0, len(keys))
	for _, key := range keys {
		url, err := utils.PresignObjectURL(ctx, s.config, key, linkExpires)
		if err != nil {
			s.logger.Warn(ctx, "failed to presign gallery object", zap.String("key", key), zap.Error(err))
			continue
		}
		images = append(images, Image{Key: key, URL: url})
	}

	return images, nil
}

func (s service) Upload(ctx context.Context, fileName string, body io.Reader) error {
	if _, ok := scope.FromContext(ctx); !ok {
		return structs.ErrAccessDenied
	}
	if utils.StrEmpty(fileName) {
		return structs.ErrBadRequest
	}

	if err := s.file.Upload(ctx, body, galleryDir, fileName); err != nil {
		s.logger.Error(ctx, "->file.Upload", zap.Error(err))
		return err
	}
	return nil
}

// UploadFromURL pulls a remote image straight into the gallery bucket.
func (s service) UploadFromURL(ctx context.Context, fileURL string) (string, error) {
	if _, ok := scope.FromContext(ctx); !ok {
		return "", structs.ErrAccessDenied
	}
	if utils.StrEmpty(fileURL) {
		return "", structs.ErrBadRequest
	}

	key, err := utils.UploadFromURL(ctx, s.config, fileURL, galleryDir)
	if err != nil {
		s.logger.Error(ctx, "->utils.UploadFromURL", zap.Error(err))
		return "", err
	}
	return key, nil
}

func (s service) Remove(ctx context.Context, fileName string) error {
	if _, ok := scope.FromContext(ctx); !ok {
		return structs.ErrAccessDenied
	}

	if err := s.file.Remove(ctx, galleryDir, fileName); err != nil {
		s.logger.Error(ctx, "->file.Remove", zap.Error(err))
		return err
	}
	return nil
}
