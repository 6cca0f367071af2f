package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vidpass/vidpass/internal/filestore"
	"github.com/vidpass/vidpass/internal/model"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
	"github.com/vidpass/vidpass/internal/pkg/timeutil"
)

type VideoStore interface {
	Create(ctx context.Context, video *model.Video) error
	List(ctx context.Context) ([]*model.Video, error)
}

type VideoService struct {
	store   VideoStore
	files   filestore.Store
	baseURL string
}

func NewVideoService(store VideoStore, files filestore.Store, baseURL string) *VideoService {
	return &VideoService{store: store, files: files, baseURL: baseURL}
}

func (s *VideoService) Upload(ctx context.Context, title, description, filename string, r filestore.ReadSeekCloser, size int64) (*model.Video, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, appErr.ErrInvalid
	}
	key := newID()
	if ext := filepath.Ext(filename); ext != "" {
		key += ext
	}
	if err := s.files.Save(ctx, key, r, size); err != nil {
		return nil, err
	}
	video := &model.Video{
		ID:          newID(),
		Title:       title,
		Description: description,
		VideoURL:    s.files.URL(key, s.baseURL),
		Ctime:       timeutil.NowUnix(),
	}
	if err := s.store.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) List(ctx context.Context) ([]*model.Video, error) {
	videos, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	return videos, nil
}
