package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/vidpass/vidpass/internal/model"
	"github.com/vidpass/vidpass/internal/pkg/dbutil"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
)

type VideoRepo struct {
	db *sql.DB
}

func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) Create(ctx context.Context, video *model.Video) error {
	data := map[string]interface{}{
		"id":          video.ID,
		"title":       video.Title,
		"description": video.Description,
		"video_url":   video.VideoURL,
		"ctime":       video.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("videos", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *VideoRepo) List(ctx context.Context) ([]*model.Video, error) {
	where := map[string]interface{}{"_orderby": "ctime desc"}
	sqlStr, args, err := builder.BuildSelect("videos", where, []string{"id", "title", "description", "video_url", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	videos := make([]*model.Video, 0)
	for rows.Next() {
		var video model.Video
		if err := rows.Scan(&video.ID, &video.Title, &video.Description, &video.VideoURL, &video.Ctime); err != nil {
			return nil, err
		}
		videos = append(videos, &video)
	}
	return videos, rows.Err()
}
