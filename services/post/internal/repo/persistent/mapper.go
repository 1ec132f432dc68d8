package persistent

import (
	"sahara/services/post/internal/entity"
	"sahara/services/post/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		DisplayName: m.DisplayName,
		ImageURL:    m.ImageURL,
		ImagePath:   m.ImagePath,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Description: m.Description,
		IsAnonymous: m.IsAnonymous,
		Status:      entity.PostStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		DisplayName: e.DisplayName,
		ImageURL:    e.ImageURL,
		ImagePath:   e.ImagePath,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Description: e.Description,
		IsAnonymous: e.IsAnonymous,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
