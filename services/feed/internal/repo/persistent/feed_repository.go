package persistent

import (
	"database/sql"

	"sahara/services/feed/internal/entity"

	"gorm.io/gorm"
)

type FeedRepository interface {
	ListRecent(limit, offset int) ([]entity.FeedItem, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

const anonymousDisplayName = "Anonymous"

func (r *feedRepository) ListRecent(limit, offset int) ([]entity.FeedItem, error) {
	rows, err := r.db.Table("posts").
		Select("id, display_name, image_url, latitude, longitude, description, is_anonymous, created_at").
		Where("deleted_at IS NULL AND status = ?", "active").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanItems(rows), nil
}

func (r *feedRepository) scanItems(rows *sql.Rows) []entity.FeedItem {
	items := make([]entity.FeedItem, 0)
	for rows.Next() {
		var item entity.FeedItem
		var displayName sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&item.ID, &displayName, &item.ImageURL, &item.Latitude,
			&item.Longitude, &item.Description, &item.IsAnonymous, &createdAt); err != nil {
			continue
		}

		item.DisplayName = displayName.String
		item.CreatedAt = createdAt.Time
		if item.IsAnonymous {
			item.DisplayName = anonymousDisplayName
		}
		items = append(items, item)
	}

	return items
}
