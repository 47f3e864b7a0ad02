package repository

import (
	"context"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

// topicRepo is the concrete implementation of TopicRepository
type topicRepo struct {
	db *database.DB
}

// NewTopicRepo creates a new topic repository
func NewTopicRepo(db *database.DB) TopicRepository {
	return &topicRepo{db: db}
}

// List returns every topic in store order
func (r *topicRepo) List(ctx context.Context) ([]models.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slug, description FROM topics`)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.Slug, &t.Description); err != nil {
			return nil, apperr.Store(err)
		}
		topics = append(topics, t)
	}
	return topics, apperr.Store(rows.Err())
}
