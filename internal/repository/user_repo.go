package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// List returns every user
func (r *userRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, name, avatar_url FROM users`)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		var avatar sql.NullString
		if err := rows.Scan(&u.Username, &u.Name, &avatar); err != nil {
			return nil, apperr.Store(err)
		}
		u.AvatarURL = avatar.String
		users = append(users, u)
	}
	return users, apperr.Store(rows.Err())
}

// GetByUsername retrieves a user by username
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query, args := newSelect(`SELECT users.username, users.name, users.avatar_url FROM users`).
		whereEq(colUsername, username).
		build()

	var u models.User
	var avatar sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.Username, &u.Name, &avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store(err)
	}
	u.AvatarURL = avatar.String
	return &u, nil
}
