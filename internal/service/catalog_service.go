package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// topicService is the concrete implementation of TopicService
type topicService struct {
	repo repository.TopicRepository
	log  zerolog.Logger
}

func newTopicService(repo repository.TopicRepository, log zerolog.Logger) *topicService {
	return &topicService{repo: repo, log: log.With().Str("service", "topic").Logger()}
}

func (s *topicService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.repo.List(ctx)
}

// userService is the concrete implementation of UserService
type userService struct {
	repo repository.UserRepository
	log  zerolog.Logger
}

func newUserService(repo repository.UserRepository, log zerolog.Logger) *userService {
	return &userService{repo: repo, log: log.With().Str("service", "user").Logger()}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, username string) (*models.User, error) {
	if err := validation.RequireUsername(username); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(`User with username "%s" is not found`, username)
	}
	return user, nil
}

// apiService reads the endpoint document from disk on every call, so edits
// to the file show up without a restart.
type apiService struct {
	path string
	log  zerolog.Logger
}

func newAPIService(path string, log zerolog.Logger) *apiService {
	return &apiService{path: path, log: log.With().Str("service", "api").Logger()}
}

var errEndpointsNotJSON = errors.New("endpoints document is not valid JSON")

func (s *apiService) Endpoints(_ context.Context) (json.RawMessage, error) {
	doc, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperr.Internal(0, "Failed to load endpoints", err)
	}
	if !json.Valid(doc) {
		return nil, apperr.Internal(0, "Failed to load endpoints", errEndpointsNotJSON)
	}
	return doc, nil
}
