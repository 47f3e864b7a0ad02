package mocks

import (
	"context"
	"encoding/json"

	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	ListFunc   func(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	GetFunc    func(ctx context.Context, id string) (*models.Article, error)
	CreateFunc func(ctx context.Context, req *models.NewArticle) (*models.Article, error)
	VoteFunc   func(ctx context.Context, id string, incVotes json.RawMessage) (*models.Article, error)
	GetCalls   []string
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []models.Article{}, nil
}

func (m *MockArticleService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	m.GetCalls = append(m.GetCalls, id)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &models.Article{ArticleID: 1}, nil
}

func (m *MockArticleService) CreateArticle(ctx context.Context, req *models.NewArticle) (*models.Article, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Article{ArticleID: 1, Author: req.Author, Title: req.Title, Body: req.Body, Topic: req.Topic}, nil
}

func (m *MockArticleService) VoteOnArticle(ctx context.Context, id string, incVotes json.RawMessage) (*models.Article, error) {
	if m.VoteFunc != nil {
		return m.VoteFunc(ctx, id, incVotes)
	}
	return &models.Article{ArticleID: 1}, nil
}

// MockAPIService is a mock implementation of APIService
type MockAPIService struct {
	Doc json.RawMessage
	Err error
}

// Verify interface compliance
var _ service.APIService = (*MockAPIService)(nil)

func (m *MockAPIService) Endpoints(ctx context.Context) (json.RawMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Doc, nil
}
