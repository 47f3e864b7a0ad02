package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
)

// storeInt mimics PostgreSQL coercing a text parameter to integer
func storeInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err == nil {
		return int(n), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, &apperr.StoreError{
			Code:    apperr.CodeNumericValueOutOfRange,
			Message: fmt.Sprintf(`value "%s" is out of range for type integer`, s),
		}
	}
	return 0, &apperr.StoreError{
		Code:    apperr.CodeInvalidTextRepresentation,
		Message: fmt.Sprintf(`invalid input syntax for type integer: "%s"`, s),
	}
}

// Verify interface compliance
var (
	_ repository.TopicRepository   = (*MockTopicRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
	_ repository.ExistenceChecker  = (*MockChecker)(nil)
)

// MockTopicRepository is a mock implementation of TopicRepository
type MockTopicRepository struct {
	Topics    []models.Topic
	ListError error
}

func NewMockTopicRepository() *MockTopicRepository {
	return &MockTopicRepository{}
}

func (m *MockTopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return append([]models.Topic{}, m.Topics...), nil
}

func (m *MockTopicRepository) has(slug string) bool {
	for _, t := range m.Topics {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users     map[string]*models.User
	ListOrder []string
	Error     error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

// Add stores a user, preserving insertion order for List
func (m *MockUserRepository) Add(u models.User) {
	m.Users[u.Username] = &u
	m.ListOrder = append(m.ListOrder, u.Username)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	users := make([]models.User, 0, len(m.ListOrder))
	for _, name := range m.ListOrder {
		users = append(users, *m.Users[name])
	}
	return users, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Users[username], nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	Articles    map[int]*models.Article
	Comments    *MockCommentRepository // supplies comment_count when set
	NextID      int
	Error       error
	LastQuery   repository.ArticleQuery
	CreateCalls int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[int]*models.Article), NextID: 1}
}

// Add stores an article under its ArticleID
func (m *MockArticleRepository) Add(a models.Article) {
	m.Articles[a.ArticleID] = &a
	if a.ArticleID >= m.NextID {
		m.NextID = a.ArticleID + 1
	}
}

func (m *MockArticleRepository) withCount(a *models.Article) *models.Article {
	out := *a
	if m.Comments != nil {
		out.CommentCount = m.Comments.countFor(a.ArticleID)
	}
	return &out
}

// List filters by topic and orders by q.SortBy, breaking ties by article id
func (m *MockArticleRepository) List(ctx context.Context, q repository.ArticleQuery) ([]models.Article, error) {
	m.LastQuery = q
	if m.Error != nil {
		return nil, m.Error
	}
	articles := make([]models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		if q.Topic != "" && a.Topic != q.Topic {
			continue
		}
		listed := m.withCount(a)
		listed.Body = ""
		articles = append(articles, *listed)
	}
	sort.SliceStable(articles, func(i, j int) bool { return articles[i].ArticleID < articles[j].ArticleID })
	sort.SliceStable(articles, func(i, j int) bool {
		c := compareArticles(&articles[i], &articles[j], q.SortBy)
		if q.Order == repository.Asc {
			return c < 0
		}
		return c > 0
	})
	return articles, nil
}

func compareArticles(a, b *models.Article, col repository.ArticleSortColumn) int {
	switch col {
	case repository.ArticleSortAuthor:
		return strings.Compare(a.Author, b.Author)
	case repository.ArticleSortTitle:
		return strings.Compare(a.Title, b.Title)
	case repository.ArticleSortArticleID:
		return a.ArticleID - b.ArticleID
	case repository.ArticleSortTopic:
		return strings.Compare(a.Topic, b.Topic)
	case repository.ArticleSortVotes:
		return a.Votes - b.Votes
	case repository.ArticleSortImgURL:
		return strings.Compare(a.ArticleImgURL, b.ArticleImgURL)
	case repository.ArticleSortCommentCount:
		return a.CommentCount - b.CommentCount
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	n, err := storeInt(id)
	if err != nil {
		return nil, err
	}
	a, ok := m.Articles[n]
	if !ok {
		return nil, nil
	}
	return m.withCount(a), nil
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.NewArticle) (int, error) {
	m.CreateCalls++
	if m.Error != nil {
		return 0, m.Error
	}
	id := m.NextID
	m.Add(models.Article{
		ArticleID:     id,
		Author:        article.Author,
		Title:         article.Title,
		Body:          article.Body,
		Topic:         article.Topic,
		CreatedAt:     time.Now(),
		ArticleImgURL: article.ArticleImgURL,
	})
	return id, nil
}

func (m *MockArticleRepository) UpdateVotes(ctx context.Context, id string, incVotes string) (*models.Article, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	inc, err := storeInt(incVotes)
	if err != nil {
		return nil, err
	}
	n, err := storeInt(id)
	if err != nil {
		return nil, err
	}
	a, ok := m.Articles[n]
	if !ok {
		return nil, nil
	}
	a.Votes = max(a.Votes+inc, 0)
	return m.withCount(a), nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[int]*models.Comment
	NextID      int
	Error       error
	LastQuery   repository.CommentQuery
	CreateCalls int
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[int]*models.Comment), NextID: 1}
}

// Add stores a comment under its CommentID
func (m *MockCommentRepository) Add(c models.Comment) {
	m.Comments[c.CommentID] = &c
	if c.CommentID >= m.NextID {
		m.NextID = c.CommentID + 1
	}
}

func (m *MockCommentRepository) countFor(articleID int) int {
	count := 0
	for _, c := range m.Comments {
		if c.ArticleID == articleID {
			count++
		}
	}
	return count
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID string, q repository.CommentQuery) ([]models.Comment, error) {
	m.LastQuery = q
	if m.Error != nil {
		return nil, m.Error
	}
	n, err := storeInt(articleID)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0)
	for _, c := range m.Comments {
		if c.ArticleID == n {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	n, err := storeInt(id)
	if err != nil {
		return nil, err
	}
	c, ok := m.Comments[n]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCommentRepository) Create(ctx context.Context, articleID string, comment *models.NewComment) (*models.Comment, error) {
	m.CreateCalls++
	if m.Error != nil {
		return nil, m.Error
	}
	n, err := storeInt(articleID)
	if err != nil {
		return nil, err
	}
	c := models.Comment{
		CommentID: m.NextID,
		Body:      comment.Body,
		Author:    comment.Username,
		ArticleID: n,
		CreatedAt: time.Now(),
	}
	m.Add(c)
	return &c, nil
}

func (m *MockCommentRepository) UpdateVotes(ctx context.Context, id string, incVotes string) (*models.Comment, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	inc, err := storeInt(incVotes)
	if err != nil {
		return nil, err
	}
	n, err := storeInt(id)
	if err != nil {
		return nil, err
	}
	c, ok := m.Comments[n]
	if !ok {
		return nil, nil
	}
	c.Votes = max(c.Votes+inc, 0)
	out := *c
	return &out, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	if m.Error != nil {
		return false, m.Error
	}
	n, err := storeInt(id)
	if err != nil {
		return false, err
	}
	if _, ok := m.Comments[n]; !ok {
		return false, nil
	}
	delete(m.Comments, n)
	return true, nil
}

// MockChecker is a mock implementation of ExistenceChecker backed by the
// other mock repositories.
type MockChecker struct {
	Topics   *MockTopicRepository
	Users    *MockUserRepository
	Articles *MockArticleRepository

	mu    sync.Mutex
	Calls []repository.Check
}

func (m *MockChecker) Exists(ctx context.Context, kind repository.EntityKind, key string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, repository.Check{Kind: kind, Key: key})
	m.mu.Unlock()

	switch kind {
	case repository.KindUser:
		if _, ok := m.Users.Users[key]; !ok {
			return apperr.NotFound(`User with username "%s" is not found`, key)
		}
	case repository.KindTopic:
		if !m.Topics.has(key) {
			return apperr.NotFound(`Topic with slug "%s" is not found`, key)
		}
	case repository.KindArticle:
		n, err := storeInt(key)
		if err != nil {
			return err
		}
		if _, ok := m.Articles.Articles[n]; !ok {
			return apperr.NotFound(`Article with ID "%s" is not found`, key)
		}
	}
	return nil
}

func (m *MockChecker) All(ctx context.Context, checks ...repository.Check) error {
	return repository.RunChecks(ctx, m, checks...)
}

// CheckCalls returns the checks seen so far
func (m *MockChecker) CheckCalls() []repository.Check {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repository.Check{}, m.Calls...)
}

// NewMockRepositories wires mock repositories that share one data set
func NewMockRepositories() (*repository.Repositories, *Fixture) {
	f := &Fixture{
		Topics:   NewMockTopicRepository(),
		Users:    NewMockUserRepository(),
		Articles: NewMockArticleRepository(),
		Comments: NewMockCommentRepository(),
	}
	f.Articles.Comments = f.Comments
	f.Checker = &MockChecker{Topics: f.Topics, Users: f.Users, Articles: f.Articles}

	return &repository.Repositories{
		Topic:   f.Topics,
		User:    f.Users,
		Article: f.Articles,
		Comment: f.Comments,
		Checker: f.Checker,
	}, f
}

// Fixture exposes the concrete mocks behind NewMockRepositories
type Fixture struct {
	Topics   *MockTopicRepository
	Users    *MockUserRepository
	Articles *MockArticleRepository
	Comments *MockCommentRepository
	Checker  *MockChecker
}

// Seed loads a small data set: article 1 by butter_bridge in mitch with
// 100 votes and 11 comments, article 2 in cats with none.
func (f *Fixture) Seed() {
	f.Topics.Topics = []models.Topic{
		{Slug: "mitch", Description: "The man, the Mitch, the legend"},
		{Slug: "cats", Description: "Not dogs"},
		{Slug: "paper", Description: "what books are made of"},
	}
	f.Users.Add(models.User{Username: "butter_bridge", Name: "jonny", AvatarURL: "https://www.healthytherapies.com/wp-content/uploads/2016/06/Lime3.jpg"})
	f.Users.Add(models.User{Username: "icellusedkars", Name: "sam", AvatarURL: "https://avatars2.githubusercontent.com/u/24604688?s=460&v=4"})
	f.Users.Add(models.User{Username: "lurker", Name: "do_nothing"})

	base := time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC)
	f.Articles.Add(models.Article{
		ArticleID:     1,
		Author:        "butter_bridge",
		Title:         "Living in the shadow of a great man",
		Body:          "I find this existence challenging",
		Topic:         "mitch",
		CreatedAt:     base,
		Votes:         100,
		ArticleImgURL: models.DefaultArticleImgURL,
	})
	f.Articles.Add(models.Article{
		ArticleID:     2,
		Author:        "icellusedkars",
		Title:         "Sony Vaio; or, The Laptop",
		Body:          "Call me Mitchell.",
		Topic:         "cats",
		CreatedAt:     base.Add(-24 * time.Hour),
		ArticleImgURL: models.DefaultArticleImgURL,
	})
	for i := 1; i <= 11; i++ {
		f.Comments.Add(models.Comment{
			CommentID: i,
			Body:      fmt.Sprintf("comment %d", i),
			Author:    "icellusedkars",
			ArticleID: 1,
			Votes:     i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}
