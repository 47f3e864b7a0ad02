package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/api"
	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/mocks"
	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/service"
	"github.com/rs/zerolog"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: "9090", GinMode: gin.TestMode},
		API:    config.APIConfig{EndpointsPath: filepath.Join(t.TempDir(), "endpoints.json")},
		OTEL:   config.OTELConfig{ServiceName: "nc-news-api-test"},
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.Fixture, *config.Config) {
	t.Helper()
	repos, fx := mocks.NewMockRepositories()
	fx.Seed()

	cfg := testConfig(t)
	services := service.NewServices(repos, cfg, zerolog.Nop())
	return api.NewRouter(services, fakeHealth{}, cfg, zerolog.Nop()), fx, cfg
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("Invalid JSON body %q: %v", w.Body.String(), err)
	}
}

type msgBody struct {
	Msg   string `json:"msg"`
	Error string `json:"error"`
}

func expectMsg(t *testing.T, w *httptest.ResponseRecorder, status int, msg string) msgBody {
	t.Helper()
	if w.Code != status {
		t.Fatalf("Expected status %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	var body msgBody
	decode(t, w, &body)
	if body.Msg != msg {
		t.Errorf("Expected msg %q, got %q", msg, body.Msg)
	}
	return body
}

func TestRootHealthcheck(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	expectMsg(t, do(router, "GET", "/", ""), http.StatusOK, "Healthcheck is passed")
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := do(router, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var response map[string]any
	decode(t, w, &response)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "nc-news-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestHealthEndpoint_StoreDown(t *testing.T) {
	repos, _ := mocks.NewMockRepositories()
	cfg := testConfig(t)
	router := api.NewRouter(service.NewServices(repos, cfg, zerolog.Nop()), fakeHealth{err: errors.New("dial tcp: refused")}, cfg, zerolog.Nop())

	w := do(router, "GET", "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	do(router, "GET", "/api/topics", "")

	w := do(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `http_requests_total{method="GET",path="/api/topics",status="200"}`) {
		t.Errorf("Expected request counter for /api/topics in metrics output")
	}
}

func TestRequestIDHeader(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := do(router, "GET", "/api/topics", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated X-Request-ID")
	}

	req := httptest.NewRequest("GET", "/api/topics", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected propagated request id, got %q", got)
	}
}

func TestGetEndpoints(t *testing.T) {
	router, _, cfg := setupTestRouter(t)

	expectMsg(t, do(router, "GET", "/api", ""), http.StatusInternalServerError, "Failed to load endpoints")

	doc := `{"GET /api": {"description": "serves up a json representation of all the available endpoints of the api"}}`
	if err := os.WriteFile(cfg.API.EndpointsPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	w := do(router, "GET", "/api", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Endpoints map[string]any `json:"endpoints"`
	}
	decode(t, w, &response)
	if _, ok := response.Endpoints["GET /api"]; !ok {
		t.Errorf("Expected the document to be served verbatim, got %v", response.Endpoints)
	}
}

func TestListTopicsAndUsers(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	var topics struct {
		Topics []models.Topic `json:"topics"`
	}
	decode(t, do(router, "GET", "/api/topics", ""), &topics)
	if len(topics.Topics) != 3 || topics.Topics[0].Slug != "mitch" {
		t.Errorf("Unexpected topics: %+v", topics.Topics)
	}

	var users struct {
		Users []models.User `json:"users"`
	}
	decode(t, do(router, "GET", "/api/users", ""), &users)
	if len(users.Users) != 3 {
		t.Errorf("Expected 3 users, got %d", len(users.Users))
	}

	var user struct {
		User models.User `json:"user"`
	}
	decode(t, do(router, "GET", "/api/users/butter_bridge", ""), &user)
	if user.User.Name != "jonny" {
		t.Errorf("Expected jonny, got %q", user.User.Name)
	}

	expectMsg(t, do(router, "GET", "/api/users/nobody", ""), http.StatusNotFound, `User with username "nobody" is not found`)
}

func TestGetArticle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := do(router, "GET", "/api/articles/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Article models.Article `json:"article"`
	}
	decode(t, w, &response)
	if response.Article.CommentCount != 11 {
		t.Errorf("Expected comment_count 11, got %d", response.Article.CommentCount)
	}
	if response.Article.Body == "" {
		t.Error("Expected article body")
	}
}

func TestGetArticle_Errors(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	body := expectMsg(t, do(router, "GET", "/api/articles/not_a_number", ""), http.StatusBadRequest, "Bad request")
	if body.Error != `invalid input syntax for type integer: "not_a_number"` {
		t.Errorf("Unexpected store message: %q", body.Error)
	}

	body = expectMsg(t, do(router, "GET", "/api/articles/99999999999", ""), http.StatusBadRequest, "Bad request")
	if !strings.Contains(body.Error, "out of range") {
		t.Errorf("Expected out of range message, got %q", body.Error)
	}

	expectMsg(t, do(router, "GET", "/api/articles/999", ""), http.StatusNotFound, `Article with ID "999" is not found`)
}

func TestListArticles(t *testing.T) {
	router, fx, _ := setupTestRouter(t)

	w := do(router, "GET", "/api/articles?topic=cats&sort_by=votes&order=ASC", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Articles []map[string]any `json:"articles"`
	}
	decode(t, w, &response)
	if len(response.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(response.Articles))
	}
	if _, ok := response.Articles[0]["body"]; ok {
		t.Error("Listing must not include the article body")
	}
	if fx.Articles.LastQuery.Topic != "cats" {
		t.Errorf("Expected topic filter to reach the store, got %+v", fx.Articles.LastQuery)
	}

	expectMsg(t, do(router, "GET", "/api/articles?sort_by=password", ""), http.StatusBadRequest, "Invalid sort_by column: password")
	expectMsg(t, do(router, "GET", "/api/articles?order=up", ""), http.StatusBadRequest, "Invalid order: up. Must be 'asc' or 'desc'")
}

func TestListArticles_SortedByVotes(t *testing.T) {
	router, fx, _ := setupTestRouter(t)
	fx.Articles.Add(models.Article{
		ArticleID: 3,
		Author:    "lurker",
		Title:     "Student SUES Mitch!",
		Body:      "We all love Mitch",
		Topic:     "mitch",
		Votes:     50,
	})

	tests := []struct {
		query string
		want  []int
	}{
		{"/api/articles?sort_by=votes", []int{100, 50, 0}},
		{"/api/articles?sort_by=votes&order=asc", []int{0, 50, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(router, "GET", tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var response struct {
				Articles []models.Article `json:"articles"`
			}
			decode(t, w, &response)

			votes := make([]int, len(response.Articles))
			for i, a := range response.Articles {
				votes[i] = a.Votes
			}
			if len(votes) != len(tt.want) {
				t.Fatalf("Expected %d articles, got %v", len(tt.want), votes)
			}
			for i := range votes {
				if votes[i] != tt.want[i] {
					t.Errorf("Expected votes %v, got %v", tt.want, votes)
					break
				}
			}
		})
	}
}

func TestGetArticle_RepeatableRead(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	first := do(router, "GET", "/api/articles/1", "")
	second := do(router, "GET", "/api/articles/1", "")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("Expected status 200 twice, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("Expected identical bodies, got %s and %s", first.Body.String(), second.Body.String())
	}
}

func TestCreateArticle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := do(router, "POST", "/api/articles", `{"author":"butter_bridge","title":"New","body":"Text","topic":"cats"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d (%s)", w.Code, w.Body.String())
	}
	var response struct {
		Article models.Article `json:"article"`
	}
	decode(t, w, &response)
	if response.Article.ArticleID != 3 || response.Article.CommentCount != 0 {
		t.Errorf("Unexpected article: %+v", response.Article)
	}
	if response.Article.ArticleImgURL != models.DefaultArticleImgURL {
		t.Errorf("Expected default image, got %q", response.Article.ArticleImgURL)
	}

	expectMsg(t, do(router, "POST", "/api/articles", `{"author":"butter_bridge","title":"New","body":"Text","topic":"dogs"}`),
		http.StatusNotFound, `Topic with slug "dogs" is not found`)
	expectMsg(t, do(router, "POST", "/api/articles", `{"author":"butter_bridge","body":"Text","topic":"cats"}`),
		http.StatusBadRequest, "Title is required")
}

func TestVoteOnArticle(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	var response struct {
		Article models.Article `json:"article"`
	}
	w := do(router, "PATCH", "/api/articles/1", `{"inc_votes": 5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	decode(t, w, &response)
	if response.Article.Votes != 105 {
		t.Errorf("Expected 105 votes, got %d", response.Article.Votes)
	}

	decode(t, do(router, "PATCH", "/api/articles/1", `{"inc_votes": 1e1}`), &response)
	if response.Article.Votes != 115 {
		t.Errorf("Expected exponent increment to apply, got %d votes", response.Article.Votes)
	}

	decode(t, do(router, "PATCH", "/api/articles/1", `{"inc_votes": -500}`), &response)
	if response.Article.Votes != 0 {
		t.Errorf("Expected votes floored at 0, got %d", response.Article.Votes)
	}

	expectMsg(t, do(router, "PATCH", "/api/articles/1", `{}`), http.StatusBadRequest, "Number of increment votes is required")
	expectMsg(t, do(router, "PATCH", "/api/articles/1", ""), http.StatusBadRequest, "Number of increment votes is required")
	expectMsg(t, do(router, "PATCH", "/api/articles/1", `{"inc_votes": 0}`), http.StatusBadRequest, "Number of increment votes must be a non-zero number")
	expectMsg(t, do(router, "PATCH", "/api/articles/1", `{"inc_votes": "cat"}`), http.StatusBadRequest, "Bad request")
	expectMsg(t, do(router, "PATCH", "/api/articles/1", `{"inc_votes":`), http.StatusBadRequest, "Bad request")
	expectMsg(t, do(router, "PATCH", "/api/articles/999", `{"inc_votes": 1}`), http.StatusNotFound, `Article with ID "999" is not found`)
}

func TestArticleComments(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	var list struct {
		Comments []models.Comment `json:"comments"`
	}
	decode(t, do(router, "GET", "/api/articles/1/comments", ""), &list)
	if len(list.Comments) != 11 {
		t.Fatalf("Expected 11 comments, got %d", len(list.Comments))
	}
	for i := 1; i < len(list.Comments); i++ {
		if list.Comments[i].CreatedAt.After(list.Comments[i-1].CreatedAt) {
			t.Fatal("Expected newest comments first")
		}
	}

	w := do(router, "GET", "/api/articles/2/comments", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"comments":[]}` {
		t.Errorf("Expected empty list, got %d %s", w.Code, w.Body.String())
	}

	expectMsg(t, do(router, "GET", "/api/articles/999/comments", ""), http.StatusNotFound, `Article with ID "999" is not found`)
	expectMsg(t, do(router, "GET", "/api/articles/abc/comments", ""), http.StatusBadRequest, "Bad request")
}

func TestAddComment(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := do(router, "POST", "/api/articles/1/comments", `{"username":"butter_bridge","body":"hi"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d (%s)", w.Code, w.Body.String())
	}
	var response struct {
		Comment models.Comment `json:"comment"`
	}
	decode(t, w, &response)
	if response.Comment.Author != "butter_bridge" || response.Comment.ArticleID != 1 || response.Comment.Body != "hi" {
		t.Errorf("Unexpected comment: %+v", response.Comment)
	}
	if response.Comment.CommentID == 0 {
		t.Error("Expected a server-assigned comment_id")
	}

	var article struct {
		Article models.Article `json:"article"`
	}
	decode(t, do(router, "GET", "/api/articles/1", ""), &article)
	if article.Article.CommentCount != 12 {
		t.Errorf("Expected comment_count to grow to 12, got %d", article.Article.CommentCount)
	}

	expectMsg(t, do(router, "POST", "/api/articles/1/comments", `{"username":"ghost","body":"hi"}`),
		http.StatusNotFound, `User with username "ghost" is not found`)
	expectMsg(t, do(router, "POST", "/api/articles/999/comments", `{"username":"butter_bridge","body":"hi"}`),
		http.StatusNotFound, `Article with ID "999" is not found`)
	expectMsg(t, do(router, "POST", "/api/articles/1/comments", `{"username":"butter_bridge","body":"  "}`),
		http.StatusBadRequest, "Body is required")
}

func TestCommentEndpoints(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	var response struct {
		Comment models.Comment `json:"comment"`
	}
	decode(t, do(router, "GET", "/api/comments/2", ""), &response)
	if response.Comment.CommentID != 2 {
		t.Errorf("Expected comment 2, got %+v", response.Comment)
	}

	decode(t, do(router, "PATCH", "/api/comments/2", `{"inc_votes": 10}`), &response)
	if response.Comment.Votes != 12 {
		t.Errorf("Expected 12 votes, got %d", response.Comment.Votes)
	}

	w := do(router, "DELETE", "/api/comments/2", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
	expectMsg(t, do(router, "DELETE", "/api/comments/2", ""), http.StatusNotFound, `Comment with ID "2" is not found`)
	expectMsg(t, do(router, "DELETE", "/api/comments/999999", ""), http.StatusNotFound, `Comment with ID "999999" is not found`)
	expectMsg(t, do(router, "DELETE", "/api/comments/nope", ""), http.StatusBadRequest, "Bad request")
}

func TestUnknownRoutesAndMethods(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	tests := []struct {
		method, path string
		status       int
		msg          string
		allow        string
	}{
		{"PUT", "/api/articles/1", http.StatusMethodNotAllowed, "Method not allowed", "GET, PATCH"},
		{"PUT", "/api/articles/1/", http.StatusMethodNotAllowed, "Method not allowed", "GET, PATCH"},
		{"DELETE", "/api/articles", http.StatusMethodNotAllowed, "Method not allowed", "GET, POST"},
		{"POST", "/api/topics", http.StatusMethodNotAllowed, "Method not allowed", "GET"},
		{"DELETE", "/api/comments/1/likes", http.StatusNotFound, "Endpoint not found", ""},
		{"GET", "/api/not-a-route", http.StatusNotFound, "Endpoint not found", ""},
		{"GET", "/totally/unknown", http.StatusNotFound, "Endpoint not found", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(router, tt.method, tt.path, "")
			expectMsg(t, w, tt.status, tt.msg)
			if got := w.Header().Get("Allow"); got != tt.allow {
				t.Errorf("Expected Allow %q, got %q", tt.allow, got)
			}
		})
	}
}

func TestTrailingSlashServedInPlace(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := do(router, "GET", "/api/articles/1/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (%s)", w.Code, w.Body.String())
	}
	var response struct {
		Article models.Article `json:"article"`
	}
	decode(t, w, &response)
	if response.Article.ArticleID != 1 {
		t.Errorf("Expected article 1, got %d", response.Article.ArticleID)
	}

	w = do(router, "PATCH", "/api/comments/2/", `{"inc_votes": 1}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestErrorFallbacks(t *testing.T) {
	repos, _ := mocks.NewMockRepositories()
	cfg := testConfig(t)
	services := service.NewServices(repos, cfg, zerolog.Nop())
	articles := mocks.NewMockArticleService()
	services.Article = articles
	router := api.NewRouter(services, fakeHealth{}, cfg, zerolog.Nop())

	articles.GetFunc = func(ctx context.Context, id string) (*models.Article, error) {
		return nil, &apperr.StoreError{Code: "42P01", Message: `relation "articles" does not exist`}
	}
	expectMsg(t, do(router, "GET", "/api/articles/1", ""), http.StatusInternalServerError, "Internal Server Error")

	articles.GetFunc = func(ctx context.Context, id string) (*models.Article, error) {
		return nil, &apperr.StoreError{Code: apperr.CodeForeignKeyViolation, Message: "insert or update violates foreign key constraint\nDETAIL: Key is not present"}
	}
	body := expectMsg(t, do(router, "GET", "/api/articles/1", ""), http.StatusNotFound, "Not found")
	if body.Error != "insert or update violates foreign key constraint" {
		t.Errorf("Expected first line only, got %q", body.Error)
	}

	articles.GetFunc = func(ctx context.Context, id string) (*models.Article, error) {
		return nil, apperr.Internal(http.StatusUnprocessableEntity, "Invalid number of insert arguments", nil)
	}
	expectMsg(t, do(router, "GET", "/api/articles/1", ""), http.StatusUnprocessableEntity, "Invalid number of insert arguments")

	articles.GetFunc = func(ctx context.Context, id string) (*models.Article, error) {
		panic("boom")
	}
	expectMsg(t, do(router, "GET", "/api/articles/1", ""), http.StatusInternalServerError, "Internal Server Error")
}
