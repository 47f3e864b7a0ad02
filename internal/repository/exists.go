package repository

import (
	"context"
	"fmt"

	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/database"
	"golang.org/x/sync/errgroup"
)

// EntityKind names an entity that other rows may reference
type EntityKind int

const (
	KindArticle EntityKind = iota
	KindUser
	KindTopic
)

type entityLookup struct {
	table string
	key   column
	label string // e.g. `Article with ID`
}

var entityLookups = map[EntityKind]entityLookup{
	KindArticle: {table: "articles", key: colArticleID, label: "Article with ID"},
	KindUser:    {table: "users", key: colUsername, label: "User with username"},
	KindTopic:   {table: "topics", key: colSlug, label: "Topic with slug"},
}

// Check is one existence check to run
type Check struct {
	Kind EntityKind
	Key  string
}

// ExistenceChecker confirms referenced rows exist before a dependent write
type ExistenceChecker interface {
	Exists(ctx context.Context, kind EntityKind, key string) error
	All(ctx context.Context, checks ...Check) error
}

// checker is the concrete implementation of ExistenceChecker
type checker struct {
	db *database.DB
}

// NewChecker creates a new existence checker
func NewChecker(db *database.DB) ExistenceChecker {
	return &checker{db: db}
}

// Exists returns nil when a row of kind is keyed by key, otherwise a 404
func (c *checker) Exists(ctx context.Context, kind EntityKind, key string) error {
	lookup, ok := entityLookups[kind]
	if !ok {
		return apperr.Internal(0, "Internal Server Error", fmt.Errorf("unknown entity kind %d", kind))
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", lookup.table, lookup.key)

	var exists bool
	if err := c.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return apperr.Store(err)
	}
	if !exists {
		return apperr.NotFound(`%s "%s" is not found`, lookup.label, key)
	}
	return nil
}

// All runs every check concurrently and waits for all of them. A failing
// check does not cancel its siblings; the first failure in argument order is
// returned.
func (c *checker) All(ctx context.Context, checks ...Check) error {
	return RunChecks(ctx, c, checks...)
}

// RunChecks fans checks out over ec.Exists, see ExistenceChecker.All
func RunChecks(ctx context.Context, ec ExistenceChecker, checks ...Check) error {
	errs := make([]error, len(checks))

	var g errgroup.Group
	for i, chk := range checks {
		g.Go(func() error {
			errs[i] = ec.Exists(ctx, chk.Kind, chk.Key)
			return errs[i]
		})
	}
	_ = g.Wait() // completion order is irrelevant, errs is inspected below

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
