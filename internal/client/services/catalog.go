package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/cinepass/internal/client/api"
	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/client/envelope"
)

type CatalogService interface {
	Movies(ctx context.Context, page, limit int, search string) (*MoviePage, error)
	Movie(ctx context.Context, id string) (*Movie, error)
	Contests(ctx context.Context) ([]Contest, error)
}

type Catalog struct {
	api API
}

var _ CatalogService = (*Catalog)(nil)

func NewCatalogService(client API) *Catalog {
	return &Catalog{api: client}
}

// Movies returns one page of the movie list. The pagination block sits next
// to data in the envelope.
func (c *Catalog) Movies(ctx context.Context, page, limit int, search string) (*MoviePage, error) {
	q := url.Values{}
	q.Set("page", itoa(page))
	q.Set("limit", itoa(limit))
	if search = strings.TrimSpace(search); search != "" {
		q.Set("search", search)
	}

	env, err := c.api.Get(ctx, PathMovies, api.WithQuery(q))
	if err != nil {
		return nil, err
	}
	movies, err := envelope.Unwrap[[]Movie](env)
	if err != nil {
		return nil, err
	}

	out := &MoviePage{Movies: movies, Pagination: Pagination{Page: page, Limit: limit, Total: len(movies)}}
	var extra struct {
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(env.Raw, &extra); err == nil && extra.Pagination != nil {
		out.Pagination = *extra.Pagination
	}
	return out, nil
}

func (c *Catalog) Movie(ctx context.Context, id string) (*Movie, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.Application("Movie id is required", nil)
	}

	env, err := c.api.Get(ctx, PathMovieDetails+"/"+url.PathEscape(id)+"/complete")
	if err != nil {
		return nil, err
	}
	m, err := envelope.Unwrap[Movie](env)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Catalog) Contests(ctx context.Context) ([]Contest, error) {
	env, err := c.api.Get(ctx, PathContests)
	if err != nil {
		return nil, err
	}
	return envelope.Unwrap[[]Contest](env)
}
