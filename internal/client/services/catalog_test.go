package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
)

func TestMovies_QueryAndPagination(t *testing.T) {
	f := newFakeAPI(map[string]reply{
		"GET " + PathMovies: {body: `{"code":200,"data":[{"_id":"m1","movieName":"Dune","runtime":155},{"_id":"m2","movieName":"Heat","runtime":"170"}],"pagination":{"total":42,"page":2,"limit":2}}`},
	})
	svc := NewCatalogService(f)

	page, err := svc.Movies(context.Background(), 2, 2, " dune ")
	require.NoError(t, err)

	require.Len(t, page.Movies, 2)
	assert.Equal(t, Text("155"), page.Movies[0].Runtime)
	assert.Equal(t, Text("170"), page.Movies[1].Runtime)
	assert.Equal(t, Pagination{Total: 42, Page: 2, Limit: 2}, page.Pagination)
	assert.Equal(t, url.Values{"page": {"2"}, "limit": {"2"}, "search": {"dune"}}, f.calls[0].Query)
	assert.False(t, f.calls[0].SkipAuth)
}

func TestMovies_NoPaginationBlock(t *testing.T) {
	f := newFakeAPI(map[string]reply{"GET " + PathMovies: {body: `{"code":200,"data":[]}`}})

	page, err := NewCatalogService(f).Movies(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Movies)
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, page.Pagination)
	_, hasSearch := f.calls[0].Query["search"]
	assert.False(t, hasSearch)
}

func TestMovie_DetailsPath(t *testing.T) {
	f := newFakeAPI(map[string]reply{
		"GET /movies/m1/complete": {body: `{"code":200,"data":{"_id":"m1","movieName":"Dune","budget":null}}`},
	})
	svc := NewCatalogService(f)

	m, err := svc.Movie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", m.MovieName)
	assert.Equal(t, Text(""), m.Budget)

	_, err = svc.Movie(context.Background(), " ")
	require.ErrorIs(t, err, apierr.ErrApplication)
}

func TestContests_KeepsRawRecord(t *testing.T) {
	f := newFakeAPI(map[string]reply{
		"GET " + PathContests: {body: `{"code":200,"data":[{"_id":"c1","name":"Opening Week","prize":100}]}`},
	})

	cs, err := NewCatalogService(f).Contests(context.Background())
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "Opening Week", cs[0].Name)
	assert.JSONEq(t, `{"_id":"c1","name":"Opening Week","prize":100}`, string(cs[0].Raw))
}

func TestContests_MissingData(t *testing.T) {
	f := newFakeAPI(map[string]reply{"GET " + PathContests: {body: `{"code":200}`}})

	_, err := NewCatalogService(f).Contests(context.Background())
	assert.Equal(t, "Response does not contain data", apierr.Message(err, ""))
}
