package service

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/devserver/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// CatalogService serves a fixed, read-only catalogue.
type CatalogService struct {
	movies   []models.Movie
	contests []models.Contest
}

func NewCatalogService(movies []models.Movie, contests []models.Contest) *CatalogService {
	return &CatalogService{movies: movies, contests: contests}
}

// NewSeededCatalogService returns a catalogue with a handful of titles and
// contests ending relative to now.
func NewSeededCatalogService(now time.Time) *CatalogService {
	return NewCatalogService(seedMovies, seedContests(now))
}

// Movies filters by a case-insensitive substring of the title and returns
// one page. page starts at 1; out-of-range values are clamped.
func (s *CatalogService) Movies(page, limit int, search string) ([]models.Movie, Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	search = strings.ToLower(strings.TrimSpace(search))
	matched := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if search == "" || strings.Contains(strings.ToLower(m.MovieName), search) {
			matched = append(matched, m)
		}
	}

	p := Pagination{Total: len(matched), Page: page, Limit: limit}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Movie{}, p
	}
	end := min(start+limit, len(matched))
	return matched[start:end], p
}

func (s *CatalogService) Movie(id string) (*models.Movie, error) {
	for i := range s.movies {
		if s.movies[i].ID == id {
			m := s.movies[i]
			return &m, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *CatalogService) Contests() []models.Contest {
	out := make([]models.Contest, len(s.contests))
	copy(out, s.contests)
	return out
}

var seedMovies = []models.Movie{
	{ID: "m-001", MovieName: "The Last Monsoon", ReleaseDate: "2025-06-20", Runtime: 142, Language: "Hindi", Certificate: "UA", Type: "Drama", Distributor: "Coastline Pictures", Budget: "85 crore", MovieSynopsis: "A fisherman's family waits out the storm of the decade.", MovieStatus: "released"},
	{ID: "m-002", MovieName: "Signal Lost", ReleaseDate: "2025-09-05", Runtime: 118, Language: "English", Certificate: "U", Type: "Thriller", Distributor: "Northgate", Budget: "40 crore", MovieSynopsis: "A radio operator hears a call that should not exist.", MovieStatus: "released"},
	{ID: "m-003", MovieName: "Kites Over Jaipur", ReleaseDate: "2025-12-12", Runtime: 131, Language: "Hindi", Certificate: "U", Type: "Family", Distributor: "Pink City Films", Budget: "22 crore", MovieSynopsis: "Three siblings enter the city's kite festival.", MovieStatus: "released"},
	{ID: "m-004", MovieName: "Iron Harbour", ReleaseDate: "2026-02-27", Runtime: 156, Language: "Tamil", Certificate: "A", Type: "Action", Distributor: "Southwind", Budget: "120 crore", MovieSynopsis: "Dock workers stand against a smuggling ring.", MovieStatus: "released"},
	{ID: "m-005", MovieName: "Second Innings", ReleaseDate: "2026-05-01", Runtime: 124, Language: "Marathi", Certificate: "U", Type: "Sports", Distributor: "Wicket Studios", Budget: "18 crore", MovieSynopsis: "A retired cricketer coaches a village team.", MovieStatus: "released"},
	{ID: "m-006", MovieName: "Midnight Ledger", ReleaseDate: "2026-08-14", Runtime: 109, Language: "English", Certificate: "UA", Type: "Crime", Distributor: "Northgate", Budget: "35 crore", MovieSynopsis: "An auditor finds one entry too many.", MovieStatus: "released"},
	{ID: "m-007", MovieName: "Monsoon Wedding Redux", ReleaseDate: "2026-11-06", Runtime: 137, Language: "Hindi", Certificate: "UA", Type: "Romance", Distributor: "Coastline Pictures", Budget: "60 crore", MovieSynopsis: "A wedding, a flood and four families.", MovieStatus: "upcoming"},
	{ID: "m-008", MovieName: "Orbit of Salt", ReleaseDate: "2027-01-22", Runtime: 148, Language: "Malayalam", Certificate: "U", Type: "Sci-Fi", Distributor: "Southwind", Budget: "75 crore", MovieSynopsis: "A salt-pan worker builds a satellite.", MovieStatus: "upcoming"},
	{ID: "m-009", MovieName: "The Quiet Platform", ReleaseDate: "2027-03-19", Runtime: 101, Language: "Bengali", Certificate: "U", Type: "Drama", Distributor: "Hooghly Reels", Budget: "9 crore", MovieSynopsis: "A stationmaster's last week before the line closes.", MovieStatus: "upcoming"},
	{ID: "m-010", MovieName: "Paper Tigers", ReleaseDate: "2027-04-30", Runtime: 127, Language: "Telugu", Certificate: "UA", Type: "Comedy", Distributor: "Wicket Studios", Budget: "30 crore", MovieSynopsis: "Two rival newspapers merge for one day.", MovieStatus: "upcoming"},
	{ID: "m-011", MovieName: "Glass Monsoon", ReleaseDate: "2027-06-11", Runtime: 133, Language: "Kannada", Certificate: "A", Type: "Mystery", Distributor: "Pink City Films", Budget: "28 crore", MovieSynopsis: "A greenhouse hides a decades-old disappearance.", MovieStatus: "upcoming"},
}

func seedContests(now time.Time) []models.Contest {
	day := 24 * time.Hour
	return []models.Contest{
		{ID: "c-001", Name: "Opening Weekend Guess", MovieID: "m-007", EntryFee: 49, PrizePool: 50000, EndsAt: now.Add(3 * day).UTC().Truncate(time.Second)},
		{ID: "c-002", Name: "Box Office Bracket", MovieID: "m-004", EntryFee: 99, PrizePool: 125000, EndsAt: now.Add(7 * day).UTC().Truncate(time.Second)},
		{ID: "c-003", Name: "Trivia Night: Monsoon Films", EntryFee: 0, PrizePool: 5000, EndsAt: now.Add(day).UTC().Truncate(time.Second)},
	}
}
