package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const moviesPageSize = 10

// Movies lists one page of movies. Usage: movies [page] [search words].
func (a *App) Movies(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			page = n
			args = args[1:]
		}
	}

	res, err := a.catalog.Movies(ctx, page, moviesPageSize, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(res.Movies) == 0 {
		fmt.Fprintln(a.out, "No movies found")
		return nil
	}

	for _, m := range res.Movies {
		fmt.Fprintf(a.out, "%s  %s", m.ID, m.MovieName)
		if m.Language != "" {
			fmt.Fprintf(a.out, " (%s)", m.Language)
		}
		fmt.Fprintln(a.out)
	}
	p := res.Pagination
	fmt.Fprintf(a.out, "page %d, %d per page, %d total\n", p.Page, p.Limit, p.Total)
	return nil
}

func (a *App) Movie(ctx context.Context, args []string) error {
	m, err := a.catalog.Movie(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", m.MovieName)
	for _, row := range [][2]string{
		{"Released", m.ReleaseDate},
		{"Runtime", m.Runtime.String()},
		{"Language", m.Language},
		{"Certificate", m.Certificate},
		{"Status", m.MovieStatus},
	} {
		if row[1] != "" {
			fmt.Fprintf(a.out, "  %-12s %s\n", row[0]+":", row[1])
		}
	}
	if m.AboutMovie != "" {
		fmt.Fprintf(a.out, "\n%s\n", m.AboutMovie)
	}
	return nil
}

func (a *App) Contests(ctx context.Context) error {
	contests, err := a.catalog.Contests(ctx)
	if err != nil {
		return err
	}
	if len(contests) == 0 {
		fmt.Fprintln(a.out, "No contests")
		return nil
	}
	for _, c := range contests {
		fmt.Fprintf(a.out, "%s  %s\n", c.ID, c.Name)
	}
	return nil
}
