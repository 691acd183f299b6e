package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/vanchez121994/foodgram-project-react/internal/apperr"
	"github.com/vanchez121994/foodgram-project-react/internal/usecase/query"
)

// PageSize bounds the limit query parameter
type PageSize struct {
	Default int
	Max     int
}

type pageRequest struct {
	page  int
	limit int
}

func (p pageRequest) offset() int {
	return (p.page - 1) * p.limit
}

// PaginatedResponse is the envelope of every paginated listing
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// parsePage reads page (1-based) and limit from the query string
func (s PageSize) parsePage(r *http.Request) (pageRequest, error) {
	req := pageRequest{page: 1, limit: s.Default}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, apperr.FieldValidation("page", "must be a positive integer")
		}
		req.page = page
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return req, apperr.FieldValidation("limit", "must be a positive integer")
		}
		req.limit = min(limit, s.Max)
	}

	return req, nil
}

func paginate[T any](r *http.Request, req pageRequest, page *query.Page[T]) PaginatedResponse[T] {
	resp := PaginatedResponse[T]{Count: page.Total, Results: orEmpty(page.Items)}

	if int64(req.offset()+len(page.Items)) < page.Total {
		next := pageURL(r, req.page+1)
		resp.Next = &next
	}
	if req.page > 1 {
		prev := pageURL(r, req.page-1)
		resp.Previous = &prev
	}
	return resp
}

// pageURL rebuilds the absolute request URL pointing at another page
func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
