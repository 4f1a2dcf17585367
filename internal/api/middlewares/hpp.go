package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

// HPPOptions controls HTTP parameter pollution filtering: duplicate params
// collapse to their first value and anything off the whitelist is dropped.
type HPPOptions struct {
	CheckQuery                  bool
	CheckBody                   bool
	CheckBodyOnlyForContentType string
	Whitelist                   []string
}

func HPP(opts HPPOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.CheckBody && r.Method == http.MethodPost &&
				strings.Contains(r.Header.Get("Content-Type"), opts.CheckBodyOnlyForContentType) {
				filterFormParams(r, opts.Whitelist)
			}
			if opts.CheckQuery {
				filterQueryParams(r, opts.Whitelist)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func filterFormParams(r *http.Request, whitelist []string) {
	if err := r.ParseForm(); err != nil {
		return
	}
	for k, v := range r.Form {
		if len(v) > 1 {
			r.Form.Set(k, v[0])
		}
		if !slices.Contains(whitelist, k) {
			delete(r.Form, k)
		}
	}
}

func filterQueryParams(r *http.Request, whitelist []string) {
	q := r.URL.Query()
	for k, v := range q {
		if len(v) > 1 {
			q.Set(k, v[0])
		}
		if !slices.Contains(whitelist, k) {
			q.Del(k)
		}
	}
	r.URL.RawQuery = q.Encode()
}
