package middlewares

import (
	"net/http"
	"slices"
)

// HPPOptions configures the HTTP parameter pollution filter. Only query
// strings are filtered; the API takes JSON bodies.
type HPPOptions struct {
	Whitelist []string
}

// HPP keeps the first value of each repeated query parameter and drops
// parameters not on the whitelist.
func HPP(opts HPPOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				filterQueryParams(r, opts.Whitelist)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func filterQueryParams(r *http.Request, whitelist []string) {
	query := r.URL.Query()
	for k, v := range query {
		if !slices.Contains(whitelist, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 {
			query.Set(k, v[0])
		}
	}
	r.URL.RawQuery = query.Encode()
}

// DefaultHPPOptions whitelists the list paging parameters.
func DefaultHPPOptions() HPPOptions {
	return HPPOptions{Whitelist: []string{"skip", "limit"}}
}
