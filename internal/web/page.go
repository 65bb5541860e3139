package web

import "net/http"

// PageData is the data a page handler feeds into its template.
type PageData map[string]any

// PageHandler produces the data for one server-rendered page. Wrappers
// compose around it to add preconditions: the CSRF wrapper injects the
// token, the login wrapper redirects anonymous requests.
//
// Returning (nil, nil) means the handler already wrote the response,
// typically a redirect, and nothing should be rendered.
type PageHandler func(w http.ResponseWriter, r *http.Request) (PageData, error)
