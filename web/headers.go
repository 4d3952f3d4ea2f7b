package web

import (
	"net/http"
	"strings"
	"time"
)

var gmtZone *time.Location

func init() {
	var err error
	gmtZone, err = time.LoadLocation("GMT")
	if err != nil {
		gmtZone = time.UTC
	}
}

// StaticPrefix is the URL prefix of static assets.
const StaticPrefix = "/static/"

// HeaderHandler returns an http.Handler that adds the given headers to the response.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// ExpiresHandler adds the Expires header, using staticExpires for assets
// under StaticPrefix and expires for everything else. A zero duration
// leaves the header out.
func ExpiresHandler(h http.Handler, expires, staticExpires time.Duration) http.Handler {
	return expiresHandler(h, expires, staticExpires, time.Now)
}

func expiresHandler(h http.Handler, expires, staticExpires time.Duration, now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expiry := expires
		if strings.HasPrefix(r.URL.Path, StaticPrefix) {
			expiry = staticExpires
		}
		if expiry != 0 {
			w.Header().Set("Expires", now().Add(expiry).In(gmtZone).Format(time.RFC1123))
		}
		h.ServeHTTP(w, r)
	})
}
