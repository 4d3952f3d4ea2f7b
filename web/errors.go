package web

import (
	"net/http"
	"strings"
)

// ErrorPages supplies the body served in place of an error response.
type ErrorPages interface {
	// ErrorPage returns the HTML page for status, or false to leave the
	// response alone.
	ErrorPage(r *http.Request, status int) ([]byte, bool)
}

// ErrorPagesFunc adapts a function to ErrorPages.
type ErrorPagesFunc func(r *http.Request, status int) ([]byte, bool)

// ErrorPage calls f.
func (f ErrorPagesFunc) ErrorPage(r *http.Request, status int) ([]byte, bool) {
	return f(r, status)
}

// ErrorHandler replaces the body of error responses, such as the plain text
// 404 from http.FileServer, with the pages provided by pages. Responses that
// already declare an HTML body are left alone.
func ErrorHandler(h http.Handler, pages ErrorPages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			pages:          pages,
			req:            r,
		}
		h.ServeHTTP(writer, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	pages       ErrorPages
	req         *http.Request
	wroteHeader bool
	noWrite     bool
	err         error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if statusCode >= http.StatusBadRequest && !isHTML(w.Header()) {
		if b, ok := w.pages.ErrorPage(w.req, statusCode); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Del("X-Content-Type-Options")
			w.Header().Del("Content-Length")
			w.ResponseWriter.WriteHeader(statusCode)
			w.noWrite = true
			_, w.err = w.ResponseWriter.Write(b)
			return
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func isHTML(h http.Header) bool {
	return strings.HasPrefix(h.Get("Content-Type"), "text/html")
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
