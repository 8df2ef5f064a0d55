package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/csvclean/internal/core"
	mw "github.com/JonMunkholm/csvclean/internal/web/middleware"
)

// withClient adds the client IP and User-Agent to the request context so
// pipeline logs can name who submitted a file.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), core.Client{
		IP:        clientKey(r),
		UserAgent: r.UserAgent(),
	})
}

// clientKey is the client IP after TrustedRealIP, or the raw RemoteAddr when
// it does not parse.
func clientKey(r *http.Request) string {
	if ip := mw.ClientIP(r); ip != nil {
		return ip.String()
	}
	return r.RemoteAddr
}
