package middleware

import (
	"net/http"
	"strings"
)

type CORSMiddleware struct {
	allowedOrigins []string
}

// NewCORSMiddleware allows every origin when none are given
func NewCORSMiddleware(allowedOrigins ...string) *CORSMiddleware {
	return &CORSMiddleware{allowedOrigins: allowedOrigins}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", m.allowOrigin(req.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (m *CORSMiddleware) allowOrigin(origin string) string {
	if len(m.allowedOrigins) == 0 {
		return "*"
	}
	for _, o := range m.allowedOrigins {
		if strings.EqualFold(o, origin) {
			return origin
		}
	}
	return m.allowedOrigins[0]
}
