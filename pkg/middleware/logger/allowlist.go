package logger

import (
	"net/http"
	"strings"
)

var (
	bodyLogPaths = map[string]struct{}{
		"/v1/messages": {},
	}
	bodyLogPrefixes = []string{"/v1/topics/"}
)

// Only log small JSON request bodies on allowlisted routes.
func shouldLogBody(r *http.Request, body []byte) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if len(body) == 0 || len(body) > 1<<16 { // 64 KiB cap
		return false
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return false
	}
	path := r.URL.Path
	if _, ok := bodyLogPaths[path]; ok {
		return true
	}
	for _, p := range bodyLogPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
