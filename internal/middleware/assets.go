package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// AssetsWithCache wraps a file server and applies Cache-Control, Vary, and
// ETag handling. Mount it behind http.StripPrefix so request paths are
// relative to dir.
func AssetsWithCache(dir string, maxAge time.Duration) http.Handler {
	// precompute ETags for files under dir
	etags := map[string]string{}
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		et, err := fileETag(path)
		if err != nil {
			return nil
		}
		if rel, err := filepath.Rel(dir, path); err == nil {
			// always use '/' separators for URLs
			etags["/"+filepath.ToSlash(rel)] = et
		}
		return nil
	})
	cacheControl := "no-cache"
	if maxAge > 0 {
		cacheControl = fmt.Sprintf("public, max-age=%d, stale-while-revalidate=86400", int(maxAge.Seconds()))
	}
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("Cache-Control", cacheControl)
		if et := etags[r.URL.Path]; et != "" {
			w.Header().Set("ETag", et)
			if inm := r.Header.Get("If-None-Match"); inm != "" && inm == et {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		fs.ServeHTTP(w, r)
	})
}

func fileETag(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return `W/"` + hex.EncodeToString(h.Sum(nil)[:16]) + `"`, nil
}
