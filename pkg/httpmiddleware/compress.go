package httpmiddleware

import (
	"net/http"
	"strings"

	"github.com/klauspost/pgzip"
)

// Compress gzip-encodes response bodies for clients that accept it.
func Compress(level int) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}
			gw := &gzipWriter{ResponseWriter: w, level: level}
			defer func() { _ = gw.close() }()
			next.ServeHTTP(gw, r)
		})
	}
}

// gzipWriter starts compressing on the first body write. Bodyless statuses
// and already-encoded responses pass through untouched.
type gzipWriter struct {
	http.ResponseWriter
	level       int
	gz          *pgzip.Writer
	wroteHeader bool
	passthrough bool
}

func (w *gzipWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	h := w.Header()
	if code == http.StatusNoContent || code == http.StatusNotModified || h.Get("Content-Encoding") != "" {
		w.passthrough = true
	} else {
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(p)
	}
	if err := w.init(); err != nil {
		return 0, err
	}
	return w.gz.Write(p)
}

func (w *gzipWriter) init() error {
	if w.gz != nil {
		return nil
	}
	gz, err := pgzip.NewWriterLevel(w.ResponseWriter, w.level)
	if err != nil {
		return err
	}
	w.gz = gz
	return nil
}

// close flushes the gzip stream. A header-only response still gets a valid
// empty gzip body.
func (w *gzipWriter) close() error {
	if !w.wroteHeader || w.passthrough {
		return nil
	}
	if err := w.init(); err != nil {
		return err
	}
	return w.gz.Close()
}
