package middleware

import "net/http"

// ResponseRecorder wraps ResponseWriter, captures the status code, and can run
// a hook right before the header is written (used to set cookies late).
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	wrote       bool
	beforeWrite func(http.ResponseWriter)
}

func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w, status: http.StatusOK}
}

// SetBeforeWrite registers fn to run once, before the first header write.
func (rw *ResponseRecorder) SetBeforeWrite(fn func(http.ResponseWriter)) {
	rw.beforeWrite = fn
}

func (rw *ResponseRecorder) WriteHeader(statusCode int) {
	if rw.wrote {
		return
	}
	if rw.beforeWrite != nil {
		fn := rw.beforeWrite
		rw.beforeWrite = nil
		fn(rw.ResponseWriter)
	}
	rw.wrote = true
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseRecorder) Write(b []byte) (int, error) {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *ResponseRecorder) Status() int { return rw.status }

// Written reports whether the header has been sent.
func (rw *ResponseRecorder) Written() bool { return rw.wrote }

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *ResponseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
