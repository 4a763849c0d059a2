package logs

import "net/http"

// RespLogger captures the status code and byte count of a response.
type RespLogger struct {
	http.ResponseWriter
	Status      int
	Bytes       int
	wroteHeader bool
}

func NewRespLogger(w http.ResponseWriter) *RespLogger {
	return &RespLogger{ResponseWriter: w, Status: http.StatusOK}
}

// WriteHeader records only the first status, matching what net/http sends.
func (l *RespLogger) WriteHeader(code int) {
	if !l.wroteHeader {
		l.Status = code
		l.wroteHeader = true
	}
	l.ResponseWriter.WriteHeader(code)
}

func (l *RespLogger) Write(b []byte) (int, error) {
	l.wroteHeader = true
	n, err := l.ResponseWriter.Write(b)
	l.Bytes += n
	return n, err
}
