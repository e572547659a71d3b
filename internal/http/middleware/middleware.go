package middleware

import (
	"net/http"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// responseLog перехватывает статус и объём ответа: Logging и Metrics читают
// их после выхода вложенного обработчика.
type responseLog struct {
	http.ResponseWriter
	status int
	bytes  int
}

func observe(w http.ResponseWriter) *responseLog {
	return &responseLog{ResponseWriter: w}
}

// statusCode возвращает итоговый статус; обработчик, писавший тело без
// явного WriteHeader (или не писавший ничего), считается ответившим 200.
func (l *responseLog) statusCode() int {
	if l.status == 0 {
		return http.StatusOK
	}

	return l.status
}

func (l *responseLog) WriteHeader(code int) {
	if l.status == 0 {
		l.status = code
	}

	l.ResponseWriter.WriteHeader(code)
}

func (l *responseLog) Write(p []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}

	n, err := l.ResponseWriter.Write(p)
	l.bytes += n

	return n, err
}
