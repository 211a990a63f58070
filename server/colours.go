package server

import "net/http"

// ANSI escapes for the DEV-mode route table. One colour per HTTP method so
// the startup listing scans quickly.
const (
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiGray    = "\033[90m"
	ansiReset   = "\033[0m"
)

var methodColors = map[string]string{
	http.MethodGet:    ansiGreen,
	http.MethodPost:   ansiBlue,
	http.MethodPut:    ansiCyan,
	http.MethodDelete: ansiYellow,
	http.MethodPatch:  ansiMagenta,
}
