package handlers

import "net/http"

// serviceName and serviceVersion identify the API in the public info
// endpoint.
const (
	serviceName    = "newswire-apiserver"
	serviceVersion = "1.0.0"
)

// Healthz reports liveness. It requires no authentication.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info describes the service. It requires no authentication.
func Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    serviceName,
		"version": serviceVersion,
	})
}
