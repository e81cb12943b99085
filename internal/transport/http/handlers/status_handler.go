package handlers

import (
	"net/http"

	"github.com/vedran77/pulse-mirror/internal/rtm"
)

// StatusReader is implemented by *rtm.Session.
type StatusReader interface {
	Status() rtm.Status
}

type StatusHandler struct {
	session StatusReader
}

func NewStatusHandler(session StatusReader) *StatusHandler {
	return &StatusHandler{session: session}
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Status reports the session identity, store record counts and how many
// events were applied or rejected so far.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.session == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_SESSION", "Session is not running")
		return
	}
	writeJSON(w, http.StatusOK, h.session.Status())
}
