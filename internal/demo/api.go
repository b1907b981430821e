package demo

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

// API holds the demo backend's only mutable piece of state: a
// server-side protocol boolean with no persistence guarantee across
// restarts.
type API struct {
	mu              sync.Mutex
	protocolEnabled bool
}

// NewAPI creates the demo backend with the protocol disabled.
func NewAPI() *API {
	return &API{}
}

// Register mounts the demo routes on the given router.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/devices", a.handleDevices).Methods(http.MethodGet)
	r.HandleFunc("/attacks", a.handleAttacks).Methods(http.MethodGet)
	r.HandleFunc("/stats", a.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/protocol", a.handleProtocol).Methods(http.MethodGet)
	r.HandleFunc("/protocol/toggle", a.handleToggleProtocol).Methods(http.MethodPost)
	r.HandleFunc("/events", a.handleEvents).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

func (a *API) handleDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, cannedDevices)
}

func (a *API) handleAttacks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, cannedAttacks)
}

func (a *API) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, computeStats(cannedAttacks))
}

func (a *API) handleProtocol(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	enabled := a.protocolEnabled
	a.mu.Unlock()

	stages := make([]Stage, len(cannedStages))
	copy(stages, cannedStages)
	writeJSON(w, ProtocolStatus{Enabled: enabled, Stages: stages})
}

func (a *API) handleToggleProtocol(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	a.protocolEnabled = !a.protocolEnabled
	enabled := a.protocolEnabled
	a.mu.Unlock()

	writeJSON(w, map[string]bool{"enabled": enabled})
}

func (a *API) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, cannedEvents)
}
