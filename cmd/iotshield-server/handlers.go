package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rparoni/iotshield/internal/sim"
	"github.com/rparoni/iotshield/internal/sim/notifiers"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// engine resolves the published engine, writing a 500 when the hub is
// empty. That only happens on a wiring mistake, so it should be loud.
func (s *Server) engine(w http.ResponseWriter) (*sim.Engine, bool) {
	engine, err := s.hub.Engine()
	if err != nil {
		s.logger.Errorf("State hub read failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return engine, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// GET /api/devices
func (s *Server) handleDevices(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	writeJSON(w, engine.Devices())
}

// GET /api/attacks
func (s *Server) handleListAttacks(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	writeJSON(w, engine.Attacks())
}

// POST /api/attacks
// Body: { "type": "denial_of_service" }
type startAttackRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleStartAttack(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	engine, ok := s.engine(w)
	if !ok {
		return
	}

	var req startAttackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	// The engine soft-fails on unknown types; the API surfaces the
	// mistake to manual callers instead.
	if _, known := sim.DefinitionByType(sim.AttackType(req.Type)); !known {
		http.Error(w, "unknown attack type: "+req.Type, http.StatusBadRequest)
		return
	}

	engine.StartAttack(sim.AttackType(req.Type))
	s.logger.Debugf("Manual attack started: type=%s", req.Type)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("attack started"))
}

// DELETE /api/attacks/{id}
func (s *Server) handleStopAttack(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	engine.StopAttack(id)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("attack stopped"))
}

// GET /api/events
func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	writeJSON(w, engine.Events())
}

// DELETE /api/events
func (s *Server) handleClearEvents(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	engine.ClearEvents()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("events cleared"))
}

// GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	writeJSON(w, engine.Stats())
}

// GET /api/protocol
func (s *Server) handleProtocol(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	writeJSON(w, map[string]bool{"enabled": engine.ProtocolEnabled()})
}

// POST /api/protocol/toggle
func (s *Server) handleToggleProtocol(w http.ResponseWriter, _ *http.Request) {
	engine, ok := s.engine(w)
	if !ok {
		return
	}
	engine.ToggleProtocol()
	writeJSON(w, map[string]bool{"enabled": engine.ProtocolEnabled()})
}

// GET /api/map/lines
func (s *Server) handleMapLines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.session.Feed().Lines())
}

// GET /api/map/stats
func (s *Server) handleMapStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.session.Feed().Stats())
}

// GET /ws
// Upgrades the connection and registers it with the dashboard stream.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.wsNotifier.Upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}
	s.wsNotifier.RegisterClient(conn)

	// Drain reads so client close frames are processed; the stream is
	// push-only.
	go func() {
		defer s.wsNotifier.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// GET /api/notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	nm := s.session.Notifications()
	ids := nm.ListNotifiers()

	out := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		if notifier, exists := nm.GetNotifier(id); exists {
			out = append(out, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}
	writeJSON(w, map[string]any{"notifiers": out})
}

// POST /api/notifiers
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier sim.Notifier
	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, url)
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}
		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.session.Notifications().RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /api/notifiers/{id}
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.session.Notifications().UnregisterNotifier(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}
