package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rparoni/iotshield/internal/demo"
	"github.com/rparoni/iotshield/internal/sim"
	"github.com/rparoni/iotshield/internal/sim/notifiers"
)

// simLoggerAdapter adapts the server's Logger to the sim.Logger interface
type simLoggerAdapter struct {
	logger *Logger
}

func (a *simLoggerAdapter) Debugf(format string, v ...any) { a.logger.Debugf(format, v...) }
func (a *simLoggerAdapter) Infof(format string, v ...any)  { a.logger.Infof(format, v...) }
func (a *simLoggerAdapter) Warnf(format string, v ...any)  { a.logger.Warnf(format, v...) }
func (a *simLoggerAdapter) Errorf(format string, v ...any) { a.logger.Errorf(format, v...) }

// Server owns the simulation session and exposes it over HTTP: the live
// engine API, the WebSocket event stream, the demo backend and metrics.
type Server struct {
	session    *sim.Session
	hub        *sim.StateHub
	wsNotifier *notifiers.WebSocketNotifier
	demoAPI    *demo.API
	logger     *Logger
}

// NewServer wires the session, publishes its engine on the state hub and
// registers the WebSocket notifier.
func NewServer(logger *Logger) *Server {
	simLogger := &simLoggerAdapter{logger: logger}
	session := sim.NewSession(simLogger)

	hub := sim.NewStateHub()
	hub.Publish(session.Engine())

	wsNotifier := notifiers.NewWebSocketNotifier("dashboard-stream")
	if err := session.Notifications().RegisterNotifier(wsNotifier); err != nil {
		logger.Errorf("Failed to register websocket notifier: %v", err)
	}

	return &Server{
		session:    session,
		hub:        hub,
		wsNotifier: wsNotifier,
		demoAPI:    demo.NewAPI(),
		logger:     logger,
	}
}

// Routes builds the router for the full HTTP surface.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/devices", s.handleDevices).Methods(http.MethodGet)
	api.HandleFunc("/attacks", s.handleListAttacks).Methods(http.MethodGet)
	api.HandleFunc("/attacks", s.handleStartAttack).Methods(http.MethodPost)
	api.HandleFunc("/attacks/{id}", s.handleStopAttack).Methods(http.MethodDelete)
	api.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleClearEvents).Methods(http.MethodDelete)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/protocol", s.handleProtocol).Methods(http.MethodGet)
	api.HandleFunc("/protocol/toggle", s.handleToggleProtocol).Methods(http.MethodPost)
	api.HandleFunc("/map/lines", s.handleMapLines).Methods(http.MethodGet)
	api.HandleFunc("/map/stats", s.handleMapStats).Methods(http.MethodGet)
	api.HandleFunc("/notifiers", s.handleListNotifiers).Methods(http.MethodGet)
	api.HandleFunc("/notifiers", s.handleRegisterNotifier).Methods(http.MethodPost)
	api.HandleFunc("/notifiers/{id}", s.handleUnregisterNotifier).Methods(http.MethodDelete)

	s.demoAPI.Register(r.PathPrefix("/demo").Subrouter())

	return r
}

// Close tears the session down, cancelling both generator loops.
func (s *Server) Close() error {
	return s.session.Close()
}
