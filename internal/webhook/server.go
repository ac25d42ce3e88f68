package webhook

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Server answers Feishu event callbacks. It currently only handles the URL
// verification handshake; real events are acknowledged and logged so the
// table automation keeps retrying nothing.
type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook/feishu", s.handleFeishu)
	return mux
}

func (s *Server) handleFeishu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var event map[string]any
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		s.logger.Warn("rejecting unparseable event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Feishu URL verification: echo the challenge back
	if challenge, ok := event["challenge"]; ok {
		s.logger.Info("answering URL verification", "remote", r.RemoteAddr)
		writeJSON(w, map[string]any{"challenge": challenge})
		return
	}

	s.logger.Info("received event", "remote", r.RemoteAddr, "keys", len(event))
	writeJSON(w, map[string]any{"code": 0})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(v)
}
