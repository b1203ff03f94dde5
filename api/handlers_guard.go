package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultLookbackMinutes applies when history and alert queries omit the
// minutes parameter
const defaultLookbackMinutes = 60

// maxRulesBodyBytes caps the accepted rules document size
const maxRulesBodyBytes = 1 << 20

// handleStatus responds with the coordinator's current snapshot
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.coordinator.Status())
}

// handleCurrentMetrics responds with the most recent monitor sample
func (s *Server) handleCurrentMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, ok := s.monitorService.CurrentMetrics()
	if !ok {
		http.Error(w, "No metrics collected yet", http.StatusServiceUnavailable)
		return
	}

	s.sendJSONResponse(w, metrics)
}

// handleHistory responds with the monitor samples of the requested lookback
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	lookback, err := lookbackFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.sendJSONResponse(w, s.monitorService.History(lookback))
}

// handleAlerts responds with the alerts raised within the requested lookback
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	lookback, err := lookbackFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.sendJSONResponse(w, s.monitorService.RecentAlerts(lookback))
}

// handleSummary responds with the trailing-hour summary, as JSON by default
// or as plain text with format=text
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := io.WriteString(w, s.monitorService.FormatSummary()); err != nil {
			return
		}
		return
	}

	s.sendJSONResponse(w, s.monitorService.GenerateSummary())
}

// handleUpdateRules applies a partial YAML rules document over the active
// rules. Rejected documents leave the coordinator untouched.
func (s *Server) handleUpdateRules(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRulesBodyBytes))
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	rules := s.coordinator.Status().Rules
	if err := yaml.Unmarshal(body, &rules); err != nil {
		http.Error(w, fmt.Sprintf("Error parsing rules: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.coordinator.UpdateRules(rules); err != nil {
		http.Error(w, fmt.Sprintf("Rules rejected: %v", err), http.StatusBadRequest)
		return
	}

	s.sendJSONResponse(w, rules)
}

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"services": map[string]string{
			"tokens":  "unknown",
			"monitor": "unknown",
		},
	}

	if s.tokenManager.Healthy() {
		status["services"].(map[string]string)["tokens"] = "up"
	}

	if s.monitorService.Healthy() {
		status["services"].(map[string]string)["monitor"] = "up"
	}

	s.sendJSONResponse(w, status)
}

// lookbackFromRequest parses the minutes query parameter
func lookbackFromRequest(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("minutes")
	if raw == "" {
		return defaultLookbackMinutes * time.Minute, nil
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("invalid minutes parameter: %q", raw)
	}
	return time.Duration(minutes) * time.Minute, nil
}
