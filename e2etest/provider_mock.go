package e2etest

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockProvider simulates the upstream provider for end-to-end tests: an
// OAuth token endpoint plus a small data API. Every request is recorded so
// tests can assert on what actually went over the wire.
type MockProvider struct {
	server *httptest.Server

	mu            sync.Mutex
	failTokens    bool
	expiresIn     int64
	tokenCounter  int
	grantTypes    []string
	dataRequests  int
	lastAuthToken string
}

// NewMockProvider creates and starts a mock provider server.
// httptest.Server automatically selects a free port.
func NewMockProvider() *MockProvider {
	mp := &MockProvider{
		expiresIn: 3600,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", mp.handleToken)
	mux.HandleFunc("/v1/data", mp.handleData)

	mp.server = httptest.NewServer(mux)
	return mp
}

// Close shuts down the mock provider
func (mp *MockProvider) Close() {
	if mp.server != nil {
		mp.server.Close()
	}
}

// GetURL returns the base URL of the mock provider
func (mp *MockProvider) GetURL() string {
	return mp.server.URL
}

// FailTokenRequests makes the token endpoint answer 500 until switched back
func (mp *MockProvider) FailTokenRequests(fail bool) {
	mp.mu.Lock()
	mp.failTokens = fail
	mp.mu.Unlock()
}

// SetExpiresIn controls the expires_in value of issued tokens, in seconds
func (mp *MockProvider) SetExpiresIn(seconds int64) {
	mp.mu.Lock()
	mp.expiresIn = seconds
	mp.mu.Unlock()
}

// TokenRequestCount returns how many requests reached the token endpoint
func (mp *MockProvider) TokenRequestCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.grantTypes)
}

// GrantTypes returns the grant_type values received, in arrival order
func (mp *MockProvider) GrantTypes() []string {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	out := make([]string, len(mp.grantTypes))
	copy(out, mp.grantTypes)
	return out
}

// DataRequestCount returns how many requests reached the data endpoint
func (mp *MockProvider) DataRequestCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.dataRequests
}

// LastAuthorization returns the Authorization header of the most recent
// data request
func (mp *MockProvider) LastAuthorization() string {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.lastAuthToken
}

// handleToken implements the provider's OAuth token endpoint
func (mp *MockProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	grantType := r.PostFormValue("grant_type")
	log.Printf("MockProvider: token request with grant_type=%s", grantType)

	mp.mu.Lock()
	mp.grantTypes = append(mp.grantTypes, grantType)
	fail := mp.failTokens
	expiresIn := mp.expiresIn
	mp.tokenCounter++
	counter := mp.tokenCounter
	mp.mu.Unlock()

	if fail {
		http.Error(w, `{"error":"temporarily_unavailable"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"access_token":  fmt.Sprintf("access-token-%d", counter),
		"refresh_token": fmt.Sprintf("refresh-token-%d", counter),
		"expires_in":    expiresIn,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("MockProvider: failed to encode token response: %v", err)
	}
}

// handleData implements a minimal provider data endpoint
func (mp *MockProvider) handleData(w http.ResponseWriter, r *http.Request) {
	mp.mu.Lock()
	mp.dataRequests++
	mp.lastAuthToken = r.Header.Get("Authorization")
	mp.mu.Unlock()

	log.Printf("MockProvider: data request for %s", r.URL.String())

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"items":[{"id":"alpha","value":1},{"id":"beta","value":2}]}`)
}
