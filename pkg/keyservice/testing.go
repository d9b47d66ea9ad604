package keyservice

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// FakeKeyService is an in-memory implementation of the server side of the
// key service protocol, for use behind httptest.Server in tests of this
// package and of code built on top of the client.
//
// It records every request it serves (path and decoded JSON body) and can
// be scripted to fail with a fixed status or answer with a fixed body.
//
// Example:
//
//	fake := keyservice.NewFakeKeyService()
//	srv := httptest.NewServer(fake)
//	defer srv.Close()
//
//	client, _ := keyservice.New(keyservice.Config{RealmBaseURL: srv.URL})
type FakeKeyService struct {
	mu       sync.Mutex
	nextID   int
	keys     map[string]fakeKey
	requests []FakeRequest

	forcedStatus int
	forcedBody   []byte
}

type fakeKey struct {
	secret     string
	longSecret string
	material   string
}

// FakeRequest is one recorded exchange.
type FakeRequest struct {
	Path string
	Body map[string]string
}

// NewFakeKeyService returns an empty fake realm.
func NewFakeKeyService() *FakeKeyService {
	return &FakeKeyService{keys: make(map[string]fakeKey)}
}

// Seed installs a key so Get requests can find it.
func (s *FakeKeyService) Seed(keyID, secret, longSecret, material string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[keyID] = fakeKey{secret: secret, longSecret: longSecret, material: material}
}

// FailWith makes every subsequent request answer with the given status
// and an empty body. Pass 0 to restore normal behavior.
func (s *FakeKeyService) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedStatus = status
}

// RespondWith makes every subsequent request answer 200 with the given
// verbatim body. Pass nil to restore normal behavior.
func (s *FakeKeyService) RespondWith(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedBody = body
}

// Requests returns a copy of all recorded requests, in order.
func (s *FakeKeyService) Requests() []FakeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FakeRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// ServeHTTP implements the protocol endpoints under any realm prefix; the
// final path segment selects the operation.
func (s *FakeKeyService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, FakeRequest{Path: r.URL.Path, Body: body})

	if s.forcedStatus != 0 {
		w.WriteHeader(s.forcedStatus)
		return
	}
	if s.forcedBody != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(s.forcedBody)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/"+string(EndpointCreateKey)):
		s.serveCreate(w, body)
	case strings.HasSuffix(r.URL.Path, "/"+string(EndpointKey)):
		s.serveGet(w, body)
	default:
		http.NotFound(w, r)
	}
}

func (s *FakeKeyService) serveCreate(w http.ResponseWriter, body map[string]string) {
	secret, ok := body["secret"]
	if !ok {
		http.Error(w, "missing secret", http.StatusBadRequest)
		return
	}

	s.nextID++
	k := fakeKey{
		secret:     secret,
		longSecret: fmt.Sprintf("long-secret-%04d", s.nextID),
		material:   base64.StdEncoding.EncodeToString(fmt.Appendf(nil, "key-material-%04d", s.nextID)),
	}
	keyID := fmt.Sprintf("key-%04d", s.nextID)
	s.keys[keyID] = k

	s.writeModel(w, keyID, k, true)
}

func (s *FakeKeyService) serveGet(w http.ResponseWriter, body map[string]string) {
	keyID := body["keyid"]
	k, ok := s.keys[keyID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case body["secret"] != "":
		if body["secret"] != k.secret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	case body["longsecret"] != "":
		if body["longsecret"] != k.longSecret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	default:
		http.Error(w, "missing credential", http.StatusBadRequest)
		return
	}

	s.writeModel(w, keyID, k, false)
}

func (s *FakeKeyService) writeModel(w http.ResponseWriter, keyID string, k fakeKey, withLongSecret bool) {
	model := map[string]any{
		"keyid":   keyID,
		"key":     k.material,
		"version": 1,
	}
	if withLongSecret {
		model["longsecret"] = k.longSecret
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(model)
}
