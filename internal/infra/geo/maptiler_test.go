package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(url string) *MapTilerClient {
	return NewMapTilerClient(url, "test-key", time.Second, nil)
}

func TestForward_TakesFirstFeatureGeometry(t *testing.T) {
	var gotPath, gotKey, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[
			{"geometry":{"type":"Point","coordinates":[-97.7431,30.2672]}},
			{"geometry":{"type":"Point","coordinates":[0,0]}}
		]}`))
	}))
	defer server.Close()

	geometry, err := newTestClient(server.URL).Forward(context.Background(), "Austin, TX")
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	if geometry.Type != "Point" {
		t.Fatalf("unexpected geometry type %q", geometry.Type)
	}
	if geometry.Coordinates != [2]float64{-97.7431, 30.2672} {
		t.Fatalf("expected first feature coordinates, got %v", geometry.Coordinates)
	}
	if gotPath != "/geocoding/Austin,%20TX.json" && gotPath != "/geocoding/Austin, TX.json" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotKey != "test-key" || gotLimit != "1" {
		t.Fatalf("key or limit not forwarded: key=%q limit=%q", gotKey, gotLimit)
	}
}

func TestForward_EmptyFeatureListIsNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Forward(context.Background(), "Nowhere At All")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestForward_NonOKStatusIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "key invalid", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Forward(context.Background(), "Austin, TX")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if errors.Is(err, ErrNoMatch) {
		t.Fatalf("status failure must not look like a no-match: %v", err)
	}
}

func TestForward_MissingKeyIsNotConfigured(t *testing.T) {
	client := NewMapTilerClient("https://geo.example.com", "", time.Second, nil)
	_, err := client.Forward(context.Background(), "Austin, TX")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestForward_BlankQueryIsNoMatch(t *testing.T) {
	client := NewMapTilerClient("https://geo.example.com", "k", time.Second, nil)
	_, err := client.Forward(context.Background(), "   ")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}
