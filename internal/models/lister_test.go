package models

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newModelServer(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		data := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			data = append(data, map[string]any{"id": id, "object": "model", "owned_by": "openai"})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestChatModels_NoAPIKey(t *testing.T) {
	_, err := NewLister("").ChatModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestChatModels(t *testing.T) {
	srv := newModelServer(t, "tts-1", "gpt-4o-mini", "dall-e-3", "gpt-4o", "text-embedding-3-small", "gpt-4o-audio-preview", "o3-mini", "whisper-1")

	got, err := NewListerWithURL("key", srv.URL+"/v1").ChatModels(context.Background())
	if err != nil {
		t.Fatalf("ChatModels failed: %v", err)
	}

	want := []string{"gpt-4o", "gpt-4o-mini", "o3-mini"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChatModels() = %v, want %v", got, want)
	}
}

func TestPrint(t *testing.T) {
	srv := newModelServer(t, "gpt-4o", "gpt-4o-mini")

	var buf bytes.Buffer
	if err := NewListerWithURL("key", srv.URL+"/v1").Print(context.Background(), &buf, "gpt-4o-mini"); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "  gpt-4o\n") {
		t.Errorf("Missing model in output: %q", out)
	}
	if !strings.Contains(out, "  gpt-4o-mini (configured)\n") {
		t.Errorf("Configured model not marked: %q", out)
	}
}

func TestPrint_NoModels(t *testing.T) {
	srv := newModelServer(t, "tts-1")

	var buf bytes.Buffer
	if err := NewListerWithURL("key", srv.URL+"/v1").Print(context.Background(), &buf, ""); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No chat models found") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}
