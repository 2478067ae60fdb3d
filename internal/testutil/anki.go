package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// AnkiRequest is a request received by the fake AnkiConnect server.
type AnkiRequest struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Key     string          `json:"key,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// AnkiServer is an in-process AnkiConnect fake.
type AnkiServer struct {
	*httptest.Server

	mu sync.Mutex
	// Decks known to the fake collection.
	Decks []string
	// Models maps note type names to their field names.
	Models map[string][]string
	// RejectModels makes addNote fail for these note types.
	RejectModels map[string]bool
	// Key, when set, must match the key of every request.
	Key string

	Requests []AnkiRequest
	Notes    []map[string]any
	nextID   int64
	// existing holds the first field values per note type, which is how
	// Anki detects duplicates.
	existing map[string]map[string]bool
}

// NewAnkiServer starts a fake with a Default deck and a Basic note type.
// It is closed when the test ends.
func NewAnkiServer(t *testing.T) *AnkiServer {
	t.Helper()

	s := &AnkiServer{
		Decks:        []string{"Default"},
		Models:       map[string][]string{"Basic": {"Front", "Back"}},
		RejectModels: map[string]bool{},
		nextID:       1000,
		existing:     map[string]map[string]bool{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Actions returns the actions received so far, in order.
func (s *AnkiServer) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Requests))
	for _, r := range s.Requests {
		out = append(out, r.Action)
	}
	return out
}

// AddExisting marks first as the first field of a note of the given type
// that is already in the collection.
func (s *AnkiServer) AddExisting(model, first string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markExisting(model, first)
}

func (s *AnkiServer) markExisting(model, first string) {
	if s.existing[model] == nil {
		s.existing[model] = map[string]bool{}
	}
	s.existing[model][strings.TrimSpace(first)] = true
}

// NoteCount returns the number of notes added.
func (s *AnkiServer) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Notes)
}

func (s *AnkiServer) handle(w http.ResponseWriter, r *http.Request) {
	var req AnkiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)

	if s.Key != "" && req.Key != s.Key {
		reply(w, nil, "valid api key must be provided")
		return
	}

	switch req.Action {
	case "version":
		reply(w, 6, "")
	case "deckNames":
		reply(w, s.Decks, "")
	case "createDeck":
		var p struct {
			Deck string `json:"deck"`
		}
		_ = json.Unmarshal(req.Params, &p)
		s.Decks = append(s.Decks, p.Deck)
		s.nextID++
		reply(w, s.nextID, "")
	case "modelNames":
		names := make([]string, 0, len(s.Models))
		for name := range s.Models {
			names = append(names, name)
		}
		reply(w, names, "")
	case "modelFieldNames":
		var p struct {
			ModelName string `json:"modelName"`
		}
		_ = json.Unmarshal(req.Params, &p)
		fields, ok := s.Models[p.ModelName]
		if !ok {
			reply(w, nil, "model was not found: "+p.ModelName)
			return
		}
		reply(w, fields, "")
	case "addNote":
		var p struct {
			Note map[string]any `json:"note"`
		}
		_ = json.Unmarshal(req.Params, &p)
		id, errMsg := s.addNote(p.Note)
		if errMsg != "" {
			reply(w, nil, errMsg)
			return
		}
		reply(w, id, "")
	case "addNotes":
		var p struct {
			Notes []map[string]any `json:"notes"`
		}
		_ = json.Unmarshal(req.Params, &p)
		ids := make([]any, 0, len(p.Notes))
		for _, n := range p.Notes {
			if id, errMsg := s.addNote(n); errMsg == "" {
				ids = append(ids, id)
			} else {
				ids = append(ids, nil)
			}
		}
		reply(w, ids, "")
	case "findNotes":
		ids := make([]int64, 0, len(s.Notes))
		for _, n := range s.Notes {
			if id, ok := n["id"].(int64); ok {
				ids = append(ids, id)
			}
		}
		reply(w, ids, "")
	case "notesInfo":
		reply(w, s.notesInfo(), "")
	case "createModel":
		var p struct {
			ModelName     string   `json:"modelName"`
			InOrderFields []string `json:"inOrderFields"`
		}
		_ = json.Unmarshal(req.Params, &p)
		s.Models[p.ModelName] = p.InOrderFields
		reply(w, map[string]any{"name": p.ModelName}, "")
	default:
		reply(w, nil, "unsupported action")
	}
}

func (s *AnkiServer) addNote(note map[string]any) (int64, string) {
	model, _ := note["modelName"].(string)
	names, ok := s.Models[model]
	if !ok {
		return 0, "model was not found: " + model
	}
	if s.RejectModels[model] {
		return 0, "cannot create note because it is empty"
	}
	var first string
	if fields, ok := note["fields"].(map[string]any); ok && len(names) > 0 {
		first, _ = fields[names[0]].(string)
	}
	if s.existing[model][strings.TrimSpace(first)] {
		return 0, "cannot create note because it is a duplicate"
	}
	s.markExisting(model, first)
	s.nextID++
	note["id"] = s.nextID
	s.Notes = append(s.Notes, note)
	return s.nextID, ""
}

func (s *AnkiServer) notesInfo() []map[string]any {
	out := make([]map[string]any, 0, len(s.Notes))
	for _, n := range s.Notes {
		fields := map[string]any{}
		model, _ := n["modelName"].(string)
		values, _ := n["fields"].(map[string]any)
		for i, name := range s.Models[model] {
			fields[name] = map[string]any{"value": values[name], "order": i}
		}
		out = append(out, map[string]any{
			"noteId":    n["id"],
			"modelName": model,
			"tags":      n["tags"],
			"fields":    fields,
		})
	}
	return out
}

func reply(w http.ResponseWriter, result any, errMsg string) {
	resp := map[string]any{"result": result, "error": nil}
	if errMsg != "" {
		resp["error"] = errMsg
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
