package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is where the AnkiConnect add-on listens by default.
const DefaultURL = "http://127.0.0.1:8765"

const apiVersion = 6

// Note types tried in order by AddNote before any other installed type.
const (
	ModelBasic        = "Basic"
	ModelBasicChinese = "基础"
	ModelCloze        = "Cloze"
)

// ErrUnreachable is returned when the AnkiConnect endpoint cannot be
// reached, typically because Anki is not running.
var ErrUnreachable = errors.New("anki is not reachable")

// ErrNoUsableModel is returned when no note type accepted a note.
var ErrNoUsableModel = errors.New("no note type accepted the note")

// ErrDuplicateNote matches AnkiConnect errors about a note whose first
// field already exists in the collection.
var ErrDuplicateNote = errors.New("note already exists in anki")

// APIError is an error reported by AnkiConnect itself.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("AnkiConnect %s: %s", e.Action, e.Message)
}

// Is reports duplicate note errors as ErrDuplicateNote.
func (e *APIError) Is(target error) bool {
	return target == ErrDuplicateNote && strings.Contains(strings.ToLower(e.Message), "duplicate")
}

// Client talks to the AnkiConnect add-on.
type Client struct {
	url        string
	key        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client. An empty url selects DefaultURL; key may be
// empty when the add-on has no API key configured.
func NewClient(url, key string, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		key:        key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("component", "ankiconnect"),
	}
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string { return c.url }

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Key     string `json:"key,omitempty"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke calls action and decodes the result into out, which may be nil.
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{Action: action, Version: apiVersion, Key: c.key, Params: params})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AnkiConnect %s: unexpected status %d", action, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	if r.Error != nil {
		return &APIError{Action: action, Message: *r.Error}
	}
	if out == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", action, err)
	}
	return nil
}

// Version returns the AnkiConnect API version. It doubles as a
// connectivity check.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	err := c.invoke(ctx, "version", nil, &v)
	return v, err
}

// DeckNames lists all decks.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var decks []string
	err := c.invoke(ctx, "deckNames", nil, &decks)
	return decks, err
}

// CreateDeck creates a deck and returns its id. Creating an existing deck
// is not an error.
func (c *Client) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.invoke(ctx, "createDeck", map[string]string{"deck": name}, &id)
	return id, err
}

// EnsureDeck creates the deck unless it already exists.
func (c *Client) EnsureDeck(ctx context.Context, name string) error {
	decks, err := c.DeckNames(ctx)
	if err != nil {
		return err
	}
	for _, d := range decks {
		if d == name {
			return nil
		}
	}
	c.log.Info("creating deck", "deck", name)
	_, err = c.CreateDeck(ctx, name)
	return err
}

// ModelNames lists the installed note types.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var models []string
	err := c.invoke(ctx, "modelNames", nil, &models)
	return models, err
}

// ModelFieldNames lists the fields of a note type in order.
func (c *Client) ModelFieldNames(ctx context.Context, model string) ([]string, error) {
	var fields []string
	err := c.invoke(ctx, "modelFieldNames", map[string]string{"modelName": model}, &fields)
	return fields, err
}

// CreateBasicModel installs a two-field Basic note type.
func (c *Client) CreateBasicModel(ctx context.Context) error {
	params := map[string]any{
		"modelName":     ModelBasic,
		"inOrderFields": []string{"Front", "Back"},
		"css":           ".card { font-family: arial; font-size: 20px; text-align: center; color: black; background-color: white; }",
		"cardTemplates": []map[string]string{{
			"Name":  "Card 1",
			"Front": "{{Front}}",
			"Back":  `{{FrontSide}}<hr id="answer">{{Back}}`,
		}},
	}
	return c.invoke(ctx, "createModel", params, nil)
}

// Note is a note to add.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// AddNote adds a front/back note to deck and returns its id and the note
// type used. It tries Basic, then 基础 and Cloze when installed, then any
// other installed type with at least two fields. A duplicate rejection
// stops the search with ErrDuplicateNote.
func (c *Client) AddNote(ctx context.Context, deck, front, back string, tags []string) (int64, string, error) {
	models, err := c.ModelNames(ctx)
	if err != nil {
		return 0, "", err
	}

	var lastErr error
	for _, n := range c.candidateNotes(ctx, models, deck, front, back, tags) {
		var id int64
		err := c.invoke(ctx, "addNote", map[string]any{"note": n}, &id)
		if err == nil {
			c.log.Debug("note added", "model", n.ModelName, "id", id)
			return id, n.ModelName, nil
		}
		if errors.Is(err, ErrUnreachable) || errors.Is(err, ErrDuplicateNote) {
			return 0, "", err
		}
		c.log.Debug("note type rejected note", "model", n.ModelName, "error", err)
		lastErr = err
	}

	if lastErr != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrNoUsableModel, lastErr)
	}
	return 0, "", ErrNoUsableModel
}

func (c *Client) candidateNotes(ctx context.Context, models []string, deck, front, back string, tags []string) []Note {
	installed := make(map[string]bool, len(models))
	for _, m := range models {
		installed[m] = true
	}

	note := func(model string, fields map[string]string) Note {
		return Note{DeckName: deck, ModelName: model, Fields: fields, Tags: tags}
	}

	notes := []Note{note(ModelBasic, map[string]string{"Front": front, "Back": back})}
	if installed[ModelBasicChinese] {
		notes = append(notes, note(ModelBasicChinese, map[string]string{"正面": front, "背面": back}))
	}
	if installed[ModelCloze] {
		notes = append(notes, note(ModelCloze, map[string]string{"Text": front + "<br><br>" + back}))
	}

	for _, m := range models {
		if m == ModelBasic || m == ModelBasicChinese || m == ModelCloze {
			continue
		}
		fields, err := c.ModelFieldNames(ctx, m)
		if err != nil || len(fields) < 2 {
			continue
		}
		values := make(map[string]string, len(fields))
		for _, f := range fields[2:] {
			values[f] = ""
		}
		values[fields[0]] = front
		values[fields[1]] = back
		notes = append(notes, note(m, values))
	}
	return notes
}

// AddNotes adds Basic notes in one request. The returned slice has one
// entry per note; failed notes have a zero id.
func (c *Client) AddNotes(ctx context.Context, notes []Note) ([]int64, error) {
	var ids []*int64
	if err := c.invoke(ctx, "addNotes", map[string]any{"notes": notes}, &ids); err != nil {
		return nil, err
	}
	out := make([]int64, len(ids))
	for i, id := range ids {
		if id != nil {
			out[i] = *id
		}
	}
	return out, nil
}

// FindNotes returns the ids of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	err := c.invoke(ctx, "findNotes", map[string]string{"query": query}, &ids)
	return ids, err
}

// NoteInfo is a note as returned by notesInfo.
type NoteInfo struct {
	NoteID    int64                   `json:"noteId"`
	ModelName string                  `json:"modelName"`
	Tags      []string                `json:"tags"`
	Fields    map[string]NoteInfoField `json:"fields"`
}

// NoteInfoField is one field value of a note.
type NoteInfoField struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// NotesInfo returns details of the given notes.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]NoteInfo, error) {
	var notes []NoteInfo
	err := c.invoke(ctx, "notesInfo", map[string]any{"notes": ids}, &notes)
	return notes, err
}
