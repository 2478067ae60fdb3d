package anki

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/snonux/lingocard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *testutil.AnkiServer) {
	t.Helper()
	srv := testutil.NewAnkiServer(t)
	return NewClient(srv.URL, "", testutil.NewTestLogger()), srv
}

func TestClientVersion(t *testing.T) {
	c, _ := newTestClient(t)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, v)
}

func TestClientDefaultURL(t *testing.T) {
	c := NewClient("", "", testutil.NewTestLogger())
	assert.Equal(t, DefaultURL, c.URL())
}

func TestClientUnreachable(t *testing.T) {
	srv := testutil.NewAnkiServer(t)
	url := srv.URL
	srv.Close()

	c := NewClient(url, "", testutil.NewTestLogger())
	_, err := c.Version(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)

	_, _, err = c.AddNote(context.Background(), "Default", "a", "b", nil)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClientAPIKey(t *testing.T) {
	srv := testutil.NewAnkiServer(t)
	srv.Key = "secret"

	_, err := NewClient(srv.URL, "wrong", testutil.NewTestLogger()).DeckNames(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "deckNames", apiErr.Action)
	assert.Contains(t, apiErr.Message, "api key")

	decks, err := NewClient(srv.URL, "secret", testutil.NewTestLogger()).DeckNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Default"}, decks)
}

func TestEnsureDeck(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.EnsureDeck(ctx, "Default"))
	assert.NotContains(t, srv.Actions(), "createDeck")

	require.NoError(t, c.EnsureDeck(ctx, DefaultDeck))
	assert.Contains(t, srv.Actions(), "createDeck")

	decks, err := c.DeckNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, decks, DefaultDeck)
}

func TestAddNoteBasic(t *testing.T) {
	c, srv := newTestClient(t)

	id, model, err := c.AddNote(context.Background(), "Default", "hello", "你好", []string{"阅读"})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, ModelBasic, model)
	assert.Equal(t, 1, srv.NoteCount())
}

func TestAddNoteFallsBackToChineseBasic(t *testing.T) {
	c, srv := newTestClient(t)
	srv.RejectModels[ModelBasic] = true
	srv.Models[ModelBasicChinese] = []string{"正面", "背面"}

	_, model, err := c.AddNote(context.Background(), "Default", "hello", "你好", nil)
	require.NoError(t, err)
	assert.Equal(t, ModelBasicChinese, model)

	notes, err := c.NotesInfo(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "hello", notes[0].Fields["正面"].Value)
	assert.Equal(t, "你好", notes[0].Fields["背面"].Value)
}

func TestAddNoteFallsBackToAnyTwoFieldModel(t *testing.T) {
	c, srv := newTestClient(t)
	delete(srv.Models, ModelBasic)
	srv.Models["Vocab"] = []string{"Word", "Meaning", "Notes"}
	srv.Models["Single"] = []string{"Only"}

	_, model, err := c.AddNote(context.Background(), "Default", "hello", "你好", nil)
	require.NoError(t, err)
	assert.Equal(t, "Vocab", model)
}

func TestAddNoteNoUsableModel(t *testing.T) {
	c, srv := newTestClient(t)
	srv.RejectModels[ModelBasic] = true

	_, _, err := c.AddNote(context.Background(), "Default", "hello", "你好", nil)
	assert.ErrorIs(t, err, ErrNoUsableModel)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "empty")
	assert.Zero(t, srv.NoteCount())
}

func TestAddNoteDuplicateStopsFallback(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Models[ModelCloze] = []string{"Text", "Back Extra"}
	srv.Models["Vocab"] = []string{"Word", "Meaning"}
	srv.AddExisting(ModelBasic, "hello")

	_, _, err := c.AddNote(context.Background(), "Default", "hello", "你好", nil)
	assert.ErrorIs(t, err, ErrDuplicateNote)
	assert.NotErrorIs(t, err, ErrNoUsableModel)
	assert.Zero(t, srv.NoteCount())
	assert.Equal(t, 1, countActions(srv.Actions(), "addNote"))
}

func TestAddNoteDuplicateOfSameNote(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Models[ModelCloze] = []string{"Text", "Back Extra"}
	ctx := context.Background()

	_, _, err := c.AddNote(ctx, "Default", "hello", "你好", nil)
	require.NoError(t, err)

	_, _, err = c.AddNote(ctx, "Default", "hello", "你好", nil)
	assert.ErrorIs(t, err, ErrDuplicateNote)
	assert.Equal(t, 1, srv.NoteCount())
}

func TestAPIErrorIsDuplicate(t *testing.T) {
	assert.ErrorIs(t, &APIError{Action: "addNote", Message: "cannot create note because it is a duplicate"}, ErrDuplicateNote)
	assert.NotErrorIs(t, &APIError{Action: "addNote", Message: "cannot create note because it is empty"}, ErrDuplicateNote)
}

func countActions(actions []string, name string) int {
	n := 0
	for _, a := range actions {
		if a == name {
			n++
		}
	}
	return n
}

func TestAddNotes(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddExisting(ModelBasic, "two")

	notes := []Note{
		{DeckName: "Default", ModelName: ModelBasic, Fields: map[string]string{"Front": "one", "Back": "1"}},
		{DeckName: "Default", ModelName: ModelBasic, Fields: map[string]string{"Front": "two", "Back": "2"}},
		{DeckName: "Default", ModelName: ModelBasic, Fields: map[string]string{"Front": "three", "Back": "3"}},
	}
	ids, err := c.AddNotes(context.Background(), notes)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.NotZero(t, ids[0])
	assert.Zero(t, ids[1])
	assert.NotZero(t, ids[2])
	assert.Equal(t, 2, srv.NoteCount())
}

func TestFindNotes(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	id, _, err := c.AddNote(ctx, "Default", "hello", "你好", nil)
	require.NoError(t, err)

	ids, err := c.FindNotes(ctx, "deck:Default")
	require.NoError(t, err)
	assert.Equal(t, []int64{id}, ids)
}

func TestCreateBasicModel(t *testing.T) {
	c, srv := newTestClient(t)
	delete(srv.Models, ModelBasic)
	ctx := context.Background()

	require.NoError(t, c.CreateBasicModel(ctx))

	fields, err := c.ModelFieldNames(ctx, ModelBasic)
	require.NoError(t, err)
	assert.Equal(t, []string{"Front", "Back"}, fields)
}
