package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/lingocard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCards() []Card {
	return []Card{
		{Input: "hello", Front: "hello", Back: "你好\n问候", Tags: []string{"阅读", TagWord}},
		{Input: "How are you?", Front: "How are you?", Back: "<b>翻译:</b>\t你好吗？", Tags: []string{TagSentence}, Degraded: true},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"tsv", "CSV", " json ", "apkg"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "lingocard_20240305_143000.txt", ExportFileName(FormatTSV, now))
	assert.Equal(t, "lingocard_20240305_143000.apkg", ExportFileName(FormatAPKG, now))
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, sampleCards()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "hello\t你好<br>问候\t阅读 单词", lines[0])
	assert.Equal(t, "How are you?\t<b>翻译:</b> 你好吗？\t句子", lines[1])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleCards()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Front", "Back", "Tags"}, records[0])
	assert.Equal(t, []string{"hello", "你好\n问候", "阅读 单词"}, records[1])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	require.NoError(t, WriteJSON(&buf, sampleCards(), now))

	var backup struct {
		ExportTime string `json:"export_time"`
		TotalCards int    `json:"total_cards"`
		Cards      []struct {
			Front    string `json:"front"`
			Degraded bool   `json:"degraded"`
		} `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &backup))
	assert.Equal(t, "2024-03-05 14:30:00", backup.ExportTime)
	assert.Equal(t, 2, backup.TotalCards)
	assert.Equal(t, "hello", backup.Cards[0].Front)
	assert.True(t, backup.Cards[1].Degraded)
	assert.Contains(t, buf.String(), "<b>翻译:</b>")
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.txt")

	require.NoError(t, Export(path, FormatTSV, sampleCards(), DefaultDeck))
	testutil.AssertFileContains(t, path, "hello\t")
}

func TestWriteCardFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	path, err := WriteCardFile(dir, sampleCards()[1], now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "How_are_you__20240305_143000.txt"), path)
	testutil.AssertFileContains(t, path, "How are you?\t")
}

func TestExportAPKG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.apkg")

	require.NoError(t, Export(path, FormatAPKG, sampleCards(), "Reading"))

	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	names := map[string]*zip.File{}
	for _, f := range r.File {
		names[f.Name] = f
	}
	require.Contains(t, names, "collection.anki2")
	require.Contains(t, names, "media")

	// Extract the collection and read it back.
	dbPath := filepath.Join(dir, "collection.anki2")
	rc, err := names["collection.anki2"].Open()
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	rc.Close()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dbPath, buf.Bytes(), 0644))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var notes, cards int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&notes))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cards))
	assert.Equal(t, 2, notes)
	assert.Equal(t, 2, cards)

	var flds, tags string
	require.NoError(t, db.QueryRow("SELECT flds, tags FROM notes ORDER BY id LIMIT 1").Scan(&flds, &tags))
	assert.Equal(t, "hello\x1f你好\n问候", flds)
	assert.Equal(t, " 阅读 单词 ", tags)

	var decks string
	require.NoError(t, db.QueryRow("SELECT decks FROM col").Scan(&decks))
	assert.Contains(t, decks, `"Reading"`)
}

func TestChecksumIgnoresMarkup(t *testing.T) {
	assert.Equal(t, checksum("hello"), checksum("<b>hello</b>"))
	assert.NotEqual(t, checksum("hello"), checksum("world"))
}
