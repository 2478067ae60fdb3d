package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"codeberg.org/snonux/lingocard/internal"
	_ "github.com/mattn/go-sqlite3"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// APKGWriter creates Anki package files (.apkg) with a two-field note type
// and no media.
type APKGWriter struct {
	deckName string
	deckID   int64
	modelID  int64
}

// NewAPKGWriter creates a writer for deckName.
func NewAPKGWriter(deckName string) *APKGWriter {
	if deckName == "" {
		deckName = DefaultDeck
	}
	// IDs based on the timestamp keep repeated imports apart.
	now := time.Now().UnixMilli()
	return &APKGWriter{
		deckName: deckName,
		deckID:   now,
		modelID:  now + 1,
	}
}

// Write creates the package at outputPath.
func (w *APKGWriter) Write(outputPath string, cards []Card) error {
	tempDir, err := os.MkdirTemp("", "lingocard_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := w.createDatabase(dbPath, cards); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	// No media, but Anki expects the mapping file.
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	if err := zipFiles(outputPath, tempDir, "collection.anki2", "media"); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (w *APKGWriter) createDatabase(dbPath string, cards []Card) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	if err := w.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := w.insertNotes(tx, cards); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

func deckJSON(id int64, name, desc string, now int64) map[string]any {
	return map[string]any{
		"id": id, "name": name, "desc": desc, "mod": now, "usn": 0,
		"collapsed": false, "browserCollapsed": false, "dyn": 0, "conf": 1,
		"newToday": []int{0, 0}, "revToday": []int{0, 0},
		"lrnToday": []int{0, 0}, "timeToday": []int{0, 0},
		"extendNew": 10, "extendRev": 50,
	}
}

func (w *APKGWriter) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()
	deckKey := strconv.FormatInt(w.deckID, 10)
	modelKey := strconv.FormatInt(w.modelID, 10)

	decks, _ := json.Marshal(map[string]any{
		"1":     deckJSON(1, "Default", "", now),
		deckKey: deckJSON(w.deckID, w.deckName, "Reading cards created by lingocard", now),
	})

	models, _ := json.Marshal(map[string]any{modelKey: w.noteType(now)})

	conf, _ := json.Marshal(map[string]any{
		"nextPos": 1, "estTimes": true, "activeDecks": []int64{1},
		"sortType": "noteFld", "sortBackwards": false, "addToCur": true,
		"curDeck": 1, "newSpread": 0, "dueCounts": true, "collapseTime": 1200,
		"timeLim": 0, "schedVer": 1, "curModel": modelKey, "dayLearnFirst": false,
	})

	dconf, _ := json.Marshal(map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "dyn": 0, "usn": 0, "mod": now,
			"timer": 0, "maxTaken": 60, "autoplay": true, "replayq": true,
			"new": map[string]any{
				"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500,
				"perDay": 20, "order": 1, "bury": true, "separate": true,
			},
			"lapse": map[string]any{
				"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0,
			},
			"rev": map[string]any{
				"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500,
				"ivlFct": 1, "bury": true, "minSpace": 1,
			},
		},
	})

	_, err := db.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, now, now*1000, now*1000, 11, 0, 0, 0,
		string(conf), string(models), string(decks), string(dconf), "{}")
	return err
}

func (w *APKGWriter) noteType(now int64) map[string]any {
	field := func(name string, ord int) map[string]any {
		return map[string]any{
			"name": name, "ord": ord, "sticky": false, "rtl": false,
			"font": "Arial", "size": 20, "media": []string{},
		}
	}
	return map[string]any{
		"id": w.modelID, "name": "lingocard (Basic)", "type": 0, "mod": now,
		"usn": -1, "sortf": 0, "did": w.deckID, "vers": []int{}, "tags": []string{},
		"req":       [][]any{{0, "all", []int{0}}},
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}",
		"latexPost": "\\end{document}",
		"flds":      []map[string]any{field("Front", 0), field("Back", 1)},
		"tmpls": []map[string]any{{
			"name": "Card 1", "ord": 0, "did": nil, "bqfmt": "", "bafmt": "",
			"qfmt": `<div class="front">{{Front}}</div>`,
			"afmt": `{{FrontSide}}<hr id="answer"><div class="back">{{Back}}</div>`,
		}},
		"css": `.card { font-family: Arial, sans-serif; font-size: 20px; text-align: center; color: #333; background-color: white; }
.front { font-size: 28px; font-weight: bold; color: #2c3e50; }
.back { text-align: left; }`,
	}
}

func (w *APKGWriter) insertNotes(tx *sql.Tx, cards []Card) error {
	now := time.Now()
	base := now.UnixMilli()

	for i, c := range cards {
		noteID := base + int64(i*2)
		cardID := noteID + 1

		tags := ""
		if len(c.Tags) > 0 {
			tags = " " + c.TagString() + " "
		}

		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID,
			internal.GenerateCardID(c.Input),
			w.modelID,
			now.Unix(),
			-1,
			tags,
			c.Front+"\x1f"+c.Back,
			c.Front,
			checksum(c.Front),
			0,
			"",
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		// New card: type, queue and the interval fields are zero; due is
		// the position in the new queue.
		_, err = tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			cardID, noteID, w.deckID, 0, now.Unix(), -1,
			0, 0, i+1, 0, 0, 0, 0, 0, 0, 0, 0, "")
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
	}
	return nil
}

// checksum is Anki's duplicate check value: the first 32 bits of the
// SHA-1 of the sort field without HTML.
func checksum(field string) int64 {
	sum := sha1.Sum([]byte(strings.TrimSpace(htmlTag.ReplaceAllString(field, ""))))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

func zipFiles(outputPath, dir string, names ...string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)
	for _, name := range names {
		if err := addToZip(archive, filepath.Join(dir, name), name); err != nil {
			archive.Close()
			return err
		}
	}
	if err := archive.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addToZip(archive *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}
