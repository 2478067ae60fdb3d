// Package processor contains the application logic of lingocard. It
// builds the source chains from configuration, classifies and resolves
// input, turns results into cards and imports them into Anki, falling
// back to card files when Anki is not running. It serves the command
// line and the desktop window alike.
package processor
