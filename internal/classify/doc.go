// Package classify decides what kind of text the user entered: a Chinese
// word or sentence, or an English word, phrase or sentence. The category
// selects how the text is resolved.
package classify
