// Package dictionary implements the dictionary sources used by the
// resolver: a built-in table of common words and several online
// dictionaries. Every source returns a nil entry without error when the
// word is unknown.
package dictionary
