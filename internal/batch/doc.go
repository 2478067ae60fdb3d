// Package batch reads batch files: one English or Chinese text per line,
// with '#' comments.
package batch
