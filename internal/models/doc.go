// Package models lists the OpenAI chat models that can back the OpenAI
// dictionary and translation sources.
package models
