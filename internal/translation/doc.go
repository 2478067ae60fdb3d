// Package translation provides the translation sources used by the
// resolver: the MyMemory and Google web services and the OpenAI and Gemini
// chat models. Sources return the raw translated text; deciding whether
// an answer is usable is left to the resolver.
package translation
