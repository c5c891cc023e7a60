// Package claude implements the translation adapter for the Anthropic
// messages API. Translation and language detection are driven by prompting;
// the quality hint selects between a fast and a strong model.
package claude
