// Package openai implements the translation adapter for OpenAI chat models.
// Translation and language detection are driven by prompting through the chat
// completions endpoint; the quality hint selects between a fast and a strong
// model.
package openai
