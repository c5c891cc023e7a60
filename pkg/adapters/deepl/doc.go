// Package deepl implements the translation adapter for the DeepL v2 REST API.
package deepl
