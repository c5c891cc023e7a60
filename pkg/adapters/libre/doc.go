// Package libre implements the translation adapter for a LibreTranslate
// instance. The backend is typically self-hosted, costs nothing per request,
// and may run without an API key.
package libre
