// Package googlev2 implements the translation adapter for the Google Cloud
// Translation v2 REST API.
package googlev2
