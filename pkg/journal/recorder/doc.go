// Package recorder provides the async write path of the usage journal.
//
// Record hands an entry to a buffered channel and returns immediately;
// a background worker drains the channel into storage. When the buffer is
// full the entry is dropped and counted rather than blocking, and storage
// failures are logged and swallowed: the journal never affects request
// outcomes. Close drains whatever the buffer still holds.
package recorder
