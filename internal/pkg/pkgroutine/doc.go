// Package pkgroutine runs background work with bounded concurrency.
//
// The Manager limits how many tasks run at once, collects their errors and
// turns panics into errors so a misbehaving worker does not crash the
// process. The application waits on it during shutdown.
package pkgroutine
