// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ReadHeader limits how long the preview server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the preview server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// RebuildDebounce coalesces bursts of content file events into one rebuild.
const RebuildDebounce = 250 * time.Millisecond

// CacheBusy is the SQLite busy timeout for the export cache.
const CacheBusy = 5 * time.Second
