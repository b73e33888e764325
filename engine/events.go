package engine

// UrlStatusEvent reports a status transition for a single URL. The Engine
// emits exactly one of these per worker report, under the status mutex.
type UrlStatusEvent struct {
	URL    string
	Status UrlStatus
}

// SearchResultEvent is the one-shot terminal verdict for a Start cycle.
type SearchResultEvent struct {
	Result SearchResult
}

// DiagnosticEvent carries a soft failure that does not change crawl
// outcome, handed to the consumer the same way URL status is. Only the
// robots.txt check emits these; errors from syncing or closing the
// disk-backed seen-set are discarded and produce no event.
type DiagnosticEvent struct {
	URL     string
	Message string
}

// Event is the discriminated union pushed onto the Engine's event channel.
// Exactly one of UrlStatus, SearchResult, or Diagnostic is non-nil.
type Event struct {
	UrlStatus    *UrlStatusEvent
	SearchResult *SearchResultEvent
	Diagnostic   *DiagnosticEvent
}
