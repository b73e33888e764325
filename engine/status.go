package engine

// UrlStatus is the fixed status taxonomy reported for a single URL over the
// course of one fetch. Process always precedes exactly one terminal status
// for a given URL, unless a Stop intervenes first.
type UrlStatus int

const (
	Process UrlStatus = iota
	Found
	NotFound
	ErrTimeout
	ErrConnectionRefused
	ErrRemoteHostClosed
	ErrHostNotFound
	ErrOperationCanceled
	ErrSslHandshake
	ErrTemporaryNetwork
	ErrNetworkSession
	ErrUnknownNetwork
	ErrProtocolUnknown
	ErrUnknown
)

var urlStatusNames = [...]string{
	"Process",
	"Found",
	"NotFound",
	"ErrTimeout",
	"ErrConnectionRefused",
	"ErrRemoteHostClosed",
	"ErrHostNotFound",
	"ErrOperationCanceled",
	"ErrSslHandshake",
	"ErrTemporaryNetwork",
	"ErrNetworkSession",
	"ErrUnknownNetwork",
	"ErrProtocolUnknown",
	"ErrUnknown",
}

// String renders the status the way it is shown in the per-URL table.
func (s UrlStatus) String() string {
	if s < 0 || int(s) >= len(urlStatusNames) {
		return "ErrUnknown"
	}
	return urlStatusNames[s]
}

// Terminal reports whether s ends the lifecycle of a URL (everything but
// Process).
func (s UrlStatus) Terminal() bool {
	return s != Process
}

// SearchResult is the one-shot terminal verdict for a Start cycle.
type SearchResult int

const (
	ResultFound SearchResult = iota
	ResultNotFound
)

func (r SearchResult) String() string {
	if r == ResultFound {
		return "Found"
	}
	return "NotFound"
}

// EngineState is the Engine's coarse lifecycle state.
type EngineState int

const (
	StateStop EngineState = iota
	StateProcess
	StatePause
)

func (s EngineState) String() string {
	switch s {
	case StateProcess:
		return "Process"
	case StatePause:
		return "Pause"
	default:
		return "Stop"
	}
}

// WorkerState is a single worker's lifecycle state. Transitions are
// monotone toward Stopped: once Stopped, a worker never returns to Running
// or Paused.
type WorkerState int

const (
	WorkerRunning WorkerState = iota
	WorkerPaused
	WorkerStopped
)
