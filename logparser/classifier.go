package logparser

// upstreamReadTimeout mirrors the proxy_read_timeout configured on the
// nginx side. Requests slower than this are counted as response timeouts.
const upstreamReadTimeout = 600.0

// TimeoutKind identifies which timeout rule an entry matched, if any.
type TimeoutKind int

const (
	TimeoutNone TimeoutKind = iota
	GatewayTimeout
	RequestTimeout
	ResponseTimeout
)

// String returns the timeout_type label value for the kind.
func (k TimeoutKind) String() string {
	switch k {
	case GatewayTimeout:
		return "gateway_timeout"
	case RequestTimeout:
		return "request_timeout"
	case ResponseTimeout:
		return "response_timeout"
	default:
		return ""
	}
}

// Event carries the derived signals for one entry: at most one rate-limit
// hit and at most one timeout kind.
type Event struct {
	RateLimited bool
	Timeout     TimeoutKind
}

// Classify derives the rate-limit and timeout signals for an entry.
// The timeout rules are checked in priority order so the kinds stay
// mutually exclusive: a 504 with a 700s request time is a gateway timeout
// only, never also a response timeout.
func Classify(e *Entry) Event {
	ev := Event{RateLimited: e.Status == "429"}

	switch {
	case e.Status == "504":
		ev.Timeout = GatewayTimeout
	case e.Status == "408":
		ev.Timeout = RequestTimeout
	case e.RequestTime != nil && *e.RequestTime > upstreamReadTimeout:
		ev.Timeout = ResponseTimeout
	}

	return ev
}
