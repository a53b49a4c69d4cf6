// Package logparser turns raw nginx access-log lines into structured
// entries and derives rate-limit and timeout events from them.
//
// Two log formats are supported: the enhanced format with upstream timing
// fields (rt= / uct= / uht= / urt=) and the basic combined format without
// them. Lines matching neither format are dropped by the caller; partial
// lines from a live log stream are expected and never treated as errors.
package logparser

// Entry is one parsed access-log line. An Entry is either fully populated
// or the parse fails entirely; there are no partial entries.
type Entry struct {
	ClientAddr  string   // remote address, the per-user grouping key
	Timestamp   string   // verbatim $time_local token, never parsed
	Method      string   // HTTP method token
	URI         string   // raw request target
	Route       string   // coarse route bucket derived from URI
	Status      string   // 3-digit status code, kept as text
	BytesSent   int64    // body bytes sent; 0 when the token is missing or garbage
	RequestTime *float64 // rt= seconds; nil when the line has no timing fields
}
