package logparser

import (
	"regexp"
	"strconv"
	"strings"
)

// Log format produced by the nginx log_format directive:
//
//	$remote_addr - $remote_user [$time_local] "$request" $status $body_bytes_sent
//	"$http_referer" "$http_user_agent" "$http_x_forwarded_for"
//	rt=$request_time uct="$upstream_connect_time" uht="$upstream_header_time" urt="$upstream_response_time"
//
// Older vhosts still log without the timing suffix, so both formats are tried.
var (
	enhancedFormat = regexp.MustCompile(`^(\S+) - (\S+) \[([^\]]+)\] "(\S+) (\S+) ([^"]+)" (\d+) (\S+) "([^"]*)" "([^"]*)" "([^"]*)" rt=([\d.]*) uct="([^"]*)" uht="([^"]*)" urt="([^"]*)"`)
	basicFormat    = regexp.MustCompile(`^(\S+) - (\S+) \[([^\]]+)\] "(\S+) (\S+) ([^"]+)" (\d+) (\S+) "([^"]*)" "([^"]*)" "([^"]*)"`)
)

// Parse parses one access-log line. It tries the enhanced format first and
// falls back to the basic one; the first match wins. The second return value
// is false when the line matches neither format, in which case the line
// should be dropped silently.
func Parse(line string) (*Entry, bool) {
	line = strings.TrimSpace(line)

	var requestTime *float64

	match := enhancedFormat.FindStringSubmatch(line)
	if match != nil {
		if rt := match[12]; rt != "" {
			if v, err := strconv.ParseFloat(rt, 64); err == nil {
				requestTime = &v
			}
		}
	} else {
		match = basicFormat.FindStringSubmatch(line)
		if match == nil {
			return nil, false
		}
	}

	uri := match[5]

	return &Entry{
		ClientAddr:  match[1],
		Timestamp:   match[3],
		Method:      match[4],
		URI:         uri,
		Route:       bucketRoute(uri),
		Status:      match[7],
		BytesSent:   parseBytes(match[8]),
		RequestTime: requestTime,
	}, true
}

// bucketRoute maps a request URI onto one of a fixed set of route buckets.
// The set is intentionally small and closed to bound label cardinality; this
// is not a path templating engine.
func bucketRoute(uri string) string {
	switch {
	case strings.HasPrefix(uri, "/server1"):
		return "/server1"
	case strings.HasPrefix(uri, "/server2"):
		return "/server2"
	default:
		return "/"
	}
}

// parseBytes reads the $body_bytes_sent token. nginx logs "-" when nothing
// was sent; anything unparseable counts as 0 rather than failing the line.
func parseBytes(token string) int64 {
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
