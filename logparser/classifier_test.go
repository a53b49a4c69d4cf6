package logparser

import "testing"

func entryWith(status string, requestTime *float64) *Entry {
	return &Entry{
		ClientAddr:  "192.168.1.1",
		Timestamp:   "25/Dec/2023:10:00:00 +0000",
		Method:      "GET",
		URI:         "/server1",
		Route:       "/server1",
		Status:      status,
		BytesSent:   100,
		RequestTime: requestTime,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestClassifyRateLimit(t *testing.T) {
	ev := Classify(entryWith("429", nil))
	if !ev.RateLimited {
		t.Error("Expected 429 to be classified as rate limited")
	}
	if ev.Timeout != TimeoutNone {
		t.Errorf("Expected no timeout for 429, got %v", ev.Timeout)
	}

	for _, status := range []string{"200", "404", "500", "503"} {
		if Classify(entryWith(status, nil)).RateLimited {
			t.Errorf("Expected %s not to be rate limited", status)
		}
	}
}

func TestClassifyTimeoutKinds(t *testing.T) {
	testCases := []struct {
		name        string
		status      string
		requestTime *float64
		expected    TimeoutKind
	}{
		{"gateway timeout", "504", nil, GatewayTimeout},
		{"request timeout", "408", nil, RequestTimeout},
		{"slow response", "200", floatPtr(650.5), ResponseTimeout},
		{"duration at threshold", "200", floatPtr(600.0), TimeoutNone},
		{"fast response", "200", floatPtr(0.5), TimeoutNone},
		{"no timing information", "200", nil, TimeoutNone},
	}

	for _, tc := range testCases {
		ev := Classify(entryWith(tc.status, tc.requestTime))
		if ev.Timeout != tc.expected {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.expected, ev.Timeout)
		}
	}
}

func TestClassifyTimeoutKindsAreMutuallyExclusive(t *testing.T) {
	// A 504 that also took 700s is a gateway timeout only; the status
	// rules outrank the duration rule.
	ev := Classify(entryWith("504", floatPtr(700)))
	if ev.Timeout != GatewayTimeout {
		t.Errorf("Expected gateway_timeout for 504 with slow response, got %v", ev.Timeout)
	}

	ev = Classify(entryWith("408", floatPtr(700)))
	if ev.Timeout != RequestTimeout {
		t.Errorf("Expected request_timeout for 408 with slow response, got %v", ev.Timeout)
	}
}

func TestClassifyRateLimitedTimeout(t *testing.T) {
	// The two signals are independent; a slow 429 carries both.
	ev := Classify(entryWith("429", floatPtr(700)))
	if !ev.RateLimited {
		t.Error("Expected slow 429 to stay rate limited")
	}
	if ev.Timeout != ResponseTimeout {
		t.Errorf("Expected response_timeout for slow 429, got %v", ev.Timeout)
	}
}

func TestTimeoutKindLabels(t *testing.T) {
	testCases := []struct {
		kind     TimeoutKind
		expected string
	}{
		{GatewayTimeout, "gateway_timeout"},
		{RequestTimeout, "request_timeout"},
		{ResponseTimeout, "response_timeout"},
		{TimeoutNone, ""},
	}

	for _, tc := range testCases {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("Expected label %q, got %q", tc.expected, got)
		}
	}
}
