package quote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func profilePage(price string) string {
	return fmt.Sprintf(`<html><body>
		<h1>profile</h1>
		<span data-col="info.last_trade.PDrCotVal">%s</span>
	</body></html>`, price)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTGJUClientFetch(t *testing.T) {
	pages := map[string]string{
		"/profile/price_dollar_rl": profilePage("703,500"),
		"/profile/geram18":         profilePage("30,123,450"),
		"/profile/sekee":           profilePage("355,000,000"),
		"/profile/ons":             profilePage("2,412.7"),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, page)
	}))
	defer server.Close()

	client := NewTGJUClient(testLogger(), WithBaseURL(server.URL))
	ctx := context.Background()

	testCases := []struct {
		instrument Instrument
		expected   int64
	}{
		// Rial-quoted feeds are divided by ten.
		{instrument: InstrumentUSD, expected: 70_350},
		{instrument: InstrumentAU, expected: 3_012_345},
		{instrument: InstrumentGCHEMM, expected: 35_500_000},
		// The world ounce is used as-is, fraction truncated.
		{instrument: InstrumentXAU, expected: 2_412},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(string(tc.instrument), func(t *testing.T) {
			price, err := client.Fetch(ctx, tc.instrument)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if price != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, price)
			}
		})
	}
}

func TestTGJUClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile/price_dollar_rl":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/profile/geram18":
			_, _ = io.WriteString(w, "<html><body>no price here</body></html>")
		case "/profile/sekee":
			_, _ = io.WriteString(w, profilePage("not a number"))
		}
	}))
	defer server.Close()

	client := NewTGJUClient(testLogger(), WithBaseURL(server.URL))
	ctx := context.Background()

	testCases := []struct {
		name       string
		instrument Instrument
		kind       ErrorKind
	}{
		{name: "bad status", instrument: InstrumentUSD, kind: ErrorKindFetch},
		{name: "missing element", instrument: InstrumentAU, kind: ErrorKindParse},
		{name: "unparseable price", instrument: InstrumentGCHEMM, kind: ErrorKindParse},
		{name: "unknown instrument", instrument: Instrument("PLATINUM"), kind: ErrorKindUnsupported},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Fetch(ctx, tc.instrument)

			qe, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if qe.Kind != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, qe.Kind)
			}
			if qe.Instrument != tc.instrument {
				t.Fatalf("error must carry the failing instrument, got %q", qe.Instrument)
			}
		})
	}
}

func TestFetchAllCapturesPerInstrumentFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/profile/geram18" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, profilePage("1,000"))
	}))
	defer server.Close()

	client := NewTGJUClient(testLogger(), WithBaseURL(server.URL))

	results := FetchAll(context.Background(), client, InstrumentUSD, InstrumentAU)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if !results[0].OK() || results[0].Price != 100 {
		t.Fatalf("expected USD 100, got %+v", results[0])
	}
	if results[1].OK() {
		t.Fatalf("expected AU failure, got %+v", results[1])
	}
	if results[1].Err.Instrument != InstrumentAU {
		t.Fatalf("failure must be tagged with its instrument, got %+v", results[1].Err)
	}
}
