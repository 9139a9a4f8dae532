package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

// fetchJSON GETs url and returns the body once it is known to be valid JSON.
// Non-200 responses become errors carrying a snippet of the body.
func fetchJSON(ctx context.Context, client *http.Client, source, url string) ([]byte, error) {
	span := trace.SpanFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "btc-signal-bot/1.0")

	resp, err := client.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API error %d: %s", source, resp.StatusCode, snippet(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s returned invalid JSON: %s", source, snippet(body))
	}
	return body, nil
}

func snippet(body []byte) string {
	if len(body) > 200 {
		return string(body[:200]) + "..."
	}
	return string(body)
}
