package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// lookupClient is shared by the live external-lookup paths. Lookups are
// best-effort: every caller falls back to synthetic data on error.
var lookupClient = &http.Client{Timeout: 8 * time.Second}

func getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := lookupClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
