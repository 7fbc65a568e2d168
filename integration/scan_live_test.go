//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"misinfoguard/internal/client"
	"misinfoguard/internal/render"
	"misinfoguard/internal/scan"
)

func TestLiveScan(t *testing.T) {
	base := os.Getenv("MISINFOGUARD_API_URL")
	if base == "" {
		base = "http://localhost:8000"
	}
	api := client.NewHTTPClient(base, 5*time.Second, 5*1024*1024)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	if _, err := api.Health(ctx); err != nil {
		t.Skipf("skipping: backend not reachable at %s: %v", base, err)
		return
	}

	ctrl := scan.New(api)
	v, ok := ctrl.Scan(ctx, "Climate Change")
	if !ok {
		t.Fatal("scan rejected")
	}
	switch v := v.(type) {
	case scan.Results:
		r := render.New()
		for _, c := range v.Claims {
			card := r.Card(c)
			if card.Percent < 0 || card.Percent > 100 || len(card.Evidence) > render.MaxEvidence {
				t.Errorf("bad card %+v", card)
			}
		}
	case scan.Empty:
	case scan.Failed:
		t.Skipf("skipping: backend failed the scan: %s", v.Message)
	default:
		t.Fatalf("unexpected view %#v", v)
	}
}
