package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dentexpo/expo-manager/internal/config"
)

func TestCacheKeyStrategies(t *testing.T) {
	base := config.CacheConfig{Prefix: "expo"}

	key := func(strategy, method, route, query string) string {
		cfg := base
		cfg.KeyStrategy = strategy
		return CacheKey(cfg, method, route, query)
	}

	// route strategy ignores method and query.
	if key("route", "GET", "/v1/products", "q=a") != key("route", "POST", "/v1/products", "q=b") {
		t.Error("route strategy should ignore method and query")
	}
	// route_query distinguishes queries.
	if key("route_query", "GET", "/v1/products", "q=a") == key("route_query", "GET", "/v1/products", "q=b") {
		t.Error("route_query strategy should distinguish query strings")
	}
	// method_route distinguishes methods.
	if key("method_route", "GET", "/v1/products", "") == key("method_route", "HEAD", "/v1/products", "") {
		t.Error("method_route strategy should distinguish methods")
	}
	// Different routes never collide.
	if key("route", "GET", "/v1/products", "") == key("route", "GET", "/v1/exhibitions", "") {
		t.Error("different routes produced the same key")
	}
}

func TestCacheKeyCarriesPrefix(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "expo", KeyStrategy: "route_query"}
	if k := CacheKey(cfg, "GET", "/v1/products", ""); !strings.HasPrefix(k, "expo:") {
		t.Fatalf("key %q lacks prefix", k)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"ok":true}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatal(err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header lost: %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("not a payload")} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decode accepted %q", bs)
		}
	}
}
