// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/woozymasta/openrpcdoc"
)

const demoDocument = `{
  "openrpc": "1.0.0-rc1",
  "info": {"title": "Demo API", "version": "1.0.0"},
  "methods": [
    {
      "name": "demo_echo",
      "summary": "echoes text",
      "params": [
        {"name": "text", "required": true, "schema": {"type": "string"}}
      ],
      "result": {"name": "echo", "schema": {"$ref": "#/components/schemas/Echo"}},
      "examples": [
        {
          "name": "echo example",
          "params": [{"name": "text", "value": "hi"}],
          "result": {"name": "echo", "value": {"text": "hi"}}
        }
      ]
    }
  ],
  "components": {
    "schemas": {
      "Echo": {
        "type": "object",
        "required": ["text"],
        "properties": {"text": {"type": "string"}}
      }
    }
  }
}`

func newEmbeddedServer(t *testing.T) (*Server, *Collector, *prometheus.Registry) {
	t.Helper()

	holder, err := NewHolder("", openrpcdoc.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	reg := prometheus.NewRegistry()
	metrics := NewMetricsWithRegistry(reg)
	return New(holder, metrics, reg, zerolog.Nop()), metrics, reg
}

func writeDemoDocument(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "openrpc.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}

	return path
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerServesEmbeddedReference(t *testing.T) {
	t.Parallel()

	srv, _, _ := newEmbeddedServer(t)
	handler := srv.Handler()

	cases := []struct {
		target      string
		contentType string
		contains    string
	}{
		{target: "/", contentType: "text/html", contains: "<h3>account_put_deploy</h3>"},
		{target: "/reference.md", contentType: "text/markdown", contains: "### state_get_item"},
		{target: "/openrpc.json", contentType: "application/json", contains: `"Client API of Casper Node"`},
		{target: "/openrpc.yaml", contentType: "application/yaml", contains: "openrpc: 1.0.0-rc1"},
		{target: "/methods/", contentType: "application/json", contains: `"chain_get_block"`},
		{target: "/schemas/", contentType: "application/json", contains: `"CLType"`},
	}

	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			t.Parallel()

			rec := get(t, handler, tc.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}

			if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, tc.contentType) {
				t.Fatalf("content type = %q, want %q", got, tc.contentType)
			}

			if rec.Header().Get(RevisionHeader) == "" {
				t.Fatal("missing revision header")
			}

			if !strings.Contains(rec.Body.String(), tc.contains) {
				t.Fatalf("body does not contain %q", tc.contains)
			}
		})
	}
}

func TestServerMethodDetail(t *testing.T) {
	t.Parallel()

	srv, _, _ := newEmbeddedServer(t)
	rec := get(t, srv.Handler(), "/methods/state_get_item")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got methodResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(got.Params) != 3 || got.Params[2].Name != "path" || got.Params[2].Required {
		t.Fatalf("unexpected params: %+v", got.Params)
	}

	if len(got.Examples) != 1 {
		t.Fatalf("examples = %d, want 1", len(got.Examples))
	}

	if _, ok := got.Examples[0].Params["state_root_hash"]; !ok {
		t.Fatalf("example params = %v", got.Examples[0].Params)
	}
}

func TestServerNotFoundAndBadRequest(t *testing.T) {
	t.Parallel()

	srv, _, _ := newEmbeddedServer(t)
	handler := srv.Handler()

	cases := map[string]int{
		"/methods/no_such_method":                   http.StatusNotFound,
		"/methods/no_such_method/example":           http.StatusNotFound,
		"/schemas/NoSuchSchema":                     http.StatusNotFound,
		"/methods/state_get_item/example?mode=some": http.StatusBadRequest,
		"/schemas/Deploy/example?format=xml":        http.StatusBadRequest,
	}

	for target, want := range cases {
		if rec := get(t, handler, target); rec.Code != want {
			t.Errorf("%s: status = %d, want %d", target, rec.Code, want)
		}
	}
}

func TestServerMethodExampleFollowsDeclaredOrder(t *testing.T) {
	t.Parallel()

	srv, _, _ := newEmbeddedServer(t)
	rec := get(t, srv.Handler(), "/methods/state_get_item/example?mode=required")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	rootHash := strings.Index(body, `"state_root_hash"`)
	key := strings.Index(body, `"key"`)
	if rootHash < 0 || key < 0 || rootHash > key {
		t.Fatalf("unexpected params order:\n%s", body)
	}

	if strings.Contains(body, `"path"`) {
		t.Fatalf("required mode should omit optional path:\n%s", body)
	}

	yamlRec := get(t, srv.Handler(), "/methods/state_get_item/example?format=yaml")
	if got := yamlRec.Header().Get("Content-Type"); got != "application/yaml" {
		t.Fatalf("content type = %q", got)
	}
}

func TestServerCheckAndHealth(t *testing.T) {
	t.Parallel()

	srv, _, _ := newEmbeddedServer(t)

	var report openrpcdoc.Report
	rec := get(t, srv.Handler(), "/check")
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	if report.HasErrors() {
		t.Fatalf("embedded document has errors: %v", report.Errors())
	}

	var health healthResponse
	rec = get(t, srv.Handler(), "/health")
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}

	if health.Status != "ok" || health.Methods != 11 || health.Source != EmbeddedSource {
		t.Fatalf("unexpected health: %+v", health)
	}

	if health.Revision != rec.Header().Get(RevisionHeader) {
		t.Fatalf("health revision %q != header %q", health.Revision, rec.Header().Get(RevisionHeader))
	}
}

func TestServerMetrics(t *testing.T) {
	t.Parallel()

	srv, metrics, _ := newEmbeddedServer(t)
	handler := srv.Handler()

	get(t, handler, "/methods/chain_get_block")
	get(t, handler, "/methods/chain_get_block")

	got := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodGet, "/methods/{name}", "200"))
	if got != 2 {
		t.Fatalf("requests_total = %v, want 2", got)
	}

	rec := get(t, handler, "/metrics")
	if !strings.Contains(rec.Body.String(), "openrpcdoc_requests_total") {
		t.Fatal("metrics endpoint does not expose request counter")
	}

	if warnings := testutil.ToFloat64(metrics.CheckIssues.WithLabelValues("warning")); warnings == 0 {
		t.Fatal("check_issues warning gauge should count example conformance warnings")
	}
}

func TestHolderReloadKeepsPreviousRevisionOnFailure(t *testing.T) {
	t.Parallel()

	path := writeDemoDocument(t, t.TempDir(), demoDocument)
	holder, err := NewHolder(path, openrpcdoc.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	reg := prometheus.NewRegistry()
	metrics := NewMetricsWithRegistry(reg)
	srv := New(holder, metrics, reg, zerolog.Nop())

	first := holder.Get().Revision
	if !strings.Contains(holder.Get().Markdown, "### demo_echo") {
		t.Fatalf("unexpected markdown:\n%s", holder.Get().Markdown)
	}

	writeDemoDocument(t, filepath.Dir(path), strings.Replace(demoDocument, "Demo API", "Demo API v2", 1))
	if err := holder.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	second := holder.Get().Revision
	if second == first {
		t.Fatal("revision should change after reload")
	}

	writeDemoDocument(t, filepath.Dir(path), "{broken")
	if err := holder.Reload(); err == nil {
		t.Fatal("expected reload error")
	}

	if holder.Get().Revision != second {
		t.Fatal("failed reload must keep previous revision")
	}

	if got := testutil.ToFloat64(metrics.DocumentReloads); got != 1 {
		t.Fatalf("document_reloads_total = %v, want 1", got)
	}

	if got := testutil.ToFloat64(metrics.DocumentReloadErrors); got != 1 {
		t.Fatalf("document_reload_errors_total = %v, want 1", got)
	}

	rec := get(t, srv.Handler(), "/openrpc.json")
	if !strings.Contains(rec.Body.String(), "Demo API v2") {
		t.Fatalf("served document should be the last good revision:\n%s", rec.Body.String())
	}
}

func TestHolderWatchFileReloadsOnWrite(t *testing.T) {
	t.Parallel()

	path := writeDemoDocument(t, t.TempDir(), demoDocument)
	holder, err := NewHolder(path, openrpcdoc.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	if err := holder.WatchFile(); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	t.Cleanup(holder.Stop)

	changed := make(chan string, 4)
	holder.OnChange(func(snapshot *Snapshot) {
		select {
		case changed <- snapshot.Document.Info.Title:
		default:
		}
	})

	writeDemoDocument(t, filepath.Dir(path), strings.Replace(demoDocument, "Demo API", "Watched API", 1))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case title := <-changed:
			if title == "Watched API" {
				return
			}
		case <-deadline:
			t.Fatal("document was not reloaded after file write")
		}
	}
}

func TestHolderWatchFileCoalescesWriteBursts(t *testing.T) {
	t.Parallel()

	path := writeDemoDocument(t, t.TempDir(), demoDocument)
	holder, err := NewHolder(path, openrpcdoc.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	holder.debounce = 500 * time.Millisecond
	if err := holder.WatchFile(); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	t.Cleanup(holder.Stop)

	var reloads, failures atomic.Int32
	changed := make(chan string, 4)
	holder.OnChange(func(snapshot *Snapshot) {
		reloads.Add(1)
		changed <- snapshot.Document.Info.Title
	})
	holder.OnError(func(error) { failures.Add(1) })

	// A partial write followed by the complete file.
	writeDemoDocument(t, filepath.Dir(path), "{broken")
	writeDemoDocument(t, filepath.Dir(path), strings.Replace(demoDocument, "Demo API", "Burst API", 1))

	select {
	case title := <-changed:
		if title != "Burst API" {
			t.Fatalf("reloaded title = %q", title)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("document was not reloaded after write burst")
	}

	time.Sleep(2 * holder.debounce)
	if got := reloads.Load(); got != 1 {
		t.Fatalf("reloads = %d, want 1", got)
	}

	if got := failures.Load(); got != 0 {
		t.Fatalf("failed reloads = %d, want 0", got)
	}
}

func TestHolderWatchFileRejectsEmbedded(t *testing.T) {
	t.Parallel()

	holder, err := NewHolder("", openrpcdoc.Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder: %v", err)
	}

	if err := holder.WatchFile(); !errors.Is(err, ErrNoWatchFile) {
		t.Fatalf("WatchFile error = %v, want %v", err, ErrNoWatchFile)
	}

	holder.Stop()
	holder.Stop()
}

func TestServerServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	srv, _, _ := newEmbeddedServer(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
