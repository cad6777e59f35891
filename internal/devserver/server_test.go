package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notepad/internal/logging"
	"notepad/internal/types"
)

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return "n" + string(rune('0'+next))
	}
}

func serve(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListReturnsSeededNotes(t *testing.T) {
	srv := New()
	srv.Seed(types.Note{ID: "a", Title: "A"}, types.Note{ID: "b", Title: "B"})

	rec := serve(t, srv, http.MethodGet, "/notes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var notes []types.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &notes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "a" || notes[1].ID != "b" {
		t.Fatalf("unexpected notes %#v", notes)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	rec := serve(t, New(), http.MethodGet, "/notes", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestCreatePrependsWithGeneratedID(t *testing.T) {
	srv := New(WithIDGenerator(sequentialIDs()))
	srv.Seed(types.Note{ID: "old", Title: "Old"})

	rec := serve(t, srv, http.MethodPost, "/notes", `{"title":"Untitled","content":""}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var note types.Note
	if err := json.Unmarshal(rec.Body.Bytes(), &note); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if note.ID != "n1" || note.Title != "Untitled" {
		t.Fatalf("unexpected note %#v", note)
	}
	stored := srv.Notes()
	if len(stored) != 2 || stored[0].ID != "n1" || stored[1].ID != "old" {
		t.Fatalf("expected newest first, got %#v", stored)
	}
}

func TestCreateRejectsInvalidJSON(t *testing.T) {
	rec := serve(t, New(), http.MethodPost, "/notes", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"invalid json body"`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	srv := New()
	srv.Seed(types.Note{ID: "a", Title: "A", Content: "x"})

	rec := serve(t, srv, http.MethodPut, "/notes/a", `{"title":"A2","content":"y"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	stored := srv.Notes()
	if stored[0].Title != "A2" || stored[0].Content != "y" {
		t.Fatalf("unexpected stored note %#v", stored[0])
	}
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	srv := New()
	if rec := serve(t, srv, http.MethodPut, "/notes/missing", `{"title":"x"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("update: unexpected status %d", rec.Code)
	}
	if rec := serve(t, srv, http.MethodDelete, "/notes/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("delete: unexpected status %d", rec.Code)
	}
}

func TestDeleteRemovesNote(t *testing.T) {
	srv := New()
	srv.Seed(types.Note{ID: "a"}, types.Note{ID: "b"})

	rec := serve(t, srv, http.MethodDelete, "/notes/a", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	stored := srv.Notes()
	if len(stored) != 1 || stored[0].ID != "b" {
		t.Fatalf("unexpected notes %#v", stored)
	}
}

func TestFailNextQueuesPerMethod(t *testing.T) {
	srv := New()
	srv.FailNext("get", http.StatusServiceUnavailable)

	if rec := serve(t, srv, http.MethodPost, "/notes", `{}`); rec.Code != http.StatusCreated {
		t.Fatalf("post should not be affected, got %d", rec.Code)
	}
	rec := serve(t, srv, http.MethodGet, "/notes", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected injected failure, got %d", rec.Code)
	}
	if rec := serve(t, srv, http.MethodGet, "/notes", ""); rec.Code != http.StatusOK {
		t.Fatalf("failure should be consumed, got %d", rec.Code)
	}
}

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	rec := serve(t, New(), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("expected error body, got %q", rec.Body.String())
	}
}

func TestAccessLogRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	srv := New(WithLogger(logging.New(&buf, logging.Info)))
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("X-Request-ID", "req-1")
	srv.Handler().ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{"msg=http_request", "request_id=req-1", "method=GET", "path=/notes", "status=200"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line %q", want, line)
		}
	}
}

func TestAccessLogRecordsUnmatchedRequests(t *testing.T) {
	cases := []struct {
		method string
		path   string
		status string
	}{
		{method: http.MethodGet, path: "/nope", status: "status=404"},
		{method: http.MethodPatch, path: "/notes", status: "status=405"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		srv := New(WithLogger(logging.New(&buf, logging.Info)))
		srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, nil))

		line := buf.String()
		for _, want := range []string{"msg=http_request", "method=" + tc.method, "path=" + tc.path, tc.status} {
			if !strings.Contains(line, want) {
				t.Fatalf("expected %q in log line %q", want, line)
			}
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().ListenAndServe(ctx, addr) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/notes")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
