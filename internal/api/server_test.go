package api

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kenburns/pkg/cache"
	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/observability"
	"github.com/matzehuels/kenburns/pkg/pipeline"
)

const planBody = `{"image_sizes":[{"width":1600,"height":900}],"width":800,"height":600,"transitions":2,"duration_ms":500,"fps":4}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(fc, nil, logger)
	ts := httptest.NewServer(New(runner, logger, WithImageRoot(t.TempDir())))
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[healthResponse](t, resp)
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("missing request id: %q", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("malformed request id should be replaced")
	}
}

func TestCreateAndGetPlan(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/v1/plans", planBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get(CacheHeader); got != "miss" {
		t.Errorf("%s = %q, want miss", CacheHeader, got)
	}
	plan := decode[pipeline.Plan](t, resp)
	if len(plan.Transitions) != 2 || len(plan.Frames) != 4 {
		t.Fatalf("plan has %d transitions, %d frames; want 2, 4", len(plan.Transitions), len(plan.Frames))
	}
	if got := resp.Header.Get("Location"); got != "/v1/plans/"+plan.ID {
		t.Errorf("Location = %q", got)
	}

	again := do(t, http.MethodPost, ts.URL+"/v1/plans", planBody)
	if got := again.Header.Get(CacheHeader); got != "hit" {
		t.Errorf("second %s = %q, want hit", CacheHeader, got)
	}
	if cached := decode[pipeline.Plan](t, again); cached.ID != plan.ID {
		t.Errorf("cached plan id = %s, want %s", cached.ID, plan.ID)
	}

	got := do(t, http.MethodGet, ts.URL+"/v1/plans/"+plan.ID, "")
	if got.StatusCode != http.StatusOK {
		t.Fatalf("GET plan status = %d", got.StatusCode)
	}
	if fetched := decode[pipeline.Plan](t, got); fetched.Hash != plan.Hash {
		t.Errorf("fetched hash = %s, want %s", fetched.Hash, plan.Hash)
	}

	frame := do(t, http.MethodGet, ts.URL+"/v1/plans/"+plan.ID+"/frames/3", "")
	if frame.StatusCode != http.StatusOK {
		t.Fatalf("GET frame status = %d", frame.StatusCode)
	}
	fr := decode[frameResponse](t, frame)
	if fr.Frame.Index != 1 || fr.Transition.Index != 1 || fr.PlanID != plan.ID {
		t.Errorf("frame response = %+v", fr)
	}

	missing := do(t, http.MethodGet, ts.URL+"/v1/plans/"+plan.ID+"/frames/4", "")
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("out of range frame status = %d, want 404", missing.StatusCode)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed json", http.MethodPost, "/v1/plans", `{`, 400, "INVALID_INPUT"},
		{"unknown field", http.MethodPost, "/v1/plans", `{"colour":"red"}`, 400, "INVALID_INPUT"},
		{"no images", http.MethodPost, "/v1/plans", `{}`, 400, "INVALID_INPUT"},
		{"path traversal", http.MethodPost, "/v1/plans", `{"images":["../etc/passwd"]}`, 400, "INVALID_PATH"},
		{"absolute path", http.MethodPost, "/v1/plans", `{"images":["/etc/hostname"]}`, 400, "INVALID_PATH"},
		{"missing image", http.MethodPost, "/v1/plans", `{"images":["nonexistent/kenburns.png"]}`, 400, "FILE_NOT_FOUND"},
		{"mode mismatch", http.MethodPost, "/v1/plans", `{"image_sizes":[{"width":10,"height":10}],"variant":"random","mode":"fit-center"}`, 400, "INVALID_CONFIG"},
		{"unknown plan", http.MethodGet, "/v1/plans/" + uuid.NewString(), "", 404, "NOT_FOUND"},
		{"bad plan id", http.MethodGet, "/v1/plans/abc", "", 400, "INVALID_INPUT"},
		{"bad frame number", http.MethodGet, "/v1/plans/" + uuid.NewString() + "/frames/x", "", 400, "INVALID_INPUT"},
		{"unknown route", http.MethodGet, "/v2/nothing", "", 404, "NOT_FOUND"},
		{"wrong method", http.MethodDelete, "/v1/plans", "", 405, "METHOD_NOT_ALLOWED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decode[errorBody](t, resp); body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
		})
	}
}

func TestResolveImage(t *testing.T) {
	s := New(nil, log.New(io.Discard), WithImageRoot("/srv/images"))

	tests := []struct {
		in   string
		want string
		code string
	}{
		{in: "a.png", want: filepath.Join("/srv/images", "a.png")},
		{in: "trip/./b.jpg", want: filepath.Join("/srv/images", "trip", "b.jpg")},
		{in: "/etc/passwd", code: "INVALID_PATH"},
		{in: "../secret.png", code: "INVALID_PATH"},
		{in: "", code: "INVALID_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := s.resolveImage(tt.in)
			if tt.code != "" {
				if code := string(errors.GetCode(err)); code != tt.code {
					t.Fatalf("code = %q, want %q (err %v)", code, tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("resolveImage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/v1/transform?left=0&top=0&right=400&bottom=400&width=800&height=600&image_width=1600&image_height=900"

	tests := []struct {
		mode string
		want [4]float64
	}{
		{"", [4]float64{100, 0, 700, 600}},
		{"fit-center", [4]float64{100, 0, 700, 600}},
		{"center-crop", [4]float64{0, -100, 800, 700}},
	}
	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			url := base
			if tt.mode != "" {
				url += "&mode=" + tt.mode
			}
			resp := do(t, http.MethodGet, url, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			body := decode[transformResponse](t, resp)
			got := [4]float64{body.Drawn.Left, body.Drawn.Top, body.Drawn.Right, body.Drawn.Bottom}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("drawn = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTransformErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"missing param", "left=0&top=0&right=10&bottom=10&width=10&height=10&image_width=10", "INVALID_INPUT"},
		{"not a number", "left=zero&top=0&right=10&bottom=10&width=10&height=10&image_width=10&image_height=10", "INVALID_INPUT"},
		{"empty rect", "left=5&top=0&right=5&bottom=10&width=10&height=10&image_width=10&image_height=10", "INVALID_GEOMETRY"},
		{"bad mode", "left=0&top=0&right=10&bottom=10&width=10&height=10&image_width=10&image_height=10&mode=stretch", "INVALID_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/v1/transform?"+tt.query, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if body := decode[errorBody](t, resp); body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  int
	responses []string
	errors    int
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHooks) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, method+" "+path)
}

func (h *recordingHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
	srv := New(runner, log.New(io.Discard))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plans/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 || hooks.errors != 1 {
		t.Errorf("requests=%d errors=%d, want 1 and 1", hooks.requests, hooks.errors)
	}
	if len(hooks.responses) != 1 || hooks.responses[0] != "GET /v1/plans/{id}" {
		t.Errorf("responses = %v, want route pattern", hooks.responses)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(io.EOF); got != http.StatusInternalServerError {
		t.Errorf("statusFor(uncoded) = %d, want 500", got)
	}
}
