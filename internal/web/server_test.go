package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/quiz"
	"github.com/abhisek/protoquiz/internal/sessions"
	"github.com/abhisek/protoquiz/internal/store"
)

type harness struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	repo   store.EventRepo
	banks  *bank.Registry
}

func newHarness(t *testing.T, limiter Limiter) *harness {
	t.Helper()
	banks, err := bank.Builtin()
	require.NoError(t, err)

	st, err := store.Open("file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s, err := New(banks, sessions.New(time.Hour), st.EventRepo(), limiter, zerolog.Nop(), Options{})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &harness{t: t, srv: srv, client: client, repo: st.EventRepo(), banks: banks}
}

func (h *harness) do(method, path string, body io.Reader, contentType string) (*http.Response, []byte) {
	h.t.Helper()
	req, err := http.NewRequest(method, h.srv.URL+path, body)
	require.NoError(h.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, data
}

func (h *harness) action(bankID string, body string) (int, quiz.View, ErrorResponse) {
	h.t.Helper()
	resp, data := h.do(http.MethodPost, "/api/v1/quiz/"+bankID+"/actions", strings.NewReader(body), "application/json")
	var v quiz.View
	var e ErrorResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(h.t, json.Unmarshal(data, &v))
	} else {
		require.NoError(h.t, json.Unmarshal(data, &e), string(data))
	}
	return resp.StatusCode, v, e
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, nil)
	resp, body := h.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestListBanks(t *testing.T) {
	h := newHarness(t, nil)
	resp, body := h.do(http.MethodGet, "/api/v1/banks", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Banks []BankSummary `json:"banks"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Banks, 2)
	assert.Equal(t, "modbus-tcp", out.Banks[0].ID)
	assert.Equal(t, 8, out.Banks[0].Questions)
}

func TestGetQuiz_InitialView(t *testing.T) {
	h := newHarness(t, nil)
	resp, body := h.do(http.MethodGet, "/api/v1/quiz/modbus-rtu", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "in_progress", raw["phase"])
	q := raw["question"].(map[string]any)
	assert.Equal(t, float64(1), q["number"])
	assert.Equal(t, "disabled", q["previous"])
	assert.Equal(t, "disabled", q["next"])
	assert.Equal(t, "hidden", q["submit"])

	u, _ := url.Parse(h.srv.URL)
	assert.NotEmpty(t, h.client.Jar.Cookies(u), "session cookie issued")
}

func TestAPI_ErrorCodes(t *testing.T) {
	h := newHarness(t, nil)

	status, _, e := h.action("nope", `{"action":"next"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeUnknownBank, e.Error.Code)

	status, _, e = h.action("modbus-tcp", `{"action":"dance"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeBadRequest, e.Error.Code)

	status, _, e = h.action("modbus-tcp", `{"action":"select"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, e = h.action("modbus-tcp", `{"action":"select","option":7}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, CodeInvalidOptionIndex, e.Error.Code)
	assert.NotEmpty(t, e.Error.RequestID)

	status, _, e = h.action("modbus-tcp", `{"action":"previous"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeIllegalTransition, e.Error.Code)

	status, _, e = h.action("modbus-tcp", `{"action":"next"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, _, _ = h.action("modbus-tcp", `{"action":"select","option":0}`)
	require.Equal(t, http.StatusOK, status)
	status, _, e = h.action("modbus-tcp", `{"action":"select","option":1}`)
	assert.Equal(t, http.StatusConflict, status, "answer is locked")
	assert.Equal(t, CodeIllegalTransition, e.Error.Code)
}

func TestAPI_FullAttempt(t *testing.T) {
	h := newHarness(t, nil)
	b, err := h.banks.Get("modbus-rtu")
	require.NoError(t, err)

	for i, q := range b.Questions {
		status, v, _ := h.action(b.ID, `{"action":"select","option":`+strconv.Itoa(q.CorrectIndex)+`}`)
		require.Equal(t, http.StatusOK, status)
		require.True(t, v.Question.Correct)
		if i < len(b.Questions)-1 {
			status, _, _ = h.action(b.ID, `{"action":"next"}`)
			require.Equal(t, http.StatusOK, status)
		} else {
			assert.Equal(t, quiz.ControlEnabled, v.Question.Submit)
		}
	}

	status, v, _ := h.action(b.ID, `{"action":"submit"}`)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, v.Result)
	assert.Equal(t, quiz.PhaseCompleted, v.Phase)
	assert.Equal(t, b.Len(), v.Result.Score)
	assert.Equal(t, 100, v.Result.Percentage)

	status, _, _ = h.action(b.ID, `{"action":"next"}`)
	assert.Equal(t, http.StatusConflict, status)

	recs, err := h.repo.RecentAttempts(context.Background(), store.QueryOpts{Limit: 5})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, store.HostWeb, recs[0].Host)
	assert.Equal(t, b.ID, recs[0].BankID)

	status, v, _ = h.action(b.ID, `{"action":"retake"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, quiz.PhaseInProgress, v.Phase)
	assert.Equal(t, 1, v.Question.Number)

	_, metrics := h.do(http.MethodGet, "/metrics", nil, "")
	assert.Contains(t, string(metrics), `protoquiz_attempts_completed_total{bank="modbus-rtu",tier="top"} 1`)
	assert.Contains(t, string(metrics), `protoquiz_actions_total{action="next",bank="modbus-rtu",outcome="illegal_transition"} 1`)
	assert.Contains(t, string(metrics), "protoquiz_active_sessions 1")
}

func TestAPI_SessionsAreIsolated(t *testing.T) {
	h := newHarness(t, nil)
	status, _, _ := h.action("modbus-tcp", `{"action":"select","option":1}`)
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(h.srv.URL + "/api/v1/quiz/modbus-tcp")
	require.NoError(t, err)
	defer resp.Body.Close()
	var v quiz.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.False(t, v.Question.Answered, "cookie-less client gets a fresh engine")
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, NewMemoryLimiter(2, time.Minute))
	for i := 0; i < 2; i++ {
		status, _, _ := h.action("modbus-tcp", `{"action":"previous"}`)
		assert.Equal(t, http.StatusConflict, status)
	}
	status, _, e := h.action("modbus-tcp", `{"action":"previous"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, CodeRateLimited, e.Error.Code)

	resp, _ := h.do(http.MethodGet, "/api/v1/quiz/modbus-tcp", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "reads are not throttled")
}

func TestHTML_Flow(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.do(http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `href="/quiz/modbus-tcp"`)

	resp, body = h.do(http.MethodGet, "/quiz/modbus-tcp", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Question 1 of 8")

	resp, body = h.do(http.MethodPost, "/quiz/modbus-tcp/previous", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "not available right now")

	form := url.Values{"option": {"1"}}
	resp, _ = h.do(http.MethodPost, "/quiz/modbus-tcp/select", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/quiz/modbus-tcp", resp.Header.Get("Location"))

	_, body = h.do(http.MethodGet, "/quiz/modbus-tcp", nil, "")
	assert.Contains(t, string(body), "Correct!")
	assert.Contains(t, string(body), "/quiz/modbus-tcp/next")

	resp, _ = h.do(http.MethodGet, "/quiz/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.do(http.MethodPost, "/quiz/modbus-tcp/select", bytes.NewReader([]byte("option=x")), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMemoryLimiter_Window(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewMemoryLimiter(1, time.Second)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)
	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "new window")
}

func TestMemoryLimiter_CleanupZeroWindow(t *testing.T) {
	done := make(chan struct{})
	go func() {
		NewMemoryLimiter(1, 0).Cleanup(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cleanup with a zero window did not return")
	}
}

func TestClassify(t *testing.T) {
	status, code := classify(io.EOF)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, code)
}
