package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelforge/internal/logger"
	"modelforge/internal/model"
)

func server(t *testing.T, status int, body string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.NotEmpty(t, req.Prompt)
		assert.Equal(t, []any{"events", "kpis"}, req.Schema["required"])
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggest(t *testing.T) {
	var calls int32
	srv := server(t, http.StatusOK, `{"kpis":["ticket medio"],"events":["pedido criado","pedido pago"],"extra":[1]}`, &calls)
	c, err := New(logger.Nop(), Options{Endpoint: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	got, err := c.Suggest(context.Background(), "loja", PlanningShape)
	require.NoError(t, err)
	assert.Equal(t, Suggestions{"kpis": {"ticket medio"}, "events": {"pedido criado", "pedido pago"}}, got)
}

func TestSuggestWrappedAndMissingFields(t *testing.T) {
	var calls int32
	srv := server(t, http.StatusOK, `{"result":"{\"kpis\":[\"nps\"]}"}`, &calls)
	c, _ := New(nil, Options{Endpoint: srv.URL, APIKey: "k"})

	got, err := c.Suggest(context.Background(), "loja", PlanningShape)
	require.NoError(t, err)
	assert.Equal(t, []string{"nps"}, got["kpis"])
	assert.Equal(t, []string{}, got["events"])
}

func TestSuggestFailuresDoNotRetry(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"server error": {http.StatusBadGateway, `upstream down`},
		"not json":     {http.StatusOK, `sure! here are some kpis`},
		"wrong type":   {http.StatusOK, `{"kpis":"nps","events":[]}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var calls int32
			srv := server(t, tc.status, tc.body, &calls)
			c, _ := New(nil, Options{Endpoint: srv.URL, APIKey: "k"})

			got, err := c.Suggest(context.Background(), "loja", PlanningShape)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Nil(t, got)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestSuggestHTTPErrorDetail(t *testing.T) {
	var calls int32
	srv := server(t, http.StatusTooManyRequests, `slow down`, &calls)
	c, _ := New(nil, Options{Endpoint: srv.URL, APIKey: "k"})

	_, err := c.Suggest(context.Background(), "loja", PlanningShape)
	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusTooManyRequests, herr.StatusCode)
}

func TestSuggestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c, _ := New(nil, Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := c.Suggest(context.Background(), "loja", PlanningShape)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewAndEmptyPrompt(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	c, _ := New(nil, Options{Endpoint: "http://127.0.0.1:1"})
	_, err = c.Suggest(context.Background(), "  ", PlanningShape)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPlanningPrompt(t *testing.T) {
	p := PlanningPrompt(model.Context{SystemName: "Loja", UserProfiles: []model.Profile{{Name: "Gerente", Description: "aprova"}, {Name: "Cliente"}}},
		"vender mais", []string{"Pedido", "Cliente"})
	assert.Contains(t, p, "We are planning Loja.")
	assert.Contains(t, p, "Business goal: vender mais")
	assert.Contains(t, p, "- Gerente: aprova\n- Cliente\n")
	assert.Contains(t, p, "Known entities: Pedido, Cliente")

	assert.Contains(t, PlanningPrompt(model.Context{}, "", nil), "an information system")
}
