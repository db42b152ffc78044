package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/godilite/procurement-server/internal/config"
	"github.com/godilite/procurement-server/internal/evaluation"
	handler "github.com/godilite/procurement-server/internal/grpc"
	"github.com/godilite/procurement-server/internal/rates"
	"github.com/godilite/procurement-server/internal/service"
)

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()
	return lis.Addr().(*net.TCPAddr).Port
}

func testConfig(t *testing.T, ratesURL string) *config.Config {
	return &config.Config{
		AppEnv:               "test",
		DBDriver:             "sqlite3",
		DBPath:               ":memory:",
		RedisAddr:            "127.0.0.1:1",
		GRPCPort:             freePort(t),
		HTTPAddr:             "127.0.0.1:0",
		RatesURL:             ratesURL,
		RatesReference:       "TRY",
		RatesTimeout:         2 * time.Second,
		RatesRefreshSchedule: "@every 1h",
		RatesPruneSchedule:   "@daily",
		RatesSnapshotKeep:    48,
		CacheTTL:             time.Minute,
		DraftBackend:         config.DraftBackendSQLite,
		DraftTTL:             time.Hour,
		DraftPurgeSchedule:   "@every 30m",
		SeedQuestionBanks:    true,
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req, err := http.NewRequest(http.MethodPut, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAppEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/TRY", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"TRY","rates":{"TRY":1,"USD":0.03125,"EUR":0.025}}`))
	}))
	defer upstream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := NewApp(ctx, testConfig(t, upstream.URL), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Nil(t, a.cache, "redis is unreachable in tests")

	done := make(chan error, 1)
	go func() { done <- a.serve(ctx) }()

	base := "http://" + a.HTTPAddr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	conn, err := gogrpc.NewClient(a.GRPCAddr().String(), gogrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := handler.NewClient(conn)

	t.Run("seeded banks are authoritative", func(t *testing.T) {
		types, err := client.ListScoringTypes(ctx, &handler.ListScoringTypesRequest{})
		require.NoError(t, err)
		assert.Len(t, types.ScoringTypes, 3)

		bank, err := client.GetQuestionBank(ctx, &handler.GetQuestionBankRequest{ScoringType: "hizmet"})
		require.NoError(t, err)
		assert.Equal(t, evaluation.SourceDB, bank.Source)
		assert.Len(t, bank.Questions, 5)
	})

	t.Run("currency rates come from upstream", func(t *testing.T) {
		resp, err := http.Get(base + "/api/currency-rates")
		require.NoError(t, err)
		table := decodeBody[rates.RateTable](t, resp)
		assert.Equal(t, "TRY", table.Reference)
		assert.InDelta(t, 32.0, table.Rates["USD"], 1e-9)
		assert.InDelta(t, 40.0, table.Rates["EUR"], 1e-9)
	})

	t.Run("session submit is readable over gRPC", func(t *testing.T) {
		resp := postJSON(t, base+"/api/evaluation-sessions", service.StartSessionRequest{
			EvaluationHeader: service.EvaluationHeader{OrderID: "PO-1", SupplierID: "sup-1", SupplierName: "Acme", EvaluationDate: "2024-03-05"},
			ScoringType:      "hizmet",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		view := decodeBody[service.SessionView](t, resp)
		require.NotEmpty(t, view.ID)
		assert.Equal(t, evaluation.StepGeneral, view.Step)

		sessionURL := base + "/api/evaluation-sessions/" + view.ID
		resp = putJSON(t, sessionURL+"/answers/s-hizmet-a1", map[string]string{"value": "4"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
		resp = putJSON(t, sessionURL+"/answers/s-hizmet-a2", map[string]string{"value": "5"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		for view.Step != evaluation.StepSummary {
			resp = postJSON(t, sessionURL+"/next", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			view = decodeBody[service.SessionView](t, resp)
		}
		assert.True(t, view.CanSubmit)

		resp = postJSON(t, sessionURL+"/submit", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		result := decodeBody[service.SubmitResult](t, resp)
		assert.Equal(t, evaluation.NewScore(90), result.Score)

		got, err := client.GetEvaluation(ctx, &handler.GetEvaluationRequest{ID: result.ID})
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Evaluation.SupplierName)
		assert.Equal(t, evaluation.NewScore(90), got.Evaluation.Score)

		resp, err = http.Get(sessionURL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "submitted sessions are removed")
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("app did not shut down")
	}
}

func TestNewAppRequiresRedisForRedisDrafts(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.DraftBackend = config.DraftBackendRedis

	_, err := NewApp(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNewAppRejectsBadSchedule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"refresh schedule", func(c *config.Config) { c.RatesRefreshSchedule = "whenever" }},
		{"prune schedule", func(c *config.Config) { c.RatesPruneSchedule = "sometimes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, "http://127.0.0.1:1")
			tt.mutate(cfg)

			_, err := NewApp(context.Background(), cfg, zaptest.NewLogger(t))
			assert.Error(t, err)
			assertPortFree(t, cfg.GRPCPort)
		})
	}
}

func TestNewAppReleasesGRPCPortWhenHTTPListenFails(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.HTTPAddr = busy.Addr().String()

	_, err = NewApp(context.Background(), cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")

	assertPortFree(t, cfg.GRPCPort)
}

func assertPortFree(t *testing.T, port int) {
	t.Helper()
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	require.NoError(t, err, "gRPC port %d still held", port)
	_ = lis.Close()
}
