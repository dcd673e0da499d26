package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defilabs-io/wallet-scoring-service/internal/config"
	"github.com/defilabs-io/wallet-scoring-service/internal/db"
	"github.com/defilabs-io/wallet-scoring-service/internal/db/model"
	"github.com/defilabs-io/wallet-scoring-service/internal/services"
)

type stubStream struct{}

func (stubStream) Connect(ctx context.Context) error { return nil }
func (stubStream) Fetch(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}
func (stubStream) Commit(ctx context.Context, msg kafka.Message) error     { return nil }
func (stubStream) PublishSuccess(ctx context.Context, key, v []byte) error { return nil }
func (stubStream) PublishFailure(ctx context.Context, key, v []byte) error { return nil }
func (stubStream) Connected() bool                                         { return false }
func (stubStream) Close() error                                            { return nil }

type stubDb struct {
	scores map[string]*model.WalletScoreDocument
}

func (s *stubDb) Ping(ctx context.Context) error { return nil }

func (s *stubDb) SaveWalletScore(ctx context.Context, doc *model.WalletScoreDocument) error {
	if s.scores == nil {
		s.scores = make(map[string]*model.WalletScoreDocument)
	}
	s.scores[doc.WalletAddress] = doc
	return nil
}

func (s *stubDb) GetWalletScore(ctx context.Context, walletAddress string) (*model.WalletScoreDocument, error) {
	doc, ok := s.scores[walletAddress]
	if !ok {
		return nil, &db.NotFoundError{Key: walletAddress, Message: "wallet score not found"}
	}
	return doc, nil
}

func (s *stubDb) GetLatestScores(ctx context.Context, limit int64) ([]model.WalletScoreDocument, error) {
	var docs []model.WalletScoreDocument
	for _, doc := range s.scores {
		docs = append(docs, *doc)
	}
	return docs, nil
}

func testServer(t *testing.T, database db.DbInterface) *Server {
	t.Helper()
	cfg := &config.Config{
		Service: config.ServiceConfig{Name: "test-scoring", Version: "1.0.0"},
		Kafka: config.KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			InputTopic:    "in",
			SuccessTopic:  "ok",
			FailureTopic:  "err",
			ConsumerGroup: "grp",
		},
		Db: config.DbConfig{
			Address:  "mongodb://localhost:27017",
			Username: "svc",
			Password: "secret",
			DbName:   "ai_scoring",
		},
	}
	svc := services.NewService(cfg, database, stubStream{})
	return New(context.Background(), cfg, svc, database)
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleRoot(t *testing.T) {
	srv := testServer(t, &stubDb{})

	rec := doRequest(t, srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "test-scoring", body["service"])
	assert.Equal(t, "STOPPED", body["state"])
}

func TestHandleHealthUnavailableWhenStopped(t *testing.T) {
	srv := testServer(t, &stubDb{})

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := doRequest(t, srv, http.MethodGet, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, "STOPPED", body["supervisor_state"])
	}
}

func TestHandleStats(t *testing.T) {
	srv := testServer(t, &stubDb{})

	rec := doRequest(t, srv, http.MethodGet, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "messages_processed")
	assert.Contains(t, body, "messages_failed")
}

func TestHandleConfigMasksCredentials(t *testing.T) {
	srv := testServer(t, &stubDb{})

	rec := doRequest(t, srv, http.MethodGet, "/admin/config")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), "secret")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	dbSection := body["db"].(map[string]any)
	assert.Equal(t, "********", dbSection["username"])
	assert.Equal(t, "********", dbSection["password"])
}

func TestHandleWalletScore(t *testing.T) {
	database := &stubDb{}
	require.NoError(t, database.SaveWalletScore(context.Background(), &model.WalletScoreDocument{
		WalletAddress: "0xabc",
		ZScore:        "1.5",
	}))
	srv := testServer(t, database)

	t.Run("known wallet", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/scores/0xabc")
		require.Equal(t, http.StatusOK, rec.Code)

		var doc model.WalletScoreDocument
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "1.5", doc.ZScore)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/scores/0xnope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleLatestScoresLimitValidation(t *testing.T) {
	srv := testServer(t, &stubDb{})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/scores?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/scores?limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/scores?limit=10")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleRestart(t *testing.T) {
	srv := testServer(t, &stubDb{})

	rec := doRequest(t, srv, http.MethodPost, "/admin/restart")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "restarted", body["status"])

	srv.service.Stop()
}
