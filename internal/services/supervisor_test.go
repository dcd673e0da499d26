package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defilabs-io/wallet-scoring-service/internal/config"
	"github.com/defilabs-io/wallet-scoring-service/internal/types"
	"github.com/defilabs-io/wallet-scoring-service/testutil"
)

// fakeStream is an in-memory StreamClient. Once the queued messages are
// drained, Fetch blocks until the context is cancelled or a transport
// error is armed.
type fakeStream struct {
	mu sync.Mutex

	connectErr  error
	connectErrN int

	messages []kafka.Message
	fetchIdx int
	fetchErr error

	committed []kafka.Message
	successes [][]byte
	failures  [][]byte
}

// Connect fails while connectErr is set. A positive connectErrN limits
// the failures to that many attempts.
func (f *fakeStream) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr == nil {
		return nil
	}
	err := f.connectErr
	if f.connectErrN > 0 {
		f.connectErrN--
		if f.connectErrN == 0 {
			f.connectErr = nil
		}
	}
	return err
}

func (f *fakeStream) Fetch(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if f.fetchIdx < len(f.messages) {
		msg := f.messages[f.fetchIdx]
		f.fetchIdx++
		f.mu.Unlock()
		return msg, nil
	}
	err := f.fetchErr
	f.mu.Unlock()

	if err != nil {
		return kafka.Message{}, err
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeStream) Commit(ctx context.Context, msg kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msg)
	return nil
}

func (f *fakeStream) PublishSuccess(ctx context.Context, key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, value)
	return nil
}

func (f *fakeStream) PublishFailure(ctx context.Context, key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, value)
	return nil
}

func (f *fakeStream) Connected() bool { return true }
func (f *fakeStream) Close() error    { return nil }

func (f *fakeStream) snapshot() (committed int, successes, failures [][]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.committed), append([][]byte{}, f.successes...), append([][]byte{}, f.failures...)
}

func testConfig() *config.Config {
	return &config.Config{
		Supervisor: config.SupervisorConfig{
			MaxRetries:  5,
			BaseBackoff: 5 * time.Second,
		},
	}
}

func TestSupervisorExponentialBackoff(t *testing.T) {
	stream := &fakeStream{connectErr: types.NewTransportError("connect", assert.AnError)}
	svc := NewService(testConfig(), nil, stream)

	var mu sync.Mutex
	var delays []time.Duration
	svc.sleep = func(ctx context.Context, d time.Duration) bool {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return true
	}

	require.NoError(t, svc.Start(context.Background()))

	require.Eventually(t, func() bool {
		return svc.State() == types.StateFailed
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
		80 * time.Second,
	}, delays)
}

func TestSupervisorRecordFailureDoesNotStopWorker(t *testing.T) {
	good := testutil.BatchJSON(t, testutil.Batch("0xgood",
		testutil.Swap(0, testutil.Token("WETH", 1000), testutil.Token("USDC", 1000)),
	))
	bad := []byte(`{"wallet_address":"0xbad","data":[{"protocolType":"dexes","transactions":[{"action":"stake"}]}]}`)
	stream := &fakeStream{
		messages: []kafka.Message{
			{Value: bad},
			{Value: good},
		},
	}
	svc := NewService(testConfig(), nil, stream)

	require.NoError(t, svc.Start(context.Background()))

	require.Eventually(t, func() bool {
		committed, _, _ := stream.snapshot()
		return committed == 2
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, types.StateRunning, svc.State())

	_, successes, failures := stream.snapshot()
	require.Len(t, failures, 1)
	require.Len(t, successes, 1)

	var failure types.ScoreFailureMessage
	require.NoError(t, json.Unmarshal(failures[0], &failure))
	assert.Equal(t, "0xbad", failure.WalletAddress)
	assert.NotEmpty(t, failure.Error)
	assert.Equal(t, []types.CategoryResult{}, failure.Categories)

	var success types.ScoreSuccessMessage
	require.NoError(t, json.Unmarshal(successes[0], &success))
	assert.Equal(t, "0xgood", success.WalletAddress)
	require.Len(t, success.Categories, 2)
	assert.Equal(t, types.CategoryLiquidityProvision, success.Categories[0].Category)
	assert.Equal(t, types.CategoryTrading, success.Categories[1].Category)

	stats := svc.Stats()
	assert.Equal(t, uint64(1), stats.MessagesProcessed)
	assert.Equal(t, uint64(1), stats.MessagesFailed)

	svc.Stop()
	assert.Equal(t, types.StateStopped, svc.State())
}

func TestSupervisorStopFromRunning(t *testing.T) {
	stream := &fakeStream{}
	svc := NewService(testConfig(), nil, stream)

	require.NoError(t, svc.Start(context.Background()))
	require.Eventually(t, func() bool {
		return svc.State() == types.StateRunning
	}, 5*time.Second, 10*time.Millisecond)

	svc.Stop()
	assert.Equal(t, types.StateStopped, svc.State())

	// stopping an already stopped service is a no-op
	svc.Stop()
	assert.Equal(t, types.StateStopped, svc.State())
}

func TestSupervisorStopDuringBackoff(t *testing.T) {
	stream := &fakeStream{connectErr: types.NewTransportError("connect", assert.AnError)}
	cfg := testConfig()
	cfg.Supervisor.BaseBackoff = time.Hour
	svc := NewService(cfg, nil, stream)

	require.NoError(t, svc.Start(context.Background()))
	require.Eventually(t, func() bool {
		return svc.State() == types.StateRetrying
	}, 5*time.Second, 10*time.Millisecond)

	svc.Stop()
	assert.Equal(t, types.StateStopped, svc.State())
}

func TestSupervisorTransientFailureRecovers(t *testing.T) {
	stream := &fakeStream{
		connectErr:  types.NewTransportError("connect", assert.AnError),
		connectErrN: 2,
	}
	svc := NewService(testConfig(), nil, stream)
	svc.sleep = func(ctx context.Context, d time.Duration) bool { return true }

	require.NoError(t, svc.Start(context.Background()))

	require.Eventually(t, func() bool {
		return svc.State() == types.StateRunning
	}, 5*time.Second, 10*time.Millisecond)

	svc.Stop()
	assert.Equal(t, types.StateStopped, svc.State())
}

func TestSupervisorStartTwice(t *testing.T) {
	stream := &fakeStream{}
	svc := NewService(testConfig(), nil, stream)

	require.NoError(t, svc.Start(context.Background()))
	assert.Error(t, svc.Start(context.Background()))

	svc.Stop()
}

func TestSupervisorRestartAfterFailure(t *testing.T) {
	stream := &fakeStream{connectErr: types.NewTransportError("connect", assert.AnError)}
	cfg := testConfig()
	cfg.Supervisor.MaxRetries = 1
	svc := NewService(cfg, nil, stream)
	svc.sleep = func(ctx context.Context, d time.Duration) bool { return true }

	require.NoError(t, svc.Start(context.Background()))
	require.Eventually(t, func() bool {
		return svc.State() == types.StateFailed
	}, 5*time.Second, 10*time.Millisecond)

	// the failed worker already exited; restart brings up a fresh one
	stream.mu.Lock()
	stream.connectErr = nil
	stream.mu.Unlock()

	require.NoError(t, svc.Restart(context.Background()))
	require.Eventually(t, func() bool {
		return svc.State() == types.StateRunning
	}, 5*time.Second, 10*time.Millisecond)

	svc.Stop()
	assert.Equal(t, types.StateStopped, svc.State())
}
