package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"

	"ads-insights-assistant/config"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) RefreshAll(ctx context.Context) error {
	r.calls.Add(1)
	return nil
}

func TestNewScheduler_DisabledWithoutSchedule(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	c, err := NewScheduler(lc, &config.Config{}, nil)

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRefreshCron_RejectsInvalidSchedule(t *testing.T) {
	_, err := newRefreshCron("every now and then", &countingRefresher{})
	assert.Error(t, err)
}

func TestNewRefreshCron_AcceptsSecondsField(t *testing.T) {
	c, err := newRefreshCron("0 */15 * * * *", &countingRefresher{})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}

func TestNewRefreshCron_RunsRefresh(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &countingRefresher{}
	c, err := newRefreshCron("@every 1s", r)
	require.NoError(t, err)

	c.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	<-c.Stop().Done()
}
