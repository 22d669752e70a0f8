package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/pkg/queue"
)

var (
	echoCalls atomic.Int32
	failCalls atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (echoJob) Name() string { return "test.echo" }
func (echoJob) Handle() error {
	echoCalls.Add(1)
	return nil
}

type failJob struct{}

func (failJob) Name() string { return "test.fail" }
func (failJob) Handle() error {
	failCalls.Add(1)
	return errors.New("always fails")
}

func init() {
	queue.Register("test.echo", func() queue.Job { return &echoJob{} })
	queue.Register("test.fail", func() queue.Job { return &failJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func TestDispatchAndProcess(t *testing.T) {
	before := echoCalls.Load()
	require.NoError(t, queue.Dispatch(&echoJob{Val: "hello"}))

	require.Eventually(t, func() bool {
		return echoCalls.Load() > before
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFailedJobLandsInFailedList(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	require.NoError(t, queue.Dispatch(&failJob{}))

	require.Eventually(t, func() bool {
		for _, f := range queue.FailedJobs() {
			if f.Job.Name() == "test.fail" {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
}
