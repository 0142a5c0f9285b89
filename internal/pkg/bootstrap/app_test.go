package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeComponent struct {
	name     string
	rec      *recorder
	startErr error
}

func (c *fakeComponent) Start(context.Context) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.rec.add("start " + c.name)
	return nil
}

func (c *fakeComponent) Stop(context.Context) { c.rec.add("stop " + c.name) }

func TestRun_StopsInReverseOrder(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, AppInfo{
			ServiceName: "test",
			Port:        0,
			Components:  []Component{&fakeComponent{name: "a", rec: rec}, &fakeComponent{name: "b", rec: rec}},
			Closers: []func(context.Context) error{
				func(context.Context) error { rec.add("close 1"); return nil },
				func(context.Context) error { rec.add("close 2"); return errors.New("ignored") },
			},
		})
	}()

	require.Eventually(t, func() bool { return len(rec.list()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a", "close 2", "close 1"}, rec.list())
}

func TestRun_StartFailureUnwindsStartedComponents(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("cannot start")

	err := Run(context.Background(), AppInfo{
		ServiceName: "test",
		Components: []Component{
			&fakeComponent{name: "a", rec: rec},
			&fakeComponent{name: "b", rec: rec, startErr: boom},
		},
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start a", "stop a"}, rec.list())
}
