package shutdown

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) { //nolint:paralleltest
	var order []string

	BeforeShutdown("first", func() { order = append(order, "first") })
	BeforeShutdown("second", func() { order = append(order, "second") })

	assert.Equal(t, 2, Pending())
	assert.Equal(t, 2, Run(t.Context()))
	assert.Equal(t, []string{"second", "first"}, order)

	assert.Zero(t, Pending())
	assert.Zero(t, Run(t.Context()))
}

func TestSetupHandler(t *testing.T) { //nolint:paralleltest
	ctx, stop := SetupHandler(t.Context())
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	called := make(chan struct{})

	BeforeShutdown("test", func() { close(called) })

	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not canceled")
	}

	select {
	case <-called:
	default:
		t.Fatal("hook did not run")
	}
}

func TestSetupHandler_Stop(t *testing.T) { //nolint:paralleltest
	ctx, stop := SetupHandler(t.Context())

	ran := false

	BeforeShutdown("not run", func() { ran = true })

	stop()

	<-ctx.Done()
	assert.False(t, ran)

	Run(t.Context())
}
