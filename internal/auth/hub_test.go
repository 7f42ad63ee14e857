package auth

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestHub_PublishIsScopedToSession(t *testing.T) {
	h := newHub()
	a, b := &recorder{}, &recorder{}
	defer h.subscribe("a", a.record)()
	defer h.subscribe("b", b.record)()

	h.publish("a", ChangeEvent{Kind: EventSignedOut})

	assert.Len(t, a.all(), 1)
	assert.Empty(t, b.all())
}

func TestHub_NoDeliveryAfterUnsubscribe(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHub()
	var calls, afterClose atomic.Int64
	var closed atomic.Bool

	unsubscribe := h.subscribe("s", func(ChangeEvent) {
		calls.Add(1)
		if closed.Load() {
			afterClose.Add(1)
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				h.publish("s", ChangeEvent{Kind: EventTokenRefreshed})
			}
		}()
	}

	unsubscribe()
	closed.Store(true)
	wg.Wait()

	assert.Zero(t, afterClose.Load(), "listener ran after unsubscribe returned")
	assert.Equal(t, 0, h.count("s"))
}
