package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	bus := New()
	var order []int

	bus.On("x", func(payload any) { order = append(order, 1) })
	bus.On("x", func(payload any) { order = append(order, 2) })
	bus.On("x", func(payload any) { order = append(order, 3) })

	bus.Emit("x", nil)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestHandlerPanicDoesNotAbortDelivery(t *testing.T) {
	bus := New()
	var secondCalled bool

	bus.On("x", func(payload any) { panic("boom") })
	bus.On("x", func(payload any) { secondCalled = true })

	require.NotPanics(t, func() { bus.Emit("x", nil) })
	assert.True(t, secondCalled)
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	bus := New()
	var aCalled, bCalled bool

	unsubA := bus.On("x", func(payload any) { aCalled = true })
	bus.On("x", func(payload any) { bCalled = true })

	unsubA()
	bus.Emit("x", nil)

	assert.False(t, aCalled)
	assert.True(t, bCalled)
}

func TestUnsubscribeOutOfOrderDoesNotAffectOtherHandlers(t *testing.T) {
	bus := New()
	var aCalled, bCalled, cCalled bool

	unsubA := bus.On("x", func(payload any) { aCalled = true })
	unsubB := bus.On("x", func(payload any) { bCalled = true })
	bus.On("x", func(payload any) { cCalled = true })

	// Unsubscribing the earlier-registered handler first must not shift
	// the later-registered handlers' identities out from under them.
	unsubA()
	unsubB()
	bus.Emit("x", nil)

	assert.False(t, aCalled)
	assert.False(t, bCalled)
	assert.True(t, cCalled)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := New()
	var called bool

	unsub := bus.On("x", func(payload any) { called = true })
	unsub()
	unsub()
	bus.Emit("x", nil)

	assert.False(t, called)
}

func TestScopedEmitterPrefixesPluginID(t *testing.T) {
	bus := New()
	var gotEvent string
	var gotPayload any

	bus.On("thumb:resized", func(payload any) {
		gotEvent = "thumb:resized"
		gotPayload = payload
	})
	bus.On("thumb:other", func(payload any) {
		t.Fatal("should not be delivered to a different plugin-scoped event")
	})

	emit := bus.ScopedEmitter("thumb")
	emit("resized", 42)

	assert.Equal(t, "thumb:resized", gotEvent)
	assert.Equal(t, 42, gotPayload)
}

func TestScopedEmittersDoNotCollideAcrossPlugins(t *testing.T) {
	bus := New()
	var aCount, bCount int

	bus.On("pluginA:x", func(payload any) { aCount++ })
	bus.On("pluginB:x", func(payload any) { bCount++ })

	emitA := bus.ScopedEmitter("pluginA")
	emitB := bus.ScopedEmitter("pluginB")

	emitA("x", nil)

	assert.Equal(t, 1, aCount)
	assert.Equal(t, 0, bCount)

	emitB("x", nil)
	assert.Equal(t, 1, aCount)
	assert.Equal(t, 1, bCount)
}
