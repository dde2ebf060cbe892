package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironvein/engine/internal/core/target"
)

func TestHelloEstablishesMutualContact(t *testing.T) {
	w, _ := newTestState(t)
	a, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	b, _ := w.CreateUnit("tank", 0, Cell{X: 7, Y: 7})

	require.Equal(t, RadioRoger, Transmit(w, a, RadioHello, nil, b.Self))
	assert.True(t, InContact(a, b), "one exchange makes contact mutual")
}

func TestHelloBusyRefused(t *testing.T) {
	w, _ := newTestState(t)
	a, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	b, _ := w.CreateUnit("tank", 0, Cell{X: 7, Y: 7})
	c, _ := w.CreateUnit("tank", 0, Cell{X: 9, Y: 9})

	require.Equal(t, RadioRoger, Transmit(w, a, RadioHello, nil, b.Self))
	assert.Equal(t, RadioCant, Transmit(w, c, RadioHello, nil, b.Self))
	assert.True(t, c.Contact.IsNone(), "a refused caller holds no contact")

	// Repeating Hello from the existing peer stays acknowledged.
	assert.Equal(t, RadioRoger, Transmit(w, a, RadioHello, nil, b.Self))
}

func TestOverOutIsSymmetric(t *testing.T) {
	w, _ := newTestState(t)
	a, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	b, _ := w.CreateUnit("tank", 0, Cell{X: 7, Y: 7})
	require.Equal(t, RadioRoger, Transmit(w, a, RadioHello, nil, b.Self))

	assert.Equal(t, RadioRoger, Transmit(w, a, RadioOverOut, nil, target.None))
	assert.True(t, a.Contact.IsNone())
	assert.True(t, b.Contact.IsNone())
}

func TestAreYouThere(t *testing.T) {
	w, _ := newTestState(t)
	a, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	b, _ := w.CreateUnit("tank", 0, Cell{X: 7, Y: 7})

	assert.Equal(t, RadioStatic, Transmit(w, a, RadioAreYouThere, nil, b.Self),
		"liveness probe without contact gets static")

	require.Equal(t, RadioRoger, Transmit(w, a, RadioHello, nil, b.Self))
	assert.Equal(t, RadioRoger, Transmit(w, b, RadioAreYouThere, nil, a.Self))
}

func TestTransmitToNothing(t *testing.T) {
	w, _ := newTestState(t)
	a, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})

	stale := target.Build(target.KindUnit, 20)
	assert.Equal(t, RadioStatic, Transmit(w, a, RadioHello, nil, stale))
	assert.True(t, a.Contact.IsNone())
}

func TestDefaultProtocolIgnoresUnknown(t *testing.T) {
	w, _ := newTestState(t)
	a, _ := w.CreateUnit("tank", 0, Cell{X: 5, Y: 5})
	b, _ := w.CreateUnit("tank", 0, Cell{X: 7, Y: 7})

	assert.Equal(t, RadioStatic, Transmit(w, a, RadioRunAway, nil, b.Self))
}
