package ebitenhost

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingTicker stops after limit ticks. It never draws, so no graphics
// driver is needed.
type countingTicker struct {
	ticks int
	limit int
	err   error
}

func (c *countingTicker) Tick() (bool, error) {
	if c.ticks >= c.limit {
		return false, nil
	}
	c.ticks++
	return true, c.err
}

func TestUpdateTicksOncePerCall(t *testing.T) {
	tk := &countingTicker{limit: 3}
	h := &Host{ticker: tk}

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Update())
	}
	assert.Equal(t, 3, tk.ticks)

	assert.ErrorIs(t, h.Update(), ebiten.Termination)
	assert.ErrorIs(t, h.Update(), ebiten.Termination, "termination is sticky")
	assert.Equal(t, 3, tk.ticks)
}

func TestUpdateSurvivesTickErrors(t *testing.T) {
	tk := &countingTicker{limit: 2, err: errors.New("draw failed")}
	h := &Host{ticker: tk, log: zap.NewNop()}

	require.NoError(t, h.Update())
	require.NoError(t, h.Update())
	assert.ErrorIs(t, h.Update(), ebiten.Termination)
}

func TestSinkOutsideTick(t *testing.T) {
	h := &Host{}

	assert.ErrorIs(t, h.DrawBackground(), errNoScreen)
	assert.ErrorIs(t, h.Present(), errNoScreen)
	assert.ErrorIs(t, h.Clear(), errNoScreen)
}
