package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zinspect/zinspect/internal/status"
)

func TestLevelColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, LevelColor(status.Good))
	assert.Equal(t, ColorWarning, LevelColor(status.Warning))
	assert.Equal(t, ColorError, LevelColor(status.Critical))
	assert.Equal(t, ColorPrimary, LevelColor(""))
}

func TestLevelSymbol(t *testing.T) {
	assert.Equal(t, SymbolSuccess, LevelSymbol(status.Good))
	assert.Equal(t, SymbolWarning, LevelSymbol(status.Warning))
	assert.Equal(t, SymbolFail, LevelSymbol(status.Critical))
	assert.Equal(t, SymbolPending, LevelSymbol(""))
}

func TestRenderLevelWithoutColors(t *testing.T) {
	assert.Equal(t, SymbolFail, RenderLevel(status.Critical))
}
