package emoji

import (
	"testing"

	"github.com/drakos74/envelope/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMapSide(t *testing.T) {
	assert.Equal(t, Recycling, MapSide(model.Buy))
	assert.Equal(t, Biohazard, MapSide(model.Sell))
	assert.Equal(t, Error, MapSide(model.NoSide))
}

func TestMapPosition(t *testing.T) {
	assert.Equal(t, Up, MapPosition(model.Long))
	assert.Equal(t, Down, MapPosition(model.Short))
	assert.Equal(t, Zero, MapPosition(""))
}

func TestMapToSign(t *testing.T) {
	type test struct {
		value float64
		emoji string
	}

	tests := map[string]test{
		"positive": {value: 1.5, emoji: DotFire},
		"negative": {value: -0.1, emoji: DotWater},
		"zero":     {value: 0, emoji: DotSnow},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.emoji, MapToSign(tt.value))
		})
	}
}

func TestMapOk(t *testing.T) {
	assert.Equal(t, Ok, MapOk(true))
	assert.Equal(t, Error, MapOk(false))
	assert.Equal(t, Open, MapOpen(true))
	assert.Equal(t, Close, MapOpen(false))
}
