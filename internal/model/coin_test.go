package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbol(t *testing.T) {
	assert.Equal(t, "ETHUSDT", ETHUSDT.Pair())
	assert.Equal(t, "ETH-USDT", ETHUSDT.Slug())
	assert.Equal(t, "USDT", ETHUSDT.Quote())
	assert.Equal(t, "USDT", Symbol("ETHUSDT").Quote())
	assert.Equal(t, "BUSD", Symbol("ETH/BUSD").Quote())
}

func TestSide(t *testing.T) {

	type test struct {
		s    string
		side Side
		err  bool
	}

	tests := map[string]test{
		"buy":       {s: "buy", side: Buy},
		"sell-caps": {s: "SELL", side: Sell},
		"unknown":   {s: "hold", err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			side, err := ParseSide(tt.s)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.side, side)
		})
	}

	assert.Equal(t, Sell, Long.Close())
	assert.Equal(t, Buy, Short.Close())
}

func TestOrder_Create(t *testing.T) {
	_, err := NewOrder(ETHUSDT).Market().WithVolume(1).Create()
	assert.Error(t, err)

	_, err = NewOrder(ETHUSDT).Limit().WithSide(Buy).WithVolume(1).Create()
	assert.Error(t, err)

	order, err := NewOrder(ETHUSDT).Market().WithSide(Sell).Reduce(true).Create()
	assert.NoError(t, err)
	assert.True(t, order.ReduceOnly)
	assert.Equal(t, 0.0, order.Volume)
}

func TestTracker_JSON(t *testing.T) {
	bb, err := json.Marshal(NewTracker())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok_to_trade","last_side":null,"stop_loss_ids":[]}`, string(bb))

	var tracker Tracker
	err = json.Unmarshal([]byte(`{"status":"close_long","last_side":"long","stop_loss_ids":[12,13]}`), &tracker)
	require.NoError(t, err)
	assert.Equal(t, CloseLong, tracker.Status)
	require.NotNil(t, tracker.LastSide)
	assert.Equal(t, Long, *tracker.LastSide)
	assert.Equal(t, []int64{12, 13}, tracker.StopLossIDs)

	tracker.ClearStopLoss()
	assert.Empty(t, tracker.StopLossIDs)
}
