package model

// Status defines the trading status recorded by the tracker.
type Status string

const (
	// OkToTrade is the default status, the strategy may place orders.
	OkToTrade Status = "ok_to_trade"
	// CloseLong marks a long position pending close.
	CloseLong Status = "close_long"
	// CloseShort marks a short position pending close.
	CloseShort Status = "close_short"
)

// Tracker defines the state of the strategy between runs.
// This struct is used to save the state in order for the process to keep track of its stop-loss orders.
type Tracker struct {
	Status      Status        `json:"status"`
	LastSide    *PositionSide `json:"last_side"`
	StopLossIDs []int64       `json:"stop_loss_ids"`
}

// NewTracker creates the default tracker state.
func NewTracker() Tracker {
	return Tracker{
		Status:      OkToTrade,
		StopLossIDs: []int64{},
	}
}

// ClearStopLoss drops all recorded stop-loss ids.
func (t *Tracker) ClearStopLoss() {
	t.StopLossIDs = []int64{}
}
