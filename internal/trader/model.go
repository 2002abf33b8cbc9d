package trader

import (
	"fmt"

	"github.com/drakos74/envelope/internal/emoji"
	coinmath "github.com/drakos74/envelope/internal/math"
	"github.com/drakos74/envelope/internal/model"
)

// Stop is a stop-loss order sent in the pass.
// The order id is only set if the exchange accepted the order.
type Stop struct {
	Envelope float64    `json:"envelope"`
	Side     model.Side `json:"side"`
	Price    float64    `json:"price"`
	Amount   float64    `json:"amount"`
	OrderID  int64      `json:"order_id"`
	Error    string     `json:"error,omitempty"`
}

// Report is the outcome of a pass.
type Report struct {
	RunID          string          `json:"run_id"`
	Symbol         model.Symbol    `json:"symbol"`
	DryRun         bool            `json:"dry_run"`
	TrackerCreated bool            `json:"tracker_created"`
	Cancelled      []int64         `json:"cancelled"`
	Average        float64         `json:"average"`
	Close          float64         `json:"close"`
	Bands          []coinmath.Band `json:"bands"`
	Position       *model.Position `json:"position"`
	StopLossDone   []int64         `json:"stop_loss_cancelled"`
	StopLossFailed []int64         `json:"stop_loss_failed"`
	AccountSetup   bool            `json:"account_setup"`
	Balance        float64         `json:"balance"`
	MinAmount      float64         `json:"min_amount"`
	Stops          []Stop          `json:"stops"`
	Skipped        []float64       `json:"skipped"`
}

func newReport(runID string, symbol model.Symbol, dryRun bool) Report {
	return Report{
		RunID:          runID,
		Symbol:         symbol,
		DryRun:         dryRun,
		Cancelled:      make([]int64, 0),
		StopLossDone:   make([]int64, 0),
		StopLossFailed: make([]int64, 0),
		Stops:          make([]Stop, 0),
		Skipped:        make([]float64, 0),
	}
}

// Placed returns the stop orders the exchange accepted.
func (r Report) Placed() []Stop {
	stops := make([]Stop, 0)
	for _, s := range r.Stops {
		if s.OrderID > 0 {
			stops = append(stops, s)
		}
	}
	return stops
}

// Lines summarises the report in a few human readable lines.
func (r Report) Lines() []string {
	lines := make([]string, 0)
	if r.DryRun {
		lines = append(lines, "dry-run")
	}
	lines = append(lines, fmt.Sprintf("cancelled %d orders", len(r.Cancelled)))
	if r.Position != nil {
		lines = append(lines, fmt.Sprintf("%s %s position of %.2f contracts", emoji.MapPosition(r.Position.Side), r.Position.Side, r.Position.Size()))
	}
	lines = append(lines, fmt.Sprintf("average %.2f close %.2f", r.Average, r.Close))
	for _, b := range r.Bands {
		lines = append(lines, fmt.Sprintf("envelope %v low %s high %s", b.Envelope, coinmath.Format(b.Low), coinmath.Format(b.High)))
	}
	lines = append(lines, fmt.Sprintf("stop-loss cancelled %d failed %d", len(r.StopLossDone), len(r.StopLossFailed)))
	lines = append(lines, fmt.Sprintf("%s trading balance %.2f", emoji.Money, r.Balance))
	for _, s := range r.Stops {
		status := fmt.Sprintf("#%d", s.OrderID)
		if s.Error != "" {
			status = s.Error
		}
		lines = append(lines, fmt.Sprintf("%s %s stop %.2f x %.4f [%s]", emoji.MapSide(s.Side), s.Side, s.Price, s.Amount, status))
	}
	if len(r.Skipped) > 0 {
		lines = append(lines, fmt.Sprintf("%s skipped %d envelopes below min amount %v", emoji.Skip, len(r.Skipped), r.MinAmount))
	}
	return lines
}
