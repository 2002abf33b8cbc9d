package emoji

import (
	"github.com/drakos74/envelope/internal/model"
)

// https://unicode.org/emoji/charts/full-emoji-list.html
const (
	Zero = "🥜"
	Down = "🐞"
	Up   = "🦠"

	DotSnow  = "❄"
	DotFire  = "🔥"
	DotWater = "💧"

	Biohazard = "😝"
	Recycling = "🤑"

	Error = "🚫"
	Ok    = "✅"

	Open  = "🔔"
	Close = "🔕"

	Money = "💰"
	Skip  = "🌶"
)

// MapOk maps the outcome of a run.
func MapOk(ok bool) string {
	if ok {
		return Ok
	}
	return Error
}

// MapOpen maps whether a position is open.
func MapOpen(s bool) string {
	if s {
		return Open
	}
	return Close
}

// MapSide maps the side of an order to an emoji
func MapSide(s model.Side) string {
	switch s {
	case model.Buy:
		return Recycling
	case model.Sell:
		return Biohazard
	}
	return Error
}

// MapPosition maps the side of a position according to the direction it profits from.
func MapPosition(p model.PositionSide) string {
	switch p {
	case model.Long:
		return Up
	case model.Short:
		return Down
	}
	return Zero
}

// MapToSign maps the given float value according to it's sign.
func MapToSign(f float64) string {
	emo := DotSnow
	if f > 0 {
		emo = DotFire
	} else if f < 0 {
		emo = DotWater
	}
	return emo
}
