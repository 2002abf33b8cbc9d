package binance

import (
	"github.com/drakos74/envelope/internal/account"
)

const (
	Name account.ExchangeName = account.Binance
)

// Option configures the exchange wrapper.
type Option func(o *options)

type options struct {
	testnet bool
	api     api
}

// Testnet switches the wrapper to the futures testnet.
func Testnet(testnet bool) Option {
	return func(o *options) {
		o.testnet = testnet
	}
}

// withAPI replaces the sdk client e.g. for tests.
func withAPI(api api) Option {
	return func(o *options) {
		o.api = api
	}
}
