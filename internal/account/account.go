package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when no credentials exist for the account.
var ErrNotFound = errors.New("credentials not found")

// Name is the account name, used as the key into the secrets file.
type Name string

// Envelope is the default account name of the envelope strategy.
const Envelope Name = "envelope"

// ExchangeName is the exchange the credentials are issued by.
type ExchangeName string

// Binance is the binance exchange.
const Binance ExchangeName = "binance"

// Secret defines a security pair of a key and secret
type Secret struct {
	Key    string `json:"apiKey"`
	Secret string `json:"secret"`
}

// Load loads the secret for the given account from the secrets file.
// The file maps account names to secrets e.g. {"envelope": {"apiKey": "...", "secret": "..."}}.
// If the file does not exist the secret is looked up in the environment, see Format.
func Load(path string, name Name, exchange ExchangeName) (Secret, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Str("account", string(name)).Msg("no secrets file, using environment")
		return FromEnv(name, exchange)
	}
	if err != nil {
		return Secret{}, fmt.Errorf("could not read secrets file '%s': %w", path, err)
	}

	secrets := make(map[Name]Secret)
	err = json.Unmarshal(b, &secrets)
	if err != nil {
		return Secret{}, fmt.Errorf("could not unmarshal secrets file '%s': %w", path, err)
	}

	secret, ok := secrets[name]
	if !ok {
		return Secret{}, fmt.Errorf("no entry for '%s' in '%s': %w", name, path, ErrNotFound)
	}
	if err := secret.validate(); err != nil {
		return Secret{}, fmt.Errorf("invalid entry for '%s': %w", name, err)
	}
	return secret, nil
}

// FromEnv loads the secret from the environment variables defined by Format.
func FromEnv(name Name, exchange ExchangeName) (Secret, error) {
	format := NewFormat(name, exchange)
	secret := Secret{
		Key:    os.Getenv(format.Key()),
		Secret: os.Getenv(format.Secret()),
	}
	if err := secret.validate(); err != nil {
		return Secret{}, fmt.Errorf("could not load '%s' or '%s': %w", format.Key(), format.Secret(), err)
	}
	return secret, nil
}

func (s Secret) validate() error {
	if s.Key == "" {
		return fmt.Errorf("key is empty: %w", ErrNotFound)
	}
	if s.Secret == "" {
		return fmt.Errorf("secret is empty: %w", ErrNotFound)
	}
	return nil
}
