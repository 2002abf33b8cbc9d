package account

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {

	dir := t.TempDir()
	path := filepath.Join(dir, "secret.json")
	err := os.WriteFile(path, []byte(`{
		"envelope": {"apiKey": "key", "secret": "secret"},
		"empty": {"apiKey": "key"}
	}`), 0600)
	require.NoError(t, err)

	type test struct {
		name   Name
		secret Secret
		err    error
	}

	tests := map[string]test{
		"found": {
			name:   Envelope,
			secret: Secret{Key: "key", Secret: "secret"},
		},
		"missing": {
			name: "other",
			err:  ErrNotFound,
		},
		"incomplete": {
			name: "empty",
			err:  ErrNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			secret, err := Load(path, tt.name, Binance)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.secret, secret)
		})
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ENVELOPE_BINANCE_KEY", "env-key")
	t.Setenv("ENVELOPE_BINANCE_SECRET", "env-secret")

	secret, err := Load(filepath.Join(t.TempDir(), "none.json"), Envelope, Binance)
	assert.NoError(t, err)
	assert.Equal(t, Secret{Key: "env-key", Secret: "env-secret"}, secret)

	_, err = Load(filepath.Join(t.TempDir(), "none.json"), "other", Binance)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0600))
	_, err := Load(path, Envelope, Binance)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
