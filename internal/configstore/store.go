package configstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a named payload does not exist in the store
var ErrNotFound = errors.New("configuration payload not found")

// Store hands out named configuration payloads as opaque bytes
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// Encode renders a payload as standard base64 on a single line, the form
// step arguments carry it in.
func Encode(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}

// Decode reverses Encode
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return data, nil
}

// ReadEncoded reads a payload and returns it encoded
func ReadEncoded(ctx context.Context, store Store, name string) (string, error) {
	data, err := store.Read(ctx, name)
	if err != nil {
		return "", err
	}
	return Encode(data), nil
}

// MapStore is an in-memory Store keyed by payload name
type MapStore map[string][]byte

func (m MapStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("failed to read config %s: %w", name, ErrNotFound)
	}
	return data, nil
}
