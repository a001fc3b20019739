// Package interpolate resolves {{ namespace:key }} placeholders against a
// layered context.
package interpolate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// ErrKeyNotFound reports that a provider does not know a key. Chain treats it
// as "try the next layer"; every other provider error aborts the lookup.
var ErrKeyNotFound = errors.New(messages.InterpolateKeyNotFound)

// MissingKeyError reports a placeholder key that no context layer resolves.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf(messages.InterpolateMissingKeyFmt, e.Key)
}

// Is lets errors.Is(err, ErrKeyNotFound) match missing keys too.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// Context resolves composite namespace:name keys.
type Context interface {
	Lookup(key string) (string, error)
}

// Provider resolves keys within the namespaces it recognises.
type Provider interface {
	Get(namespace string, name string) (string, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(namespace string, name string) (string, error)

// Get calls f.
func (f ProviderFunc) Get(namespace string, name string) (string, error) {
	return f(namespace, name)
}

// SplitKey splits a composite key at the first colon.
func SplitKey(key string) (namespace string, name string, ok bool) {
	namespace, name, ok = strings.Cut(key, ":")
	if !ok || namespace == "" {
		return "", "", false
	}
	return namespace, name, true
}

// NotFound wraps ErrKeyNotFound with the key that was requested.
func NotFound(namespace string, name string) error {
	return fmt.Errorf("%w: %s:%s", ErrKeyNotFound, namespace, name)
}

// Chain layers providers; the first provider that resolves a key wins.
type Chain struct {
	layers []Provider
}

// NewChain returns a chain that consults layers in order.
func NewChain(layers ...Provider) *Chain {
	return &Chain{layers: append([]Provider(nil), layers...)}
}

// Push inserts p as the highest-precedence layer.
func (c *Chain) Push(p Provider) {
	c.layers = append([]Provider{p}, c.layers...)
}

// Len returns the number of layers.
func (c *Chain) Len() int {
	return len(c.layers)
}

// Lookup resolves key through the layers.
func (c *Chain) Lookup(key string) (string, error) {
	namespace, name, ok := SplitKey(key)
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	for _, layer := range c.layers {
		value, err := layer.Get(namespace, name)
		if err == nil {
			return value, nil
		}
		if errors.Is(err, ErrKeyNotFound) {
			continue
		}
		return "", err
	}
	return "", &MissingKeyError{Key: key}
}

// Get lets a Chain be nested as a layer of another chain.
func (c *Chain) Get(namespace string, name string) (string, error) {
	value, err := c.Lookup(namespace + ":" + name)
	var missing *MissingKeyError
	if errors.As(err, &missing) {
		return "", NotFound(namespace, name)
	}
	return value, err
}

// Map is a static provider keyed by composite namespace:name strings.
type Map map[string]string

// Get returns the value stored under namespace:name.
func (m Map) Get(namespace string, name string) (string, error) {
	value, ok := m[namespace+":"+name]
	if !ok {
		return "", NotFound(namespace, name)
	}
	return value, nil
}

// Lookup lets a Map be used directly as a Context.
func (m Map) Lookup(key string) (string, error) {
	value, ok := m[key]
	if !ok {
		return "", &MissingKeyError{Key: key}
	}
	return value, nil
}

// Namespaced returns a Map exposing values as namespace:name for every entry.
func Namespaced(namespace string, values map[string]string) Map {
	out := make(Map, len(values))
	for name, value := range values {
		out[namespace+":"+name] = value
	}
	return out
}
