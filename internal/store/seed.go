package store

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/adminboard/apiserver/types"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Seed is a set of demonstration records inserted when a store starts.
type Seed struct {
	Users   []types.NewUser    `yaml:"users,omitempty"`
	Orders  []types.NewOrder   `yaml:"orders,omitempty"`
	Tasks   []types.NewTask    `yaml:"tasks,omitempty"`
	Events  []types.NewEvent   `yaml:"events,omitempty"`
	Metrics []types.NewMetrics `yaml:"metrics,omitempty"`
}

// DefaultSeed returns the built-in demonstration data: three orders, four
// tasks, two events and one metrics snapshot.
func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeedYAML)
}

// LoadSeedFile reads a seed from a YAML file.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed document. Unknown keys are rejected.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}

// Marshal encodes the seed as YAML.
func (s Seed) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Empty reports whether the seed holds no records.
func (s Seed) Empty() bool {
	return len(s.Users) == 0 && len(s.Orders) == 0 && len(s.Tasks) == 0 &&
		len(s.Events) == 0 && len(s.Metrics) == 0
}

// Apply inserts the seed records through the store's own create calls, so
// they consume ids from the regular sequences in declaration order.
func (s Seed) Apply(ctx context.Context, st Storage) error {
	for _, user := range s.Users {
		if _, err := st.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}
	for _, order := range s.Orders {
		if _, err := st.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("seed order: %w", err)
		}
	}
	for _, task := range s.Tasks {
		if _, err := st.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("seed task: %w", err)
		}
	}
	for _, event := range s.Events {
		if _, err := st.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
	}
	for _, m := range s.Metrics {
		if _, err := st.CreateMetrics(ctx, m); err != nil {
			return fmt.Errorf("seed metrics: %w", err)
		}
	}
	return nil
}
