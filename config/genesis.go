// Package config holds the genesis document and ledger validation rules.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Genesis describes the initial state of a ledger: a name, a launch
// timestamp, and the initial allocations issued by the genesis block.
// Immutable after launch.
type Genesis struct {
	ChainName string `json:"chain_name"`
	Timestamp uint64 `json:"timestamp"`

	// Initial allocations (address -> value). Each allocation becomes
	// one output of the genesis issuance transaction.
	Alloc map[string]uint64 `json:"alloc"`
}

// Validate checks the genesis document for obvious mistakes.
func (g *Genesis) Validate() error {
	if g.ChainName == "" {
		return fmt.Errorf("chain_name is required")
	}
	for addr := range g.Alloc {
		if addr == "" {
			return fmt.Errorf("alloc contains an empty address")
		}
	}
	return nil
}

// LoadGenesis loads genesis configuration from a JSON file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genesis file: %w", err)
	}

	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing genesis file: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}

	return &g, nil
}

// Save writes the genesis configuration to a file.
func (g *Genesis) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding genesis: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing genesis file: %w", err)
	}
	return nil
}
