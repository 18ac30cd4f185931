// Package script loads deterministic reel draws from YAML files.
package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/MarkoPoloResearchLab/fruitmachine/pkg/machine"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScript marks a script file that cannot drive a machine.
var ErrInvalidScript = errors.New("invalid script")

// Script lists the symbols of a machine and the draws to replay, in order.
//
//	symbols: [A, B, C, D, E]
//	draws:
//	  - [A, A, A, A]
//	  - [A, B, C, B]
type Script struct {
	Symbols []string   `yaml:"symbols"`
	Draws   [][]string `yaml:"draws"`
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML script.
func Parse(raw []byte) (Script, error) {
	var parsed Script
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return Script{}, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if len(parsed.Draws) == 0 {
		return Script{}, fmt.Errorf("%w: no draws", ErrInvalidScript)
	}
	return parsed, nil
}

// Alphabet returns the script's symbols, or the default reel when none are listed.
func (script Script) Alphabet() (machine.Alphabet, error) {
	if len(script.Symbols) == 0 {
		return machine.DefaultAlphabet(), nil
	}
	return machine.NewAlphabet(script.Symbols...)
}

// Source validates every draw and returns a source replaying them in a loop.
func (script Script) Source() (*machine.SequenceSource, machine.Alphabet, error) {
	alphabet, err := script.Alphabet()
	if err != nil {
		return nil, machine.Alphabet{}, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	rounds := make([]machine.Slots, 0, len(script.Draws))
	for index, draw := range script.Draws {
		slots, err := machine.NewSlots(alphabet, draw)
		if err != nil {
			return nil, machine.Alphabet{}, fmt.Errorf("%w: draw %d: %w", ErrInvalidScript, index+1, err)
		}
		rounds = append(rounds, slots)
	}
	source, err := machine.NewSlotsSource(rounds...)
	if err != nil {
		return nil, machine.Alphabet{}, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	return source, alphabet, nil
}
