// Package k4 decodes and validates Kawai K4 System Exclusive bank dumps
package k4

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Wave number limits
const (
	MinWaveNumber = 1
	MaxWaveNumber = 256
	WaveCount     = MaxWaveNumber - MinWaveNumber + 1
)

// ErrOutOfRange is matched by every RangeError
var ErrOutOfRange = errors.New("out of range")

// RangeError reports a raw value outside a bounded type's range
type RangeError struct {
	Name  string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d %v (must be %d..%d)", e.Name, e.Value, ErrOutOfRange, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// WaveNumber identifies one of the 256 built-in K4 waveforms.
// The zero value is wave 1.
type WaveNumber struct {
	index uint8
}

// NewWaveNumber validates raw and returns the matching WaveNumber.
// Values outside 1..256 are rejected, never clamped.
func NewWaveNumber(raw int) (WaveNumber, error) {
	if raw < MinWaveNumber || raw > MaxWaveNumber {
		return WaveNumber{}, &RangeError{Name: "wave number", Value: raw, Min: MinWaveNumber, Max: MaxWaveNumber}
	}
	return WaveNumber{index: uint8(raw - MinWaveNumber)}, nil
}

// MustWaveNumber is like NewWaveNumber but panics on invalid input
func MustWaveNumber(raw int) WaveNumber {
	w, err := NewWaveNumber(raw)
	if err != nil {
		panic(err)
	}
	return w
}

// waveFromBytes combines the high bit and low seven bits stored in a patch
func waveFromBytes(high, low byte) WaveNumber {
	return WaveNumber{index: (high&0x01)<<7 | low&0x7F}
}

// bytes splits the wave into the high bit and low seven bits of a patch
func (w WaveNumber) bytes() (high, low byte) {
	return w.index >> 7, w.index & 0x7F
}

// Value returns the wave number in 1..256
func (w WaveNumber) Value() int {
	return int(w.index) + MinWaveNumber
}

func (w WaveNumber) String() string {
	return strconv.Itoa(w.Value())
}

// MarshalJSON encodes the wave as a plain number
func (w WaveNumber) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(w.Value()), 10), nil
}

// UnmarshalJSON decodes a plain number, rejecting out of range values
func (w *WaveNumber) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("wave number: %w", err)
	}
	v, err := NewWaveNumber(raw)
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// MarshalYAML encodes the wave as a plain number
func (w WaveNumber) MarshalYAML() (any, error) {
	return w.Value(), nil
}

// UnmarshalYAML decodes a plain number, rejecting out of range values
func (w *WaveNumber) UnmarshalYAML(node *yaml.Node) error {
	var raw int
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := NewWaveNumber(raw)
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// WaveNumbers yields every wave number in ascending order
func WaveNumbers() iter.Seq[WaveNumber] {
	return func(yield func(WaveNumber) bool) {
		for i := 0; i < WaveCount; i++ {
			if !yield(WaveNumber{index: uint8(i)}) {
				return
			}
		}
	}
}

// Wave pairs a wave number with its display name, if known
type Wave struct {
	Number WaveNumber `json:"number" yaml:"number"`
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
}

func (w Wave) String() string {
	if w.Name == "" {
		return w.Number.String()
	}
	return fmt.Sprintf("%d: %s", w.Number.Value(), w.Name)
}

// WaveNames maps wave numbers to display names
type WaveNames map[WaveNumber]string

// Wave returns the wave for n with its name filled in from the table
func (names WaveNames) Wave(n WaveNumber) Wave {
	return Wave{Number: n, Name: names[n]}
}

// LoadWaveNames reads a YAML mapping of wave number to name
func LoadWaveNames(r io.Reader) (WaveNames, error) {
	var raw map[int]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return WaveNames{}, nil
		}
		return nil, fmt.Errorf("failed to parse wave names: %w", err)
	}

	names := make(WaveNames, len(raw))
	for k, name := range raw {
		n, err := NewWaveNumber(k)
		if err != nil {
			return nil, fmt.Errorf("failed to parse wave names: %w", err)
		}
		names[n] = name
	}
	return names, nil
}
