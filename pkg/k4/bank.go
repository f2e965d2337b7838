package k4

import (
	"errors"
	"fmt"

	"github.com/james-see/k4tool/pkg/sysex"
)

// Bank layout offsets, counted from the F0 start byte
const (
	BankDataSize = effectStart + EffectCount*EffectDataSize + 1

	singleStart = HeaderSize
	multiStart  = singleStart + SingleCount*SingleDataSize
	drumStart   = multiStart + MultiCount*MultiDataSize
	effectStart = drumStart + DrumDataSize
)

// Patch is any of the patch records stored in a bank
type Patch interface {
	sysex.Data
	Kind() Kind
}

// Bank is a complete K4 all patch data dump.
//
// Channel and several patch fields are 1-based, so the zero value does not
// encode to valid SysEx data. Create banks with NewBank or ParseBank.
type Bank struct {
	Channel  int                      `json:"channel" yaml:"channel"` // 1~16
	Locality Locality                 `json:"locality" yaml:"locality"`
	Singles  [SingleCount]SinglePatch `json:"singles" yaml:"singles"`
	Multis   [MultiCount]MultiPatch   `json:"multis" yaml:"multis"`
	Drum     DrumPatch                `json:"drum" yaml:"drum"`
	Effects  [EffectCount]EffectPatch `json:"effects" yaml:"effects"`
}

const initName = "INIT      "

// NewBank returns a bank on channel 1 filled with initialized patches
func NewBank() *Bank {
	b := &Bank{Channel: 1}
	for i := range b.Singles {
		p := &b.Singles[i]
		p.Name = initName
		p.Effect = 1
		for j := range p.Sources {
			p.Sources[j].KeyScalingCurve = 1
			p.Sources[j].VelocityCurve = 1
		}
		for j := range p.Filters {
			p.Filters[j].Resonance = 1
		}
	}
	for i := range b.Multis {
		p := &b.Multis[i]
		p.Name = initName
		p.Effect = 1
		for j := range p.Sections {
			p.Sections[j].ReceiveChannel = 1
		}
	}
	b.Drum.ReceiveChannel = 1
	return b
}

// ParseBank decodes a complete bank dump
func ParseBank(data []byte) (*Bank, error) {
	return sysex.Decode[Bank](data)
}

// DataSize implements sysex.Data
func (b *Bank) DataSize() int { return BankDataSize }

// Header returns the SysEx header the bank is encoded with
func (b *Bank) Header() Header {
	return Header{
		Channel:    byte(b.Channel - 1),
		Function:   AllPatchDataDump,
		Group:      SynthGroup,
		Machine:    MachineID,
		Substatus1: b.Locality.substatus(),
	}
}

// FromBytes implements sysex.Data
func (b *Bank) FromBytes(data []byte) error {
	if err := checkSize(data, BankDataSize); err != nil {
		return err
	}

	h, err := ParseHeader(data)
	if err != nil {
		return bankError(err)
	}
	if err := sysex.Validate(data); err != nil {
		return bankError(err)
	}
	if err := checkHeader(h); err != nil {
		return bankError(err)
	}

	var v Bank
	v.Channel = int(h.Channel) + 1
	if h.Substatus1 == External.substatus() {
		v.Locality = External
	}

	for i := range v.Singles {
		off := singleStart + i*SingleDataSize
		if err := decodePatch(&v.Singles[i], data, off, "single "+PatchLabel(i)); err != nil {
			return err
		}
	}
	for i := range v.Multis {
		off := multiStart + i*MultiDataSize
		if err := decodePatch(&v.Multis[i], data, off, "multi "+PatchLabel(i)); err != nil {
			return err
		}
	}
	if err := decodePatch(&v.Drum, data, drumStart, "drum"); err != nil {
		return err
	}
	for i := range v.Effects {
		off := effectStart + i*EffectDataSize
		if err := decodePatch(&v.Effects[i], data, off, fmt.Sprintf("effect %d", i+1)); err != nil {
			return err
		}
	}

	*b = v
	return nil
}

// ToBytes implements sysex.Data
func (b *Bank) ToBytes() []byte {
	payload := make([]byte, 0, BankDataSize-2)
	payload = append(payload, b.Header().Bytes()[1:]...)
	for _, p := range b.Patches() {
		payload = append(payload, p.ToBytes()...)
	}
	return sysex.Frame(payload)
}

// Patches returns every patch in the order they are stored
func (b *Bank) Patches() []Patch {
	patches := make([]Patch, 0, SingleCount+MultiCount+1+EffectCount)
	for i := range b.Singles {
		patches = append(patches, &b.Singles[i])
	}
	for i := range b.Multis {
		patches = append(patches, &b.Multis[i])
	}
	patches = append(patches, &b.Drum)
	for i := range b.Effects {
		patches = append(patches, &b.Effects[i])
	}
	return patches
}

// Single returns the single patch with the given label, e.g. "A-1"
func (b *Bank) Single(label string) (*SinglePatch, error) {
	i, err := ParsePatchLabel(label)
	if err != nil {
		return nil, err
	}
	return &b.Singles[i], nil
}

// Multi returns the multi patch with the given label
func (b *Bank) Multi(label string) (*MultiPatch, error) {
	i, err := ParsePatchLabel(label)
	if err != nil {
		return nil, err
	}
	return &b.Multis[i], nil
}

func checkHeader(h Header) error {
	switch {
	case h.Channel > 15:
		return &sysex.DecodeError{
			Cause:  sysex.ErrBadHeader,
			Field:  "channel",
			Offset: 2,
			Detail: fmt.Sprintf("value %d exceeds maximum 15", h.Channel),
		}
	case h.Function != AllPatchDataDump:
		return sysex.HeaderError("function", 3, byte(h.Function), byte(AllPatchDataDump))
	case h.Group != SynthGroup:
		return sysex.HeaderError("group", 4, h.Group, SynthGroup)
	case h.Machine != MachineID:
		return sysex.HeaderError("machine", 5, h.Machine, MachineID)
	case h.Substatus1 != Internal.substatus() && h.Substatus1 != External.substatus():
		err := sysex.HeaderError("substatus 1", 6, h.Substatus1, Internal.substatus())
		err.Detail += fmt.Sprintf(" or 0x%02X", External.substatus())
		return err
	case h.Substatus2 != 0x00:
		return sysex.HeaderError("substatus 2", 7, h.Substatus2, 0x00)
	}
	return nil
}

func decodePatch(p Patch, data []byte, off int, entity string) error {
	err := p.FromBytes(data[off : off+p.DataSize()])
	if err == nil {
		return nil
	}
	var decodeErr *sysex.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Within(entity, off)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func bankError(err error) error {
	var decodeErr *sysex.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Within("bank", 0)
	}
	return err
}
