package k4

import (
	"errors"
	"fmt"

	"github.com/james-see/k4tool/pkg/sysex"
)

// Drum patch layout
const (
	DrumDataSize       = drumCommonSize + DrumNoteCount*DrumNoteDataSize
	DrumNoteCount      = 61
	DrumNoteDataSize   = 11
	FirstDrumKey       = 36
	drumCommonSize     = 11
	drumChannel        = 0
	drumVolume         = 1
	drumVelocityDepth  = 2
	drumCommonReserved = 3
	drumCommonChecksum = 10

	// One byte per drum source from here on
	drumWaveHigh = 0 // wave select high bit; submix in bits 4-6 of the first byte
	drumWaveLow  = 2
	drumDecay    = 4
	drumTune     = 6
	drumLevel    = 8
	drumChecksum = 10
)

// DrumSource is one of the two sources of a drum note
type DrumSource struct {
	Wave  WaveNumber `json:"wave" yaml:"wave"`
	Decay int        `json:"decay" yaml:"decay"` // 0~100
	Tune  int        `json:"tune" yaml:"tune"`   // ±50
	Level int        `json:"level" yaml:"level"` // 0~100
}

// DrumNote holds the settings of one drum key
type DrumNote struct {
	Submix  Submix        `json:"submix" yaml:"submix"`
	Sources [2]DrumSource `json:"sources" yaml:"sources"`
}

// DataSize implements sysex.Data
func (n *DrumNote) DataSize() int { return DrumNoteDataSize }

// FromBytes implements sysex.Data
func (n *DrumNote) FromBytes(data []byte) error {
	if err := checkSize(data, DrumNoteDataSize); err != nil {
		return err
	}

	d := newFieldDecoder(data)
	var v DrumNote

	v.Submix = Submix(d.bits(drumWaveHigh, "submix", 4, 3, 7))
	for i := range v.Sources {
		s := &v.Sources[i]
		s.Wave = d.wave(drumWaveHigh+i, drumWaveLow+i)
		s.Decay = d.value(drumDecay+i, "decay", 100)
		s.Tune = d.centered(drumTune+i, "tune", 100)
		s.Level = d.value(drumLevel+i, "level", 100)
	}

	if err := d.finish(v.ToBytes()); err != nil {
		return err
	}
	*n = v
	return nil
}

// ToBytes implements sysex.Data
func (n *DrumNote) ToBytes() []byte {
	b := make([]byte, DrumNoteDataSize)
	for i, s := range n.Sources {
		high, low := s.Wave.bytes()
		b[drumWaveHigh+i] = high
		b[drumWaveLow+i] = low
		b[drumDecay+i] = byte(s.Decay)
		b[drumTune+i] = centered(s.Tune, 100)
		b[drumLevel+i] = byte(s.Level)
	}
	b[drumWaveHigh] |= byte(n.Submix) << 4
	b[drumChecksum] = checksum(b[:drumChecksum])
	return b
}

// DrumPatch is the drum kit shared by the whole bank. ReceiveChannel is
// 1-based, as in NewBank.
type DrumPatch struct {
	ReceiveChannel int                     `json:"receive_channel" yaml:"receive_channel"` // 1~16
	Volume         int                     `json:"volume" yaml:"volume"`                   // 0~100
	VelocityDepth  int                     `json:"velocity_depth" yaml:"velocity_depth"`   // ±50
	Notes          [DrumNoteCount]DrumNote `json:"notes" yaml:"notes"`

	reserved [drumCommonChecksum - drumCommonReserved]byte
}

// Kind implements Patch
func (p *DrumPatch) Kind() Kind { return KindDrum }

// DataSize implements sysex.Data
func (p *DrumPatch) DataSize() int { return DrumDataSize }

// FromBytes implements sysex.Data
func (p *DrumPatch) FromBytes(data []byte) error {
	if err := checkSize(data, DrumDataSize); err != nil {
		return err
	}

	common := data[:drumCommonSize]
	d := newFieldDecoder(common)
	var v DrumPatch

	v.ReceiveChannel = d.value(drumChannel, "receive channel", 15) + 1
	v.Volume = d.value(drumVolume, "volume", 100)
	v.VelocityDepth = d.centered(drumVelocityDepth, "velocity depth", 100)
	d.reserved(v.reserved[:], drumCommonReserved)
	if err := d.finish(v.commonBytes()); err != nil {
		return err
	}

	for i := range v.Notes {
		off := drumCommonSize + i*DrumNoteDataSize
		if err := v.Notes[i].FromBytes(data[off : off+DrumNoteDataSize]); err != nil {
			var decodeErr *sysex.DecodeError
			if errors.As(err, &decodeErr) {
				return decodeErr.Within(fmt.Sprintf("note %s", NoteName(FirstDrumKey+i)), off)
			}
			return err
		}
	}

	*p = v
	return nil
}

func (p *DrumPatch) commonBytes() []byte {
	b := make([]byte, drumCommonSize)
	b[drumChannel] = byte(p.ReceiveChannel - 1)
	b[drumVolume] = byte(p.Volume)
	b[drumVelocityDepth] = centered(p.VelocityDepth, 100)
	copy(b[drumCommonReserved:], p.reserved[:])
	b[drumCommonChecksum] = checksum(b[:drumCommonChecksum])
	return b
}

// ToBytes implements sysex.Data
func (p *DrumPatch) ToBytes() []byte {
	b := make([]byte, 0, DrumDataSize)
	b = append(b, p.commonBytes()...)
	for i := range p.Notes {
		b = append(b, p.Notes[i].ToBytes()...)
	}
	return b
}
