package k4

// Multi patch layout
const (
	MultiCount    = 64
	MultiDataSize = 77
	SectionCount  = 8

	multiVolume   = 10
	multiEffect   = 11
	multiSections = 12
	sectionSize   = 8
	multiChecksum = 76
)

// Offsets within a section
const (
	sectionSingle   = 0
	sectionZoneLow  = 1
	sectionZoneHigh = 2
	sectionChannel  = 3 // receive channel, velocity switch, mute
	sectionOutput   = 4 // submix, play mode
	sectionLevel    = 5
	sectionTrans    = 6
	sectionTune     = 7
)

// Section is one of the eight parts of a multi patch
type Section struct {
	SinglePatch    int            `json:"single_patch" yaml:"single_patch"` // 0~63
	ZoneLow        int            `json:"zone_low" yaml:"zone_low"`         // 0~127
	ZoneHigh       int            `json:"zone_high" yaml:"zone_high"`       // 0~127
	ReceiveChannel int            `json:"receive_channel" yaml:"receive_channel"`
	VelocitySwitch VelocitySwitch `json:"velocity_switch" yaml:"velocity_switch"`
	Muted          bool           `json:"muted" yaml:"muted"`
	Submix         Submix         `json:"submix" yaml:"submix"`
	PlayMode       PlayMode       `json:"play_mode" yaml:"play_mode"`
	Level          int            `json:"level" yaml:"level"`         // 0~100
	Transpose      int            `json:"transpose" yaml:"transpose"` // ±24
	Tune           int            `json:"tune" yaml:"tune"`           // ±50
}

// SingleLabel returns the label of the single patch this section plays
func (s Section) SingleLabel() string {
	return PatchLabel(s.SinglePatch)
}

// MultiPatch combines up to eight single patches. Effect and each section's
// ReceiveChannel are 1-based, as in NewBank.
type MultiPatch struct {
	Name     string                `json:"name" yaml:"name"`
	Volume   int                   `json:"volume" yaml:"volume"` // 0~100
	Effect   int                   `json:"effect" yaml:"effect"` // 1~32
	Sections [SectionCount]Section `json:"sections" yaml:"sections"`
}

// Kind implements Patch
func (p *MultiPatch) Kind() Kind { return KindMulti }

// DataSize implements sysex.Data
func (p *MultiPatch) DataSize() int { return MultiDataSize }

// FromBytes implements sysex.Data
func (p *MultiPatch) FromBytes(data []byte) error {
	if err := checkSize(data, MultiDataSize); err != nil {
		return err
	}

	d := newFieldDecoder(data)
	var v MultiPatch

	v.Name = d.name(0)
	v.Volume = d.value(multiVolume, "volume", 100)
	v.Effect = d.value(multiEffect, "effect", 31) + 1

	for i := range v.Sections {
		off := multiSections + i*sectionSize
		s := &v.Sections[i]
		s.SinglePatch = d.value(off+sectionSingle, "single number", SingleCount-1)
		s.ZoneLow = d.value(off+sectionZoneLow, "zone low", 127)
		s.ZoneHigh = d.value(off+sectionZoneHigh, "zone high", 127)
		s.ReceiveChannel = d.bits(off+sectionChannel, "receive channel", 0, 4, 15) + 1
		s.VelocitySwitch = VelocitySwitch(d.bits(off+sectionChannel, "velocity switch", 4, 2, 2))
		s.Muted = d.flag(off+sectionChannel, 6)
		s.Submix = Submix(d.bits(off+sectionOutput, "submix", 0, 3, 7))
		s.PlayMode = PlayMode(d.bits(off+sectionOutput, "play mode", 3, 2, 2))
		s.Level = d.value(off+sectionLevel, "level", 100)
		s.Transpose = d.centered(off+sectionTrans, "transpose", 48)
		s.Tune = d.centered(off+sectionTune, "tune", 100)
	}

	if err := d.finish(v.ToBytes()); err != nil {
		return err
	}
	*p = v
	return nil
}

// ToBytes implements sysex.Data
func (p *MultiPatch) ToBytes() []byte {
	b := make([]byte, MultiDataSize)

	putName(b[:nameLength], p.Name)
	b[multiVolume] = byte(p.Volume)
	b[multiEffect] = byte(p.Effect - 1)

	for i, s := range p.Sections {
		off := multiSections + i*sectionSize
		b[off+sectionSingle] = byte(s.SinglePatch)
		b[off+sectionZoneLow] = byte(s.ZoneLow)
		b[off+sectionZoneHigh] = byte(s.ZoneHigh)
		b[off+sectionChannel] = byte(s.ReceiveChannel-1) | byte(s.VelocitySwitch)<<4 | flagBit(s.Muted, 6)
		b[off+sectionOutput] = byte(s.Submix) | byte(s.PlayMode)<<3
		b[off+sectionLevel] = byte(s.Level)
		b[off+sectionTrans] = centered(s.Transpose, 48)
		b[off+sectionTune] = centered(s.Tune, 100)
	}

	b[multiChecksum] = checksum(b[:multiChecksum])
	return b
}
