package k4

// Effect patch layout
const (
	EffectCount    = 32
	EffectDataSize = 35

	effectType     = 0
	effectParam1   = 1
	effectParam2   = 2
	effectParam3   = 3
	effectReserved = 4
	effectSubmixes = 10
	effectChecksum = 34
	submixCount    = 8
)

// EffectType selects one of the sixteen effect algorithms
type EffectType int

var effectTypeNames = []string{
	"Reverb 1",
	"Reverb 2",
	"Reverb 3",
	"Reverb 4",
	"Gate Reverb",
	"Reverse Gate",
	"Normal Delay",
	"Stereo Panpot Delay",
	"Chorus",
	"Overdrive + Flanger",
	"Overdrive + Normal Delay",
	"Overdrive + Reverb",
	"Normal Delay + Normal Delay",
	"Normal Delay + Stereo Panpot Delay",
	"Chorus + Normal Delay",
	"Chorus + Stereo Panpot Delay",
}

func (t EffectType) String() string { return enumName(effectTypeNames, int(t)) }

// MarshalText implements encoding.TextMarshaler
func (t EffectType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// SubmixSettings routes one submix channel through the effect
type SubmixSettings struct {
	Pan   int `json:"pan" yaml:"pan"`     // ±7
	Send1 int `json:"send1" yaml:"send1"` // 0~100
	Send2 int `json:"send2" yaml:"send2"` // 0~100
}

// EffectPatch is one of the 32 effect settings of a bank
type EffectPatch struct {
	Type   EffectType                  `json:"type" yaml:"type"`
	Param1 int                         `json:"param1" yaml:"param1"` // ±7
	Param2 int                         `json:"param2" yaml:"param2"` // ±7
	Param3 int                         `json:"param3" yaml:"param3"` // 0~31
	Submix [submixCount]SubmixSettings `json:"submix" yaml:"submix"`

	reserved [effectSubmixes - effectReserved]byte
}

// Kind implements Patch
func (p *EffectPatch) Kind() Kind { return KindEffect }

// DataSize implements sysex.Data
func (p *EffectPatch) DataSize() int { return EffectDataSize }

// FromBytes implements sysex.Data
func (p *EffectPatch) FromBytes(data []byte) error {
	if err := checkSize(data, EffectDataSize); err != nil {
		return err
	}

	d := newFieldDecoder(data)
	var v EffectPatch

	v.Type = EffectType(d.value(effectType, "effect type", len(effectTypeNames)-1))
	v.Param1 = d.centered(effectParam1, "parameter 1", 14)
	v.Param2 = d.centered(effectParam2, "parameter 2", 14)
	v.Param3 = d.value(effectParam3, "parameter 3", 31)
	d.reserved(v.reserved[:], effectReserved)

	for i := range v.Submix {
		off := effectSubmixes + i*3
		v.Submix[i] = SubmixSettings{
			Pan:   d.centered(off, "pan", 14),
			Send1: d.value(off+1, "send 1", 100),
			Send2: d.value(off+2, "send 2", 100),
		}
	}

	if err := d.finish(v.ToBytes()); err != nil {
		return err
	}
	*p = v
	return nil
}

// ToBytes implements sysex.Data
func (p *EffectPatch) ToBytes() []byte {
	b := make([]byte, EffectDataSize)

	b[effectType] = byte(p.Type)
	b[effectParam1] = centered(p.Param1, 14)
	b[effectParam2] = centered(p.Param2, 14)
	b[effectParam3] = byte(p.Param3)
	copy(b[effectReserved:effectSubmixes], p.reserved[:])

	for i, s := range p.Submix {
		off := effectSubmixes + i*3
		b[off] = centered(s.Pan, 14)
		b[off+1] = byte(s.Send1)
		b[off+2] = byte(s.Send2)
	}

	b[effectChecksum] = checksum(b[:effectChecksum])
	return b
}
