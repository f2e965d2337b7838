package k4

// Single patch layout
const (
	SingleCount    = 64
	SingleDataSize = 131
	SourceCount    = 4
	FilterCount    = 2

	singleVolume        = 10
	singleEffect        = 11
	singleSubmix        = 12
	singleModes         = 13 // source mode, poly mode, AM 1>2, AM 3>4
	singleMutes         = 14 // source mutes, vibrato shape
	singleBend          = 15 // pitch bend range, wheel assign
	singleVibSpeed      = 16
	singleWheelDepth    = 17
	singleAutoBendTime  = 18
	singleAutoBendDepth = 19
	singleAutoBendKS    = 20
	singleAutoBendVel   = 21
	singleVibPressure   = 22
	singleVibDepth      = 23
	singleLFOShape      = 24
	singleLFOSpeed      = 25
	singleLFODelay      = 26
	singleLFODepth      = 27
	singleLFOPressure   = 28
	singlePressureFreq  = 29

	// One byte per source from here on
	sourceDelay    = 30
	sourceWaveHigh = 34 // wave select high bit, key scaling curve
	sourceWaveLow  = 38
	sourceCoarse   = 42 // coarse, key track
	sourceFixedKey = 46
	sourceFine     = 50
	sourceFlags    = 54 // pressure freq, vibrato, velocity curve
	ampLevel       = 58
	ampAttack      = 62
	ampDecay       = 66
	ampSustain     = 70
	ampRelease     = 74
	ampLevelModVel = 78
	ampLevelModPrs = 82
	ampLevelModKS  = 86
	ampTimeModOn   = 90
	ampTimeModOff  = 94
	ampTimeModKS   = 98

	// One byte per filter from here on
	filterCutoff      = 102
	filterResonance   = 104 // resonance, LFO switch
	filterCutoffVel   = 106
	filterCutoffPrs   = 108
	filterCutoffKS    = 110
	filterEnvDepth    = 112
	filterEnvVelDepth = 114
	filterAttack      = 116
	filterDecay       = 118
	filterSustain     = 120
	filterRelease     = 122
	filterTimeModOn   = 124
	filterTimeModOff  = 126
	filterTimeModKS   = 128

	singleChecksum = 130
)

// Vibrato settings of a single patch
type Vibrato struct {
	Shape    LFOShape `json:"shape" yaml:"shape"`
	Speed    int      `json:"speed" yaml:"speed"`       // 0~100
	Depth    int      `json:"depth" yaml:"depth"`       // ±50
	Pressure int      `json:"pressure" yaml:"pressure"` // ±50
}

// AutoBend settings of a single patch
type AutoBend struct {
	Time           int `json:"time" yaml:"time"`                         // 0~100
	Depth          int `json:"depth" yaml:"depth"`                       // ±50
	KeyScalingTime int `json:"key_scaling_time" yaml:"key_scaling_time"` // ±50
	VelocityDepth  int `json:"velocity_depth" yaml:"velocity_depth"`     // ±50
}

// LFO is the DCF LFO of a single patch
type LFO struct {
	Shape         LFOShape `json:"shape" yaml:"shape"`
	Speed         int      `json:"speed" yaml:"speed"`                   // 0~100
	Delay         int      `json:"delay" yaml:"delay"`                   // 0~100
	Depth         int      `json:"depth" yaml:"depth"`                   // ±50
	PressureDepth int      `json:"pressure_depth" yaml:"pressure_depth"` // ±50
}

// Source is the DCO section of one of the four sources
type Source struct {
	Delay           int        `json:"delay" yaml:"delay"` // 0~100
	Wave            WaveNumber `json:"wave" yaml:"wave"`
	KeyScalingCurve int        `json:"key_scaling_curve" yaml:"key_scaling_curve"` // 1~8
	Coarse          int        `json:"coarse" yaml:"coarse"`                       // ±24
	KeyTrack        bool       `json:"key_track" yaml:"key_track"`
	FixedKey        int        `json:"fixed_key" yaml:"fixed_key"` // 0~115, C-1~G8
	Fine            int        `json:"fine" yaml:"fine"`           // ±50
	PressureFreq    bool       `json:"pressure_freq" yaml:"pressure_freq"`
	Vibrato         bool       `json:"vibrato" yaml:"vibrato"`               // vibrato / auto bend switch
	VelocityCurve   int        `json:"velocity_curve" yaml:"velocity_curve"` // 1~8
}

// Amplifier is the DCA section of one source
type Amplifier struct {
	Level    int             `json:"level" yaml:"level"` // 0~100
	Envelope Envelope        `json:"envelope" yaml:"envelope"`
	LevelMod LevelModulation `json:"level_mod" yaml:"level_mod"`
	TimeMod  TimeModulation  `json:"time_mod" yaml:"time_mod"`
}

// Filter is one of the two DCF sections
type Filter struct {
	Cutoff                int             `json:"cutoff" yaml:"cutoff"`       // 0~100
	Resonance             int             `json:"resonance" yaml:"resonance"` // 1~8
	LFO                   bool            `json:"lfo" yaml:"lfo"`
	CutoffMod             LevelModulation `json:"cutoff_mod" yaml:"cutoff_mod"`
	EnvelopeDepth         int             `json:"envelope_depth" yaml:"envelope_depth"`                   // ±50
	EnvelopeVelocityDepth int             `json:"envelope_velocity_depth" yaml:"envelope_velocity_depth"` // ±50
	Envelope              Envelope        `json:"envelope" yaml:"envelope"`
	TimeMod               TimeModulation  `json:"time_mod" yaml:"time_mod"`
}

// SinglePatch is one K4 voice program. Effect, KeyScalingCurve,
// VelocityCurve and Resonance are 1-based: take patches from NewBank or a
// decoded bank rather than the zero value.
type SinglePatch struct {
	Name         string                 `json:"name" yaml:"name"`
	Volume       int                    `json:"volume" yaml:"volume"` // 0~100
	Effect       int                    `json:"effect" yaml:"effect"` // 1~32
	Submix       Submix                 `json:"submix" yaml:"submix"`
	SourceMode   SourceMode             `json:"source_mode" yaml:"source_mode"`
	PolyMode     PolyphonyMode          `json:"poly_mode" yaml:"poly_mode"`
	AM12         bool                   `json:"am12" yaml:"am12"`
	AM34         bool                   `json:"am34" yaml:"am34"`
	SourceMutes  [SourceCount]bool      `json:"source_mutes" yaml:"source_mutes"`
	PitchBend    int                    `json:"pitch_bend" yaml:"pitch_bend"` // 0~12
	WheelAssign  WheelAssign            `json:"wheel_assign" yaml:"wheel_assign"`
	WheelDepth   int                    `json:"wheel_depth" yaml:"wheel_depth"` // ±50
	Vibrato      Vibrato                `json:"vibrato" yaml:"vibrato"`
	AutoBend     AutoBend               `json:"auto_bend" yaml:"auto_bend"`
	LFO          LFO                    `json:"lfo" yaml:"lfo"`
	PressureFreq int                    `json:"pressure_freq" yaml:"pressure_freq"` // ±50
	Sources      [SourceCount]Source    `json:"sources" yaml:"sources"`
	Amplifiers   [SourceCount]Amplifier `json:"amplifiers" yaml:"amplifiers"`
	Filters      [FilterCount]Filter    `json:"filters" yaml:"filters"`
}

// Kind implements Patch
func (p *SinglePatch) Kind() Kind { return KindSingle }

// DataSize implements sysex.Data
func (p *SinglePatch) DataSize() int { return SingleDataSize }

// FromBytes implements sysex.Data
func (p *SinglePatch) FromBytes(data []byte) error {
	if err := checkSize(data, SingleDataSize); err != nil {
		return err
	}

	d := newFieldDecoder(data)
	var v SinglePatch

	v.Name = d.name(0)
	v.Volume = d.value(singleVolume, "volume", 100)
	v.Effect = d.value(singleEffect, "effect", 31) + 1
	v.Submix = Submix(d.bits(singleSubmix, "submix", 0, 3, 7))
	v.SourceMode = SourceMode(d.bits(singleModes, "source mode", 0, 2, 2))
	v.PolyMode = PolyphonyMode(d.bits(singleModes, "poly mode", 2, 2, 3))
	v.AM12 = d.flag(singleModes, 4)
	v.AM34 = d.flag(singleModes, 5)
	for i := range v.SourceMutes {
		v.SourceMutes[i] = d.flag(singleMutes, uint(i))
	}
	v.Vibrato.Shape = LFOShape(d.bits(singleMutes, "vibrato shape", 4, 2, 3))
	v.PitchBend = d.bits(singleBend, "pitch bend", 0, 4, 12)
	v.WheelAssign = WheelAssign(d.bits(singleBend, "wheel assign", 4, 2, 2))
	v.Vibrato.Speed = d.value(singleVibSpeed, "vibrato speed", 100)
	v.WheelDepth = d.centered(singleWheelDepth, "wheel depth", 100)
	v.AutoBend.Time = d.value(singleAutoBendTime, "auto bend time", 100)
	v.AutoBend.Depth = d.centered(singleAutoBendDepth, "auto bend depth", 100)
	v.AutoBend.KeyScalingTime = d.centered(singleAutoBendKS, "auto bend ks time", 100)
	v.AutoBend.VelocityDepth = d.centered(singleAutoBendVel, "auto bend velocity depth", 100)
	v.Vibrato.Pressure = d.centered(singleVibPressure, "vibrato pressure", 100)
	v.Vibrato.Depth = d.centered(singleVibDepth, "vibrato depth", 100)
	v.LFO.Shape = LFOShape(d.bits(singleLFOShape, "lfo shape", 0, 2, 3))
	v.LFO.Speed = d.value(singleLFOSpeed, "lfo speed", 100)
	v.LFO.Delay = d.value(singleLFODelay, "lfo delay", 100)
	v.LFO.Depth = d.centered(singleLFODepth, "lfo depth", 100)
	v.LFO.PressureDepth = d.centered(singleLFOPressure, "lfo pressure depth", 100)
	v.PressureFreq = d.centered(singlePressureFreq, "pressure freq", 100)

	for i := range v.Sources {
		s := &v.Sources[i]
		s.Delay = d.value(sourceDelay+i, "source delay", 100)
		s.Wave = d.wave(sourceWaveHigh+i, sourceWaveLow+i)
		s.KeyScalingCurve = d.bits(sourceWaveHigh+i, "ks curve", 4, 3, 7) + 1
		s.Coarse = d.bits(sourceCoarse+i, "coarse", 0, 6, 48) - 24
		s.KeyTrack = d.flag(sourceCoarse+i, 6)
		s.FixedKey = d.value(sourceFixedKey+i, "fixed key", 115)
		s.Fine = d.centered(sourceFine+i, "fine", 100)
		s.PressureFreq = d.flag(sourceFlags+i, 0)
		s.Vibrato = d.flag(sourceFlags+i, 1)
		s.VelocityCurve = d.bits(sourceFlags+i, "velocity curve", 2, 3, 7) + 1

		a := &v.Amplifiers[i]
		a.Level = d.value(ampLevel+i, "dca level", 100)
		a.Envelope = Envelope{
			Attack:  d.value(ampAttack+i, "dca attack", 100),
			Decay:   d.value(ampDecay+i, "dca decay", 100),
			Sustain: d.value(ampSustain+i, "dca sustain", 100),
			Release: d.value(ampRelease+i, "dca release", 100),
		}
		a.LevelMod = LevelModulation{
			VelocityDepth:   d.centered(ampLevelModVel+i, "dca velocity depth", 100),
			PressureDepth:   d.centered(ampLevelModPrs+i, "dca pressure depth", 100),
			KeyScalingDepth: d.centered(ampLevelModKS+i, "dca ks depth", 100),
		}
		a.TimeMod = TimeModulation{
			AttackVelocity:  d.centered(ampTimeModOn+i, "dca time mod attack", 100),
			ReleaseVelocity: d.centered(ampTimeModOff+i, "dca time mod release", 100),
			KeyScaling:      d.centered(ampTimeModKS+i, "dca time mod ks", 100),
		}
	}

	for i := range v.Filters {
		f := &v.Filters[i]
		f.Cutoff = d.value(filterCutoff+i, "cutoff", 100)
		f.Resonance = d.bits(filterResonance+i, "resonance", 0, 3, 7) + 1
		f.LFO = d.flag(filterResonance+i, 3)
		f.CutoffMod = LevelModulation{
			VelocityDepth:   d.centered(filterCutoffVel+i, "cutoff velocity depth", 100),
			PressureDepth:   d.centered(filterCutoffPrs+i, "cutoff pressure depth", 100),
			KeyScalingDepth: d.centered(filterCutoffKS+i, "cutoff ks depth", 100),
		}
		f.EnvelopeDepth = d.centered(filterEnvDepth+i, "dcf envelope depth", 100)
		f.EnvelopeVelocityDepth = d.centered(filterEnvVelDepth+i, "dcf envelope velocity depth", 100)
		f.Envelope = Envelope{
			Attack:  d.value(filterAttack+i, "dcf attack", 100),
			Decay:   d.value(filterDecay+i, "dcf decay", 100),
			Sustain: d.value(filterSustain+i, "dcf sustain", 100),
			Release: d.value(filterRelease+i, "dcf release", 100),
		}
		f.TimeMod = TimeModulation{
			AttackVelocity:  d.centered(filterTimeModOn+i, "dcf time mod attack", 100),
			ReleaseVelocity: d.centered(filterTimeModOff+i, "dcf time mod release", 100),
			KeyScaling:      d.centered(filterTimeModKS+i, "dcf time mod ks", 100),
		}
	}

	if err := d.finish(v.ToBytes()); err != nil {
		return err
	}
	*p = v
	return nil
}

// ToBytes implements sysex.Data
func (p *SinglePatch) ToBytes() []byte {
	b := make([]byte, SingleDataSize)

	putName(b[:nameLength], p.Name)
	b[singleVolume] = byte(p.Volume)
	b[singleEffect] = byte(p.Effect - 1)
	b[singleSubmix] = byte(p.Submix)
	b[singleModes] = byte(p.SourceMode) | byte(p.PolyMode)<<2 | flagBit(p.AM12, 4) | flagBit(p.AM34, 5)
	var mutes byte
	for i, muted := range p.SourceMutes {
		mutes |= flagBit(muted, uint(i))
	}
	b[singleMutes] = mutes | byte(p.Vibrato.Shape)<<4
	b[singleBend] = byte(p.PitchBend) | byte(p.WheelAssign)<<4
	b[singleVibSpeed] = byte(p.Vibrato.Speed)
	b[singleWheelDepth] = centered(p.WheelDepth, 100)
	b[singleAutoBendTime] = byte(p.AutoBend.Time)
	b[singleAutoBendDepth] = centered(p.AutoBend.Depth, 100)
	b[singleAutoBendKS] = centered(p.AutoBend.KeyScalingTime, 100)
	b[singleAutoBendVel] = centered(p.AutoBend.VelocityDepth, 100)
	b[singleVibPressure] = centered(p.Vibrato.Pressure, 100)
	b[singleVibDepth] = centered(p.Vibrato.Depth, 100)
	b[singleLFOShape] = byte(p.LFO.Shape)
	b[singleLFOSpeed] = byte(p.LFO.Speed)
	b[singleLFODelay] = byte(p.LFO.Delay)
	b[singleLFODepth] = centered(p.LFO.Depth, 100)
	b[singleLFOPressure] = centered(p.LFO.PressureDepth, 100)
	b[singlePressureFreq] = centered(p.PressureFreq, 100)

	for i, s := range p.Sources {
		high, low := s.Wave.bytes()
		b[sourceDelay+i] = byte(s.Delay)
		b[sourceWaveHigh+i] = high | byte(s.KeyScalingCurve-1)<<4
		b[sourceWaveLow+i] = low
		b[sourceCoarse+i] = byte(s.Coarse+24) | flagBit(s.KeyTrack, 6)
		b[sourceFixedKey+i] = byte(s.FixedKey)
		b[sourceFine+i] = centered(s.Fine, 100)
		b[sourceFlags+i] = flagBit(s.PressureFreq, 0) | flagBit(s.Vibrato, 1) | byte(s.VelocityCurve-1)<<2
	}

	for i, a := range p.Amplifiers {
		b[ampLevel+i] = byte(a.Level)
		b[ampAttack+i] = byte(a.Envelope.Attack)
		b[ampDecay+i] = byte(a.Envelope.Decay)
		b[ampSustain+i] = byte(a.Envelope.Sustain)
		b[ampRelease+i] = byte(a.Envelope.Release)
		b[ampLevelModVel+i] = centered(a.LevelMod.VelocityDepth, 100)
		b[ampLevelModPrs+i] = centered(a.LevelMod.PressureDepth, 100)
		b[ampLevelModKS+i] = centered(a.LevelMod.KeyScalingDepth, 100)
		b[ampTimeModOn+i] = centered(a.TimeMod.AttackVelocity, 100)
		b[ampTimeModOff+i] = centered(a.TimeMod.ReleaseVelocity, 100)
		b[ampTimeModKS+i] = centered(a.TimeMod.KeyScaling, 100)
	}

	for i, f := range p.Filters {
		b[filterCutoff+i] = byte(f.Cutoff)
		b[filterResonance+i] = byte(f.Resonance-1) | flagBit(f.LFO, 3)
		b[filterCutoffVel+i] = centered(f.CutoffMod.VelocityDepth, 100)
		b[filterCutoffPrs+i] = centered(f.CutoffMod.PressureDepth, 100)
		b[filterCutoffKS+i] = centered(f.CutoffMod.KeyScalingDepth, 100)
		b[filterEnvDepth+i] = centered(f.EnvelopeDepth, 100)
		b[filterEnvVelDepth+i] = centered(f.EnvelopeVelocityDepth, 100)
		b[filterAttack+i] = byte(f.Envelope.Attack)
		b[filterDecay+i] = byte(f.Envelope.Decay)
		b[filterSustain+i] = byte(f.Envelope.Sustain)
		b[filterRelease+i] = byte(f.Envelope.Release)
		b[filterTimeModOn+i] = centered(f.TimeMod.AttackVelocity, 100)
		b[filterTimeModOff+i] = centered(f.TimeMod.ReleaseVelocity, 100)
		b[filterTimeModKS+i] = centered(f.TimeMod.KeyScaling, 100)
	}

	b[singleChecksum] = checksum(b[:singleChecksum])
	return b
}
