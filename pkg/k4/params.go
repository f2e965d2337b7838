package k4

import (
	"fmt"
	"strconv"
	"strings"
)

// Patch organization
const (
	GroupCount      = 4
	PatchesPerGroup = 16
	groupLetters    = "ABCD"
)

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return strconv.Itoa(i)
	}
	return names[i]
}

// Submix is an output channel, A~H
type Submix int

func (s Submix) String() string {
	if s < 0 || s > 7 {
		return strconv.Itoa(int(s))
	}
	return string(rune('A' + s))
}

func (s Submix) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SourceMode selects how the four sources are combined
type SourceMode int

const (
	SourceModeNormal SourceMode = iota
	SourceModeTwin
	SourceModeDouble
)

var sourceModeNames = []string{"NORM", "TWIN", "DBL"}

func (m SourceMode) String() string { return enumName(sourceModeNames, int(m)) }
func (m SourceMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// PolyphonyMode is the voice assignment mode
type PolyphonyMode int

const (
	PolyphonyPoly1 PolyphonyMode = iota
	PolyphonyPoly2
	PolyphonySolo1
	PolyphonySolo2
)

var polyphonyNames = []string{"PL1", "PL2", "SOLO1", "SOLO2"}

func (m PolyphonyMode) String() string { return enumName(polyphonyNames, int(m)) }
func (m PolyphonyMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// WheelAssign is the modulation wheel destination
type WheelAssign int

const (
	WheelVibrato WheelAssign = iota
	WheelLFO
	WheelDCF
)

var wheelAssignNames = []string{"VIB", "LFO", "DCF"}

func (w WheelAssign) String() string { return enumName(wheelAssignNames, int(w)) }
func (w WheelAssign) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// LFOShape is the waveform of the vibrato or DCF LFO
type LFOShape int

const (
	LFOTriangle LFOShape = iota
	LFOSawtooth
	LFOSquare
	LFORandom
)

var lfoShapeNames = []string{"TRI", "SAW", "SQR", "RND"}

func (s LFOShape) String() string { return enumName(lfoShapeNames, int(s)) }
func (s LFOShape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// VelocitySwitch selects which velocities a multi section responds to
type VelocitySwitch int

const (
	VelocityAll VelocitySwitch = iota
	VelocitySoft
	VelocityLoud
)

var velocitySwitchNames = []string{"ALL", "SOFT", "LOUD"}

func (v VelocitySwitch) String() string { return enumName(velocitySwitchNames, int(v)) }
func (v VelocitySwitch) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// PlayMode is the multi section play mode
type PlayMode int

const (
	PlayKeyboard PlayMode = iota
	PlayMIDI
	PlayMix
)

var playModeNames = []string{"KEYB", "MIDI", "MIX"}

func (m PlayMode) String() string { return enumName(playModeNames, int(m)) }
func (m PlayMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Envelope is an ADSR envelope, each stage 0~100
type Envelope struct {
	Attack  int `json:"attack" yaml:"attack"`
	Decay   int `json:"decay" yaml:"decay"`
	Sustain int `json:"sustain" yaml:"sustain"`
	Release int `json:"release" yaml:"release"`
}

// LevelModulation depths, each ±50
type LevelModulation struct {
	VelocityDepth   int `json:"velocity_depth" yaml:"velocity_depth"`
	PressureDepth   int `json:"pressure_depth" yaml:"pressure_depth"`
	KeyScalingDepth int `json:"key_scaling_depth" yaml:"key_scaling_depth"`
}

// TimeModulation depths, each ±50
type TimeModulation struct {
	AttackVelocity  int `json:"attack_velocity" yaml:"attack_velocity"`
	ReleaseVelocity int `json:"release_velocity" yaml:"release_velocity"`
	KeyScaling      int `json:"key_scaling" yaml:"key_scaling"`
}

// PatchLabel formats a zero-based patch index as "A-1" through "D-16"
func PatchLabel(index int) string {
	if index < 0 || index >= GroupCount*PatchesPerGroup {
		return strconv.Itoa(index)
	}
	return fmt.Sprintf("%c-%d", groupLetters[index/PatchesPerGroup], index%PatchesPerGroup+1)
}

// ParsePatchLabel is the inverse of PatchLabel
func ParsePatchLabel(label string) (int, error) {
	group, number, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(label)), "-")
	if !ok || len(group) != 1 {
		return 0, fmt.Errorf("invalid patch label %q", label)
	}
	g := strings.IndexByte(groupLetters, group[0])
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if g < 0 || err != nil || n < 1 || n > PatchesPerGroup {
		return 0, fmt.Errorf("invalid patch label %q", label)
	}
	return g*PatchesPerGroup + n - 1, nil
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the name of a MIDI key, with key 60 as C4
func NoteName(key int) string {
	if key < 0 {
		return strconv.Itoa(key)
	}
	return fmt.Sprintf("%s%d", noteNames[key%12], key/12-1)
}
