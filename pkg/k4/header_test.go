package k4

import (
	"testing"

	"github.com/james-see/k4tool/pkg/sysex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0x25), checksum(nil))
	assert.Equal(t, byte(0x25), checksum(make([]byte, 130)))
	assert.Equal(t, byte((0x01+0x02+0x7F+0xA5)&0x7F), checksum([]byte{0x01, 0x02, 0x7F}))
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader([]byte{0xF0, 0x40, 0x03, 0x22, 0x00, 0x04, 0x02, 0x00, 0xF7})
	require.NoError(t, err)
	assert.Equal(t, byte(3), h.Channel)
	assert.Equal(t, AllPatchDataDump, h.Function)
	assert.Equal(t, "Channel = 4, Function = 22H, Group = 00H, Machine = 04H, Substatus1 = 02H, Substatus2 = 00H", h.String())
	assert.Equal(t, []byte{0xF0, 0x40, 0x03, 0x22, 0x00, 0x04, 0x02, 0x00}, h.Bytes())
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		msg    []byte
		cause  error
		field  string
		offset int
	}{
		{"short", []byte{0xF0, 0x40}, sysex.ErrTruncated, "header", 2},
		{"no start", []byte{0x00, 0x40, 0, 0x22, 0, 4, 0, 0}, sysex.ErrBadHeader, "start", 0},
		{"not kawai", []byte{0xF0, 0x41, 0, 0x22, 0, 4, 0, 0}, sysex.ErrBadHeader, "manufacturer", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.msg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.cause)

			decodeErr, ok := err.(*sysex.DecodeError)
			require.True(t, ok)
			assert.Equal(t, tt.field, decodeErr.Field)
			assert.Equal(t, tt.offset, decodeErr.Offset)
		})
	}
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		function   Function
		sub1, sub2 byte
		want       string
	}{
		{OnePatchDataDump, 0x00, 0x00, "One / Single / INT A-1"},
		{OnePatchDataDump, 0x00, 0x3F, "One / Single / INT D-16"},
		{OnePatchDataDump, 0x02, 0x40, "One / Multi / EXT A-1"},
		{OnePatchDataDump, 0x01, 0x05, "One / Effect / INT E-6"},
		{OnePatchDataDump, 0x03, 0x20, "One / Drum / EXT"},
		{BlockPatchDataDump, 0x00, 0x00, "Block / Single / INT"},
		{BlockPatchDataDump, 0x00, 0x40, "Block / Multi / INT"},
		{BlockPatchDataDump, 0x03, 0x00, "Block / Effect / EXT"},
		{AllPatchDataDump, 0x00, 0x00, "Block / All / INT"},
		{AllPatchDataDump, 0x02, 0x00, "Block / All / EXT"},
		{AllPatchDataDump, 0x00, 0x01, "Block / Unknown / INT"},
		{ParameterSend, 0x00, 0x00, "One / Unknown / INT"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			h := Header{Function: tt.function, Machine: MachineID, Substatus1: tt.sub1, Substatus2: tt.sub2}
			assert.Equal(t, tt.want, h.Identify().String())
		})
	}
}

func TestIdentifyOtherMachine(t *testing.T) {
	tests := []struct {
		name   string
		header Header
		want   string
	}{
		{"K1 all dump", Header{Function: AllPatchDataDump, Machine: 0x03}, "Block / Unknown / INT"},
		{"K5 one dump", Header{Function: OnePatchDataDump, Machine: 0x02, Substatus1: 0x02}, "One / Unknown / EXT"},
		{"K4 other group", Header{Function: BlockPatchDataDump, Group: 0x01, Machine: MachineID}, "Block / Unknown / INT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.header.Identify()
			assert.Equal(t, KindUnknown, id.Kind)
			assert.Equal(t, -1, id.PatchNumber)
			assert.Equal(t, tt.want, id.String())
		})
	}
}

func TestFunctionString(t *testing.T) {
	assert.Equal(t, "All Patch Data Dump", AllPatchDataDump.String())
	assert.Equal(t, "Function 7FH", Function(0x7F).String())
}

func TestPatchLabel(t *testing.T) {
	tests := []struct {
		index int
		label string
	}{
		{0, "A-1"},
		{15, "A-16"},
		{16, "B-1"},
		{47, "C-16"},
		{63, "D-16"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, PatchLabel(tt.index))

			index, err := ParsePatchLabel(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.index, index)
		})
	}
}

func TestParsePatchLabelInvalid(t *testing.T) {
	for _, label := range []string{"", "A", "E-1", "A-0", "A-17", "AB-1", "A-x"} {
		_, err := ParsePatchLabel(label)
		assert.Error(t, err, label)
	}

	index, err := ParsePatchLabel(" b-3 ")
	require.NoError(t, err)
	assert.Equal(t, 18, index)
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "C-1", NoteName(0))
	assert.Equal(t, "C2", NoteName(FirstDrumKey))
	assert.Equal(t, "C7", NoteName(FirstDrumKey+DrumNoteCount-1))
	assert.Equal(t, "G9", NoteName(127))
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "H", Submix(7).String())
	assert.Equal(t, "TWIN", SourceModeTwin.String())
	assert.Equal(t, "SOLO2", PolyphonySolo2.String())
	assert.Equal(t, "DCF", WheelDCF.String())
	assert.Equal(t, "RND", LFORandom.String())
	assert.Equal(t, "LOUD", VelocityLoud.String())
	assert.Equal(t, "MIX", PlayMix.String())
	assert.Equal(t, "Chorus + Stereo Panpot Delay", EffectType(15).String())
	assert.Equal(t, "9", SourceMode(9).String())
}
