package k4

import (
	"errors"
	"testing"

	"github.com/james-see/k4tool/pkg/sysex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankDataSize(t *testing.T) {
	var b Bank
	assert.Equal(t, 15123, BankDataSize)
	assert.Equal(t, BankDataSize, b.DataSize())
	assert.Equal(t, b.DataSize(), NewBank().DataSize())

	assert.Equal(t, 8, singleStart)
	assert.Equal(t, 0x20C8, multiStart)
	assert.Equal(t, 0x3408, drumStart)
	assert.Equal(t, 0x36B2, effectStart)
}

func TestNewBankRoundTrip(t *testing.T) {
	want := NewBank()
	data := want.ToBytes()
	require.Len(t, data, BankDataSize)
	assert.Equal(t, []byte{0xF0, 0x40, 0x00, 0x22, 0x00, 0x04, 0x00, 0x00}, data[:HeaderSize])
	assert.Equal(t, byte(sysex.End), data[BankDataSize-1])

	got, err := ParseBank(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, data, got.ToBytes())
}

func TestNewBankOneBasedFields(t *testing.T) {
	b := NewBank()
	assert.Equal(t, 1, b.Channel)
	assert.Equal(t, 1, b.Drum.ReceiveChannel)
	for i, p := range b.Singles {
		assert.Equal(t, 1, p.Effect, "single %d", i)
		for _, s := range p.Sources {
			assert.Equal(t, 1, s.KeyScalingCurve)
			assert.Equal(t, 1, s.VelocityCurve)
		}
		for _, f := range p.Filters {
			assert.Equal(t, 1, f.Resonance)
		}
	}
	for i, p := range b.Multis {
		assert.Equal(t, 1, p.Effect, "multi %d", i)
		for _, s := range p.Sections {
			assert.Equal(t, 1, s.ReceiveChannel)
		}
	}

	data := b.ToBytes()
	for i, v := range data[1 : len(data)-1] {
		require.Less(t, v, byte(0x80), "offset %d", i+1)
	}
}

func TestBankRoundTrip(t *testing.T) {
	b := NewBank()
	b.Channel = 16
	b.Locality = External
	b.Singles[5] = testSingle()
	b.Multis[63].Name = "Last Multi"
	b.Drum.Notes[60].Sources[1].Wave = MustWaveNumber(256)
	b.Effects[31].Type = EffectType(15)

	data := b.ToBytes()
	assert.Equal(t, byte(0x0F), data[2])
	assert.Equal(t, byte(0x02), data[6])

	got, err := ParseBank(data)
	require.NoError(t, err)
	assert.Equal(t, data, got.ToBytes())
	assert.Equal(t, "Brass 1   ", got.Singles[5].Name)
	assert.Equal(t, External, got.Locality)
	assert.Equal(t, 16, got.Channel)
}

func TestBankDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(b []byte)
		cause  error
		entity string
		field  string
		offset int
	}{
		{
			name:   "wrong function",
			modify: func(b []byte) { b[3] = 0x21 },
			cause:  sysex.ErrBadHeader,
			entity: "bank",
			field:  "function",
			offset: 3,
		},
		{
			name:   "wrong manufacturer",
			modify: func(b []byte) { b[1] = 0x43 },
			cause:  sysex.ErrBadHeader,
			entity: "bank",
			field:  "manufacturer",
			offset: 1,
		},
		{
			name:   "channel out of range",
			modify: func(b []byte) { b[2] = 0x10 },
			cause:  sysex.ErrBadHeader,
			entity: "bank",
			field:  "channel",
			offset: 2,
		},
		{
			name:   "wrong machine",
			modify: func(b []byte) { b[5] = 0x05 },
			cause:  sysex.ErrBadHeader,
			entity: "bank",
			field:  "machine",
			offset: 5,
		},
		{
			name:   "card substatus",
			modify: func(b []byte) { b[6] = 0x01 },
			cause:  sysex.ErrBadHeader,
			entity: "bank",
			field:  "substatus 1",
			offset: 6,
		},
		{
			name:   "missing end byte",
			modify: func(b []byte) { b[len(b)-1] = 0x00 },
			cause:  sysex.ErrBadHeader,
			entity: "bank",
			field:  "end",
			offset: BankDataSize - 1,
		},
		{
			name:   "8-bit data byte",
			modify: func(b []byte) { b[100] = 0x80 },
			cause:  sysex.ErrInvalidField,
			entity: "bank",
			field:  "data byte",
			offset: 100,
		},
		{
			name:   "single checksum",
			modify: func(b []byte) { b[singleStart+SingleDataSize+singleChecksum] ^= 0x01 },
			cause:  sysex.ErrBadChecksum,
			entity: "single A-2",
			field:  "checksum",
			offset: singleStart + SingleDataSize + singleChecksum,
		},
		{
			name:   "multi edited without checksum",
			modify: func(b []byte) { b[multiStart+16*MultiDataSize+multiVolume] = 0x7F },
			cause:  sysex.ErrBadChecksum,
			entity: "multi B-1",
			field:  "checksum",
			offset: multiStart + 16*MultiDataSize + multiChecksum,
		},
		{
			name:   "drum note",
			modify: func(b []byte) { b[drumStart+drumCommonSize+drumChecksum] ^= 0x01 },
			cause:  sysex.ErrBadChecksum,
			entity: "drum note C2",
			field:  "checksum",
			offset: drumStart + drumCommonSize + drumChecksum,
		},
		{
			name:   "effect checksum",
			modify: func(b []byte) { b[effectStart+effectChecksum] ^= 0x01 },
			cause:  sysex.ErrBadChecksum,
			entity: "effect 1",
			field:  "checksum",
			offset: effectStart + effectChecksum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := NewBank().ToBytes()
			tt.modify(data)

			b := NewBank()
			b.Channel = 7
			err := b.FromBytes(data)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, 7, b.Channel, "failed decode must leave the receiver untouched")

			var decodeErr *sysex.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.entity, decodeErr.Entity)
			assert.Equal(t, tt.field, decodeErr.Field)
			assert.Equal(t, tt.offset, decodeErr.Offset)
		})
	}
}

func TestBankAllZero(t *testing.T) {
	_, err := ParseBank(make([]byte, BankDataSize))
	require.Error(t, err)
	assert.ErrorIs(t, err, sysex.ErrBadHeader)

	var decodeErr *sysex.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "start", decodeErr.Field)
	assert.Equal(t, 0, decodeErr.Offset)
	assert.Equal(t, "bank: bad header in start at offset 0 (got 0x00, want 0xF0)", err.Error())
}

func TestBankSubstatusDetail(t *testing.T) {
	data := NewBank().ToBytes()
	data[6] = 0x01

	_, err := ParseBank(data)
	require.Error(t, err)
	assert.Equal(t, "bank: bad header in substatus 1 at offset 6 (got 0x01, want 0x00 or 0x02)", err.Error())

	data[6] = External.substatus()
	_, err = ParseBank(data)
	assert.NoError(t, err)
}

func TestBankSizeMismatch(t *testing.T) {
	for _, size := range []int{0, BankDataSize - 1, BankDataSize + 1} {
		_, err := ParseBank(make([]byte, size))

		var sizeErr *sysex.SizeError
		require.True(t, errors.As(err, &sizeErr), "size %d", size)
		assert.Equal(t, size, sizeErr.Got)
		assert.Equal(t, BankDataSize, sizeErr.Want)
	}
}

func TestBankPatches(t *testing.T) {
	b := NewBank()
	patches := b.Patches()
	require.Len(t, patches, SingleCount+MultiCount+1+EffectCount)

	assert.Equal(t, KindSingle, patches[0].Kind())
	assert.Equal(t, KindMulti, patches[SingleCount].Kind())
	assert.Equal(t, KindDrum, patches[SingleCount+MultiCount].Kind())
	assert.Equal(t, KindEffect, patches[len(patches)-1].Kind())

	total := HeaderSize + 1
	for _, p := range patches {
		total += p.DataSize()
	}
	assert.Equal(t, BankDataSize, total)
}

func TestBankLookup(t *testing.T) {
	b := NewBank()
	b.Singles[16].Name = "Strings   "
	b.Multis[63].Name = "Last Multi"

	s, err := b.Single("B-1")
	require.NoError(t, err)
	assert.Equal(t, "Strings   ", s.Name)

	m, err := b.Multi("d-16")
	require.NoError(t, err)
	assert.Equal(t, "Last Multi", m.Name)

	_, err = b.Single("Z-1")
	assert.Error(t, err)
}
