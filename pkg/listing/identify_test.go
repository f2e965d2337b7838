package listing

import (
	"bytes"
	"testing"

	"github.com/james-see/k4tool/pkg/k4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyBank(t *testing.T) {
	data := k4.NewBank().ToBytes()

	inv := Identify("bank.syx", data)
	assert.Equal(t, k4.BankDataSize, inv.Size)
	assert.Equal(t, "15 kB", inv.SizeText())
	require.Len(t, inv.Messages, 1)

	m := inv.Messages[0]
	assert.Equal(t, 0, m.Offset)
	assert.Equal(t, k4.BankDataSize, m.Size)
	assert.Equal(t, "Kawai Musical Instruments MFG. CO. Ltd (40H)", m.Manufacturer)
	assert.Equal(t, "Channel = 1, Function = 22H, Group = 00H, Machine = 04H, Substatus1 = 00H, Substatus2 = 00H", m.Header)
	require.NotNil(t, m.Content)
	assert.Equal(t, k4.KindAll, m.Content.Kind)
	assert.Equal(t, "Block / All / INT", m.Content.String())
	assert.Empty(t, m.Error)
}

func TestIdentifyMixed(t *testing.T) {
	var data []byte
	data = append(data, 0x00, 0x00)
	data = append(data, 0xF0, 0x43, 0x00, 0x09, 0xF7)
	data = append(data, 0xF0, 0x40, 0x01, 0x20, 0x00, 0x04, 0x00, 0x41, 0xF7)
	data = append(data, 0xF0, 0x40, 0x00, 0xF7)

	inv := Identify("", data)
	require.Len(t, inv.Messages, 3)

	assert.Equal(t, 2, inv.Messages[0].Offset)
	assert.Equal(t, "Yamaha Corporation (43H)", inv.Messages[0].Manufacturer)
	assert.Nil(t, inv.Messages[0].Content)

	assert.Equal(t, 7, inv.Messages[1].Offset)
	require.NotNil(t, inv.Messages[1].Content)
	assert.Equal(t, "One / Multi / INT A-2", inv.Messages[1].Content.String())

	assert.Equal(t, 16, inv.Messages[2].Offset)
	assert.Nil(t, inv.Messages[2].Content)
	assert.NotEmpty(t, inv.Messages[2].Error)
}

func TestIdentifyEmpty(t *testing.T) {
	inv := Identify("empty.syx", nil)
	assert.Empty(t, inv.Messages)
	assert.NotNil(t, inv.Messages)
}

func TestWriteInventory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInventory(&buf, Identify("bank.syx", k4.NewBank().ToBytes())))

	out := buf.String()
	assert.Contains(t, out, "bank.syx: 15 kB (15,123 bytes), 1 SysEx message\n")
	assert.Contains(t, out, "  #1 at 0, 15 kB: Kawai Musical Instruments MFG. CO. Ltd (40H)\n")
	assert.Contains(t, out, "     Block / All / INT\n")
}
