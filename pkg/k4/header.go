package k4

import (
	"fmt"

	"github.com/james-see/k4tool/pkg/sysex"
)

// SysEx header constants
const (
	HeaderSize     = 8 // F0, manufacturer, channel, function, group, machine, substatus 1 and 2
	ManufacturerID = 0x40
	SynthGroup     = 0x00
	MachineID      = 0x04
)

// Function is the K4 SysEx function byte
type Function byte

const (
	OnePatchDumpRequest   Function = 0x00
	BlockPatchDumpRequest Function = 0x01
	AllPatchDumpRequest   Function = 0x02
	ParameterSend         Function = 0x10
	OnePatchDataDump      Function = 0x20
	BlockPatchDataDump    Function = 0x21
	AllPatchDataDump      Function = 0x22
	EditBufferDump        Function = 0x23
	ProgramChange         Function = 0x30
	WriteComplete         Function = 0x40
	WriteError            Function = 0x41
	WriteErrorProtect     Function = 0x42
	WriteErrorNoCard      Function = 0x43
)

var functionNames = map[Function]string{
	OnePatchDumpRequest:   "One Patch Dump Request",
	BlockPatchDumpRequest: "Block Patch Dump Request",
	AllPatchDumpRequest:   "All Patch Dump Request",
	ParameterSend:         "Parameter Send",
	OnePatchDataDump:      "One Patch Data Dump",
	BlockPatchDataDump:    "Block Patch Data Dump",
	AllPatchDataDump:      "All Patch Data Dump",
	EditBufferDump:        "Edit Buffer Dump",
	ProgramChange:         "Program Change",
	WriteComplete:         "Write Complete",
	WriteError:            "Write Error",
	WriteErrorProtect:     "Write Error (Protect)",
	WriteErrorNoCard:      "Write Error (No Card)",
}

func (f Function) String() string {
	if name, ok := functionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Function %02XH", byte(f))
}

// Locality tells internal memory from a memory card
type Locality int

const (
	Internal Locality = iota
	External
)

func (l Locality) String() string {
	if l == External {
		return "EXT"
	}
	return "INT"
}

func (l Locality) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// substatus returns the substatus 1 value for single/multi and all dumps
func (l Locality) substatus() byte {
	if l == External {
		return 0x02
	}
	return 0x00
}

// Kind is the kind of data a message carries
type Kind int

const (
	KindUnknown Kind = iota
	KindSingle
	KindMulti
	KindDrum
	KindEffect
	KindAll
)

var kindNames = []string{"Unknown", "Single", "Multi", "Drum", "Effect", "All"}

func (k Kind) String() string { return enumName(kindNames, int(k)) }

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Cardinality tells one-patch dumps from block dumps
type Cardinality int

const (
	CardinalityOne Cardinality = iota
	CardinalityBlock
)

func (c Cardinality) String() string {
	if c == CardinalityBlock {
		return "Block"
	}
	return "One"
}

func (c Cardinality) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Header holds the fixed eight byte K4 SysEx header
type Header struct {
	Channel    byte // 0~15
	Function   Function
	Group      byte
	Machine    byte
	Substatus1 byte
	Substatus2 byte
}

// ParseHeader reads the header of a complete Kawai SysEx message
func ParseHeader(msg []byte) (Header, error) {
	if len(msg) < HeaderSize {
		return Header{}, &sysex.DecodeError{
			Cause:  sysex.ErrTruncated,
			Field:  "header",
			Offset: len(msg),
			Detail: fmt.Sprintf("need %d bytes, got %d", HeaderSize, len(msg)),
		}
	}
	if msg[0] != sysex.Start {
		return Header{}, sysex.HeaderError("start", 0, msg[0], sysex.Start)
	}
	if msg[1] != ManufacturerID {
		return Header{}, sysex.HeaderError("manufacturer", 1, msg[1], ManufacturerID)
	}
	return Header{
		Channel:    msg[2],
		Function:   Function(msg[3]),
		Group:      msg[4],
		Machine:    msg[5],
		Substatus1: msg[6],
		Substatus2: msg[7],
	}, nil
}

// Bytes encodes the header including the start byte
func (h Header) Bytes() []byte {
	return []byte{sysex.Start, ManufacturerID, h.Channel, byte(h.Function), h.Group, h.Machine, h.Substatus1, h.Substatus2}
}

func (h Header) String() string {
	return fmt.Sprintf("Channel = %d, Function = %02XH, Group = %02XH, Machine = %02XH, Substatus1 = %02XH, Substatus2 = %02XH",
		h.Channel+1, byte(h.Function), h.Group, h.Machine, h.Substatus1, h.Substatus2)
}

// Identification describes what a message contains
type Identification struct {
	Kind        Kind        `json:"kind"`
	Locality    Locality    `json:"locality"`
	Cardinality Cardinality `json:"cardinality"`
	PatchNumber int         `json:"patch_number"` // -1 when the message holds more than one patch
}

func (id Identification) String() string {
	s := fmt.Sprintf("%s / %s / %s", id.Cardinality, id.Kind, id.Locality)
	switch {
	case id.PatchNumber < 0:
	case id.Kind == KindSingle || id.Kind == KindMulti:
		s += " " + PatchLabel(id.PatchNumber)
	case id.Kind == KindEffect:
		s += fmt.Sprintf(" E-%d", id.PatchNumber+1)
	}
	return s
}

// Identify classifies the message from its function and substatus bytes.
// Messages for another Kawai machine, such as a K1 or K5, keep KindUnknown.
func (h Header) Identify() Identification {
	id := Identification{Kind: KindUnknown, PatchNumber: -1}
	if h.Substatus1 >= 0x02 {
		id.Locality = External
	}
	if h.Function == BlockPatchDataDump || h.Function == AllPatchDataDump {
		id.Cardinality = CardinalityBlock
	}
	if h.Group != SynthGroup || h.Machine != MachineID {
		return id
	}
	sub1 := h.Substatus1 &^ 0x02
	n := int(h.Substatus2)

	switch h.Function {
	case OnePatchDataDump:
		switch {
		case sub1 == 0x00 && n < 64:
			id.Kind, id.PatchNumber = KindSingle, n
		case sub1 == 0x00 && n < 128:
			id.Kind, id.PatchNumber = KindMulti, n-64
		case sub1 == 0x01 && n < 32:
			id.Kind, id.PatchNumber = KindEffect, n
		case sub1 == 0x01 && n == 32:
			id.Kind = KindDrum
		}
	case BlockPatchDataDump:
		switch {
		case sub1 == 0x00 && n == 0x00:
			id.Kind = KindSingle
		case sub1 == 0x00 && n == 0x40:
			id.Kind = KindMulti
		case sub1 == 0x01 && n == 0x00:
			id.Kind = KindEffect
		}
	case AllPatchDataDump:
		if sub1 == 0x00 && n == 0x00 {
			id.Kind = KindAll
		}
	}
	return id
}
