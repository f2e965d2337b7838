package sysex

import (
	"errors"
	"fmt"
	"strings"
)

// Development is the non-commercial manufacturer id
const Development = 0x7D

// Manufacturer identifies the maker of a SysEx message
type Manufacturer struct {
	ID   []byte
	Name string
}

var manufacturers = map[string]string{
	"\x01":         "Sequential Circuits",
	"\x00\x00\x01": "Time/Warner Interactive",
	"\x00\x00\x0E": "Alesis Studio Electronics",
	"\x00\x20\x29": "Focusrite/Novation",
	"\x00\x20\x32": "Behringer GmbH",
	"\x40":         "Kawai Musical Instruments MFG. CO. Ltd",
	"\x41":         "Roland Corporation",
	"\x42":         "Korg Inc.",
	"\x43":         "Yamaha Corporation",
	"\x7D":         "Development/Non-commercial",
}

// LookupManufacturer resolves an id to a Manufacturer, using "*unknown*"
// for ids missing from the table
func LookupManufacturer(id []byte) Manufacturer {
	name, ok := manufacturers[string(id)]
	if !ok {
		name = "*unknown*"
	}
	return Manufacturer{ID: id, Name: name}
}

func (m Manufacturer) String() string {
	ids := make([]string, len(m.ID))
	for i, b := range m.ID {
		ids[i] = fmt.Sprintf("%02XH", b)
	}
	return fmt.Sprintf("%s (%s)", m.Name, strings.Join(ids, " "))
}

// ExtractManufacturerID extracts the one or three byte manufacturer id
func ExtractManufacturerID(data []byte) ([]byte, error) {
	if len(data) < 3 {
		return nil, errors.New("syx data too short for manufacturer ID")
	}

	if data[0] != Start {
		return nil, errors.New("invalid SysEx start")
	}

	if data[1] == 0x7E || data[1] == 0x7F {
		return nil, errors.New("universal System Exclusive messages are not supported")
	}

	// Extended manufacturer ID starts with 0x00
	if data[1] == 0x00 {
		if len(data) < 5 {
			return nil, errors.New("syx data too short for extended manufacturer ID")
		}
		return data[1:4], nil
	}

	return data[1:2], nil
}
