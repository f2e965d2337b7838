package sysex

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// SysEx status bytes
const (
	Start = 0xF0
	End   = 0xF7
)

// Frame wraps a payload in SysEx start and end bytes
func Frame(payload []byte) []byte {
	return []byte(midi.SysEx(payload))
}

// Payload returns a copy of the bytes between the start and end bytes
func Payload(msg []byte) ([]byte, error) {
	if err := Validate(msg); err != nil {
		return nil, err
	}
	var bt []byte
	if !midi.Message(msg).GetSysEx(&bt) {
		return nil, errors.New("not a SysEx message")
	}
	out := make([]byte, len(bt))
	copy(out, bt)
	return out, nil
}

// Validate checks the SysEx framing and that all data bytes are 7-bit
func Validate(data []byte) error {
	if len(data) < 2 {
		return &DecodeError{Cause: ErrTruncated, Detail: fmt.Sprintf("%d bytes", len(data))}
	}

	if data[0] != Start {
		return HeaderError("start", 0, data[0], Start)
	}

	last := len(data) - 1
	if data[last] != End {
		return HeaderError("end", last, data[last], End)
	}

	for i := 1; i < last; i++ {
		if data[i] > 0x7F {
			return &DecodeError{
				Cause:  ErrInvalidField,
				Field:  "data byte",
				Offset: i,
				Detail: fmt.Sprintf("0x%02X is not 7-bit", data[i]),
			}
		}
	}

	return nil
}

// Split returns every complete F0..F7 message found in data, in order.
// Bytes outside messages are skipped.
func Split(data []byte) [][]byte {
	var messages [][]byte
	start := -1
	for i, b := range data {
		switch {
		case b == Start:
			start = i
		case b == End && start >= 0:
			messages = append(messages, data[start:i+1])
			start = -1
		}
	}
	return messages
}
