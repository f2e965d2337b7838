// Package sysex provides the System Exclusive data contract shared by every
// binary-encodable entity, along with message framing and validation helpers
package sysex

// Data is implemented by every entity with a fixed SysEx byte layout
type Data interface {
	// DataSize returns the exact encoded length in bytes
	DataSize() int
	// FromBytes decodes data into the receiver. The receiver is left
	// untouched when an error is returned.
	FromBytes(data []byte) error
	// ToBytes encodes the receiver. For any value produced by FromBytes
	// the result equals the decoded input.
	ToBytes() []byte
}

// Decode checks the buffer length against the entity size and decodes it
func Decode[T any, PT interface {
	*T
	Data
}](data []byte) (*T, error) {
	v := PT(new(T))
	if len(data) != v.DataSize() {
		return nil, &SizeError{Got: len(data), Want: v.DataSize()}
	}
	if err := v.FromBytes(data); err != nil {
		return nil, err
	}
	return (*T)(v), nil
}
