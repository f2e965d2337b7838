package k4

import (
	"fmt"

	"github.com/james-see/k4tool/pkg/sysex"
)

const (
	checksumSeed = 0xA5
	nameLength   = 10
)

// checksum is the K4 block checksum: the sum of the data bytes plus A5H,
// truncated to seven bits
func checksum(data []byte) byte {
	sum := checksumSeed
	for _, b := range data {
		sum += int(b)
	}
	return byte(sum & 0x7F)
}

// fieldDecoder reads patch parameters, keeping the first error it meets
type fieldDecoder struct {
	data []byte
	err  *sysex.DecodeError
}

// newFieldDecoder verifies the trailing checksum of a block before any
// field is read
func newFieldDecoder(data []byte) *fieldDecoder {
	d := &fieldDecoder{data: data}
	last := len(data) - 1
	if want := checksum(data[:last]); data[last] != want {
		d.err = sysex.ChecksumError(last, data[last], want)
	}
	return d
}

func (d *fieldDecoder) value(off int, field string, max int) int {
	if d.err != nil {
		return 0
	}
	v := int(d.data[off])
	if v > max {
		d.err = sysex.FieldError(field, off, v, max)
	}
	return v
}

// centered reads a 0~max value stored with its midpoint as zero
func (d *fieldDecoder) centered(off int, field string, max int) int {
	return d.value(off, field, max) - max/2
}

func (d *fieldDecoder) bits(off int, field string, shift, width uint, max int) int {
	if d.err != nil {
		return 0
	}
	v := int(d.data[off]>>shift) & (1<<width - 1)
	if v > max {
		d.err = sysex.FieldError(field, off, v, max)
	}
	return v
}

func (d *fieldDecoder) flag(off int, bit uint) bool {
	return d.data[off]&(1<<bit) != 0
}

func (d *fieldDecoder) wave(highOff, lowOff int) WaveNumber {
	return waveFromBytes(d.data[highOff], d.data[lowOff])
}

func (d *fieldDecoder) name(off int) string {
	for i := off; i < off+nameLength; i++ {
		d.value(i, "name", 0x7F)
	}
	return string(d.data[off : off+nameLength])
}

func (d *fieldDecoder) reserved(dst []byte, off int) {
	for i := range dst {
		dst[i] = byte(d.value(off+i, "reserved", 0x7F))
	}
}

// finish reports the first error, or an error for any byte the decoded
// value would not reproduce (reserved bits set)
func (d *fieldDecoder) finish(encoded []byte) error {
	if d.err != nil {
		return d.err
	}
	for i := range d.data {
		if encoded[i] != d.data[i] {
			return &sysex.DecodeError{
				Cause:  sysex.ErrInvalidField,
				Field:  "reserved bits",
				Offset: i,
				Detail: fmt.Sprintf("got 0x%02X, expected 0x%02X", d.data[i], encoded[i]),
			}
		}
	}
	return nil
}

func centered(v, max int) byte {
	return byte(v + max/2)
}

func flagBit(set bool, bit uint) byte {
	if set {
		return 1 << bit
	}
	return 0
}

func putName(dst []byte, name string) {
	for i := range dst {
		if i < len(name) {
			dst[i] = name[i]
		} else {
			dst[i] = ' '
		}
	}
}

func checkSize(data []byte, want int) error {
	if len(data) != want {
		return &sysex.SizeError{Got: len(data), Want: want}
	}
	return nil
}
