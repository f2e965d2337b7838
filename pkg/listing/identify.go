package listing

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/james-see/k4tool/pkg/k4"
	"github.com/james-see/k4tool/pkg/sysex"
)

// Message describes one SysEx message found in a file
type Message struct {
	Offset       int                `json:"offset" yaml:"offset"`
	Size         int                `json:"size" yaml:"size"`
	Manufacturer string             `json:"manufacturer" yaml:"manufacturer"`
	Header       string             `json:"header,omitempty" yaml:"header,omitempty"`
	Content      *k4.Identification `json:"content,omitempty" yaml:"content,omitempty"`
	Error        string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Inventory lists the SysEx messages of a file
type Inventory struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Size     int       `json:"size" yaml:"size"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// Identify splits data into SysEx messages and classifies each one.
// Messages from other manufacturers are listed but not decoded.
func Identify(name string, data []byte) Inventory {
	inv := Inventory{Name: name, Size: len(data), Messages: []Message{}}
	pos := 0
	for _, msg := range sysex.Split(data) {
		off := pos + bytes.Index(data[pos:], msg)
		pos = off + len(msg)

		m := Message{Offset: off, Size: len(msg)}
		id, err := sysex.ExtractManufacturerID(msg)
		if err != nil {
			m.Manufacturer = "*unknown*"
			m.Error = err.Error()
			inv.Messages = append(inv.Messages, m)
			continue
		}
		m.Manufacturer = sysex.LookupManufacturer(id).String()

		if len(id) == 1 && id[0] == k4.ManufacturerID {
			h, err := k4.ParseHeader(msg)
			if err != nil {
				m.Error = err.Error()
			} else {
				m.Header = h.String()
				content := h.Identify()
				m.Content = &content
			}
		}
		inv.Messages = append(inv.Messages, m)
	}
	return inv
}

// SizeText returns the file size in human units
func (inv Inventory) SizeText() string {
	return humanize.Bytes(uint64(inv.Size))
}

// WriteInventory writes a human readable summary of inv
func WriteInventory(w io.Writer, inv Inventory) error {
	noun := "messages"
	if len(inv.Messages) == 1 {
		noun = "message"
	}
	name := inv.Name
	if name == "" {
		name = "input"
	}
	if _, err := fmt.Fprintf(w, "%s: %s (%s bytes), %d SysEx %s\n",
		name, inv.SizeText(), humanize.Comma(int64(inv.Size)), len(inv.Messages), noun); err != nil {
		return err
	}

	for i, m := range inv.Messages {
		fmt.Fprintf(w, "  #%d at %d, %s: %s\n", i+1, m.Offset, humanize.Bytes(uint64(m.Size)), m.Manufacturer)
		if m.Header != "" {
			fmt.Fprintf(w, "     %s\n", m.Header)
		}
		if m.Content != nil {
			fmt.Fprintf(w, "     %s\n", m.Content)
		}
		if m.Error != "" {
			if _, err := fmt.Fprintf(w, "     error: %s\n", m.Error); err != nil {
				return err
			}
		}
	}
	return nil
}
