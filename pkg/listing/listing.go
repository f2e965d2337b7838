// Package listing renders the contents of a K4 bank and the wave table
package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/james-see/k4tool/pkg/k4"
	"gopkg.in/yaml.v3"
)

// Entry is one named patch slot
type Entry struct {
	Label string `json:"label" yaml:"label"`
	Name  string `json:"name" yaml:"name"`
}

// Row is one line of the four-group patch grid, e.g. A-3 B-3 C-3 D-3
type Row struct {
	Number  int
	Entries []Entry
}

// DrumRow summarizes one drum key
type DrumRow struct {
	Key    int
	Note   string
	Submix k4.Submix
	Waves  [2]k4.WaveNumber
	Decay  [2]int
	Tune   [2]int
	Level  [2]int
}

// EffectRow summarizes one effect patch
type EffectRow struct {
	Number int
	Type   k4.EffectType
	Params [3]int
}

func (e EffectRow) String() string {
	return fmt.Sprintf("%s, %d, %d, %d", e.Type, e.Params[0], e.Params[1], e.Params[2])
}

// Listing is the renderer-neutral view of a bank
type Listing struct {
	Title    string
	Channel  int
	Locality k4.Locality
	Singles  []Entry
	Multis   []Entry
	Drum     DrumSummary
	Effects  []EffectRow

	bank *k4.Bank
}

// DrumSummary holds the drum patch common settings and its keys
type DrumSummary struct {
	ReceiveChannel int
	Volume         int
	VelocityDepth  int
	Notes          []DrumRow
}

// FromBank builds the listing model of a decoded bank
func FromBank(title string, b *k4.Bank) Listing {
	l := Listing{
		Title:    title,
		Channel:  b.Channel,
		Locality: b.Locality,
		Singles:  make([]Entry, 0, k4.SingleCount),
		Multis:   make([]Entry, 0, k4.MultiCount),
		Effects:  make([]EffectRow, 0, k4.EffectCount),
		bank:     b,
	}

	for i, p := range b.Singles {
		l.Singles = append(l.Singles, Entry{Label: k4.PatchLabel(i), Name: patchName(p.Name)})
	}
	for i, p := range b.Multis {
		l.Multis = append(l.Multis, Entry{Label: k4.PatchLabel(i), Name: patchName(p.Name)})
	}

	l.Drum = DrumSummary{
		ReceiveChannel: b.Drum.ReceiveChannel,
		Volume:         b.Drum.Volume,
		VelocityDepth:  b.Drum.VelocityDepth,
		Notes:          make([]DrumRow, 0, k4.DrumNoteCount),
	}
	for i, n := range b.Drum.Notes {
		key := k4.FirstDrumKey + i
		row := DrumRow{Key: key, Note: k4.NoteName(key), Submix: n.Submix}
		for j, s := range n.Sources {
			row.Waves[j] = s.Wave
			row.Decay[j] = s.Decay
			row.Tune[j] = s.Tune
			row.Level[j] = s.Level
		}
		l.Drum.Notes = append(l.Drum.Notes, row)
	}

	for i, e := range b.Effects {
		l.Effects = append(l.Effects, EffectRow{
			Number: i + 1,
			Type:   e.Type,
			Params: [3]int{e.Param1, e.Param2, e.Param3},
		})
	}
	return l
}

// Bank returns the bank the listing was built from
func (l Listing) Bank() *k4.Bank {
	return l.bank
}

// SingleRows arranges the singles in sixteen rows of four groups
func (l Listing) SingleRows() []Row { return grid(l.Singles) }

// MultiRows arranges the multis in sixteen rows of four groups
func (l Listing) MultiRows() []Row { return grid(l.Multis) }

// Groups returns the group letters heading the grid columns
func (l Listing) Groups() []string {
	groups := make([]string, k4.GroupCount)
	for i := range groups {
		groups[i] = k4.PatchLabel(i * k4.PatchesPerGroup)[:1]
	}
	return groups
}

func grid(entries []Entry) []Row {
	rows := make([]Row, k4.PatchesPerGroup)
	for r := range rows {
		rows[r].Number = r + 1
		for g := 0; g < k4.GroupCount; g++ {
			if i := g*k4.PatchesPerGroup + r; i < len(entries) {
				rows[r].Entries = append(rows[r].Entries, entries[i])
			}
		}
	}
	return rows
}

// patchName strips the space padding of a stored name and replaces
// control characters
func patchName(name string) string {
	return strings.TrimRight(strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return ' '
		}
		return r
	}, name), " ")
}

type document struct {
	Title string   `json:"title" yaml:"title"`
	Bank  *k4.Bank `json:"bank" yaml:"bank"`
}

// Render writes the listing in the given format
func Render(w io.Writer, l Listing, f Format) error {
	switch f {
	case FormatText:
		return writeText(w, l)
	case FormatHTML:
		return writeHTML(w, l)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Title: l.Title, Bank: l.bank})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document{Title: l.Title, Bank: l.bank}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
