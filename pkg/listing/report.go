package listing

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/james-see/k4tool/pkg/k4"
)

// report lays out parameter tables: a category column, a label column and
// one centered value column per source, filter or section
type report struct {
	w     *bufio.Writer
	last  string
	width int
}

func newReport(w io.Writer, width int) *report {
	return &report{w: bufio.NewWriter(w), width: width}
}

func (r *report) single(label string, value any) {
	fmt.Fprintf(r.w, "%-10s%v\n", label, value)
}

func (r *report) header(titles ...string) {
	fmt.Fprintf(r.w, "%-30s", "")
	for _, t := range titles {
		fmt.Fprint(r.w, centerText(t, r.width))
	}
	fmt.Fprintln(r.w)
}

// row writes a labelled row; the category is printed only when it changes
func (r *report) row(category, label string, values ...any) {
	if category == r.last {
		category = ""
	} else {
		r.last = category
	}
	fmt.Fprintf(r.w, "%-10s%-20s", category, label)
	if len(values) == 1 && r.width == 0 {
		fmt.Fprintf(r.w, " %v", values[0])
	}
	if r.width > 0 {
		for _, v := range values {
			fmt.Fprint(r.w, centerText(fmt.Sprint(v), r.width))
		}
	}
	fmt.Fprintln(r.w)
}

func (r *report) flush() error {
	return r.w.Flush()
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func perSource[T any](items [k4.SourceCount]T, f func(T) any) []any {
	values := make([]any, 0, len(items))
	for _, it := range items {
		values = append(values, f(it))
	}
	return values
}

func perFilter(items [k4.FilterCount]k4.Filter, f func(k4.Filter) any) []any {
	return []any{f(items[0]), f(items[1])}
}

// WriteSingleReport writes every parameter of a single patch
func WriteSingleReport(w io.Writer, p *k4.SinglePatch, names k4.WaveNames) error {
	common := newReport(w, 0)
	common.single("Volume", p.Volume)
	common.single("Effect", p.Effect)
	common.single("Submix ch", p.Submix)
	common.single("Name", patchName(p.Name))

	var am []string
	if p.AM12 {
		am = append(am, "1>2")
	}
	if p.AM34 {
		am = append(am, "3>4")
	}
	common.row("Common", "Source Mode", p.SourceMode)
	common.row("Common", "AM", strings.Join(am, " "))
	common.row("Common", "Poly Mode", p.PolyMode)
	common.row("Common", "Bender Range", p.PitchBend)
	common.row("Common", "Press Freq", p.PressureFreq)
	common.row("Common", "Wheel Assign", p.WheelAssign)
	common.row("Common", "      Depth", p.WheelDepth)
	common.row("Common", "Auto Bend Time", p.AutoBend.Time)
	common.row("Common", "          Depth", p.AutoBend.Depth)
	common.row("Common", "          KS Time", p.AutoBend.KeyScalingTime)
	common.row("Common", "          Vel Depth", p.AutoBend.VelocityDepth)
	common.row("LFO", "Vibrato Shape", p.Vibrato.Shape)
	common.row("LFO", "        Speed", p.Vibrato.Speed)
	common.row("LFO", "        Depth", p.Vibrato.Depth)
	common.row("LFO", "        Press Depth", p.Vibrato.Pressure)
	common.row("LFO", "DCF-LFO Shape", p.LFO.Shape)
	common.row("LFO", "        Speed", p.LFO.Speed)
	common.row("LFO", "        Delay", p.LFO.Delay)
	common.row("LFO", "        Depth", p.LFO.Depth)
	common.row("LFO", "        Press Depth", p.LFO.PressureDepth)
	if err := common.flush(); err != nil {
		return err
	}

	src := newReport(w, 10)
	src.header("S1", "S2", "S3", "S4")
	src.row("S-Common", "Mute", perSource(p.SourceMutes, func(m bool) any { return onOff(m) })...)
	src.row("S-Common", "Delay", perSource(p.Sources, func(s k4.Source) any { return s.Delay })...)
	src.row("S-Common", "Vel curve", perSource(p.Sources, func(s k4.Source) any { return s.VelocityCurve })...)
	src.row("S-Common", "KS curve", perSource(p.Sources, func(s k4.Source) any { return s.KeyScalingCurve })...)
	src.row("DCO", "Wave", perSource(p.Sources, func(s k4.Source) any { return s.Wave })...)
	src.row("DCO", "Key Track", perSource(p.Sources, func(s k4.Source) any { return onOff(s.KeyTrack) })...)
	src.row("DCO", "Coarse", perSource(p.Sources, func(s k4.Source) any { return s.Coarse })...)
	src.row("DCO", "Fixed Key", perSource(p.Sources, func(s k4.Source) any { return k4.NoteName(s.FixedKey) })...)
	src.row("DCO", "Fine", perSource(p.Sources, func(s k4.Source) any { return s.Fine })...)
	src.row("DCO", "Press freq", perSource(p.Sources, func(s k4.Source) any { return onOff(s.PressureFreq) })...)
	src.row("DCO", "Vib/A.bend", perSource(p.Sources, func(s k4.Source) any { return onOff(s.Vibrato) })...)
	src.row("DCA", "Level", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.Level })...)
	src.row("DCA", "Attack", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.Envelope.Attack })...)
	src.row("DCA", "Decay", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.Envelope.Decay })...)
	src.row("DCA", "Sustain", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.Envelope.Sustain })...)
	src.row("DCA", "Release", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.Envelope.Release })...)
	src.row("DCA Mod", "Vel Depth", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.LevelMod.VelocityDepth })...)
	src.row("DCA Mod", "Press Depth", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.LevelMod.PressureDepth })...)
	src.row("DCA Mod", "KS Depth", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.LevelMod.KeyScalingDepth })...)
	src.row("DCA Mod", "Time Mod Attack", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.TimeMod.AttackVelocity })...)
	src.row("DCA Mod", "         Release", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.TimeMod.ReleaseVelocity })...)
	src.row("DCA Mod", "         KS", perSource(p.Amplifiers, func(a k4.Amplifier) any { return a.TimeMod.KeyScaling })...)
	if err := src.flush(); err != nil {
		return err
	}

	dcf := newReport(w, 20)
	dcf.header("F1", "F2")
	dcf.row("DCF", "Cutoff", perFilter(p.Filters, func(f k4.Filter) any { return f.Cutoff })...)
	dcf.row("DCF", "Resonance", perFilter(p.Filters, func(f k4.Filter) any { return f.Resonance })...)
	dcf.row("DCF", "Vel Depth", perFilter(p.Filters, func(f k4.Filter) any { return f.CutoffMod.VelocityDepth })...)
	dcf.row("DCF", "Press Depth", perFilter(p.Filters, func(f k4.Filter) any { return f.CutoffMod.PressureDepth })...)
	dcf.row("DCF", "KS Depth", perFilter(p.Filters, func(f k4.Filter) any { return f.CutoffMod.KeyScalingDepth })...)
	dcf.row("DCF", "LFO", perFilter(p.Filters, func(f k4.Filter) any { return onOff(f.LFO) })...)
	dcf.row("DCF Mod", "Env Depth", perFilter(p.Filters, func(f k4.Filter) any { return f.EnvelopeDepth })...)
	dcf.row("DCF Mod", "Vel Depth", perFilter(p.Filters, func(f k4.Filter) any { return f.EnvelopeVelocityDepth })...)
	dcf.row("DCF Mod", "Attack", perFilter(p.Filters, func(f k4.Filter) any { return f.Envelope.Attack })...)
	dcf.row("DCF Mod", "Decay", perFilter(p.Filters, func(f k4.Filter) any { return f.Envelope.Decay })...)
	dcf.row("DCF Mod", "Sustain", perFilter(p.Filters, func(f k4.Filter) any { return f.Envelope.Sustain })...)
	dcf.row("DCF Mod", "Release", perFilter(p.Filters, func(f k4.Filter) any { return f.Envelope.Release })...)
	dcf.row("DCF Mod", "Time Mod Attack", perFilter(p.Filters, func(f k4.Filter) any { return f.TimeMod.AttackVelocity })...)
	dcf.row("DCF Mod", "         Release", perFilter(p.Filters, func(f k4.Filter) any { return f.TimeMod.ReleaseVelocity })...)
	dcf.row("DCF Mod", "         KS", perFilter(p.Filters, func(f k4.Filter) any { return f.TimeMod.KeyScaling })...)
	if err := dcf.flush(); err != nil {
		return err
	}

	return writeWaveNames(w, p, names)
}

// writeWaveNames lists the names of the waves used by the sources, if known
func writeWaveNames(w io.Writer, p *k4.SinglePatch, names k4.WaveNames) error {
	var parts []string
	for i, s := range p.Sources {
		if name, ok := names[s.Wave]; ok {
			parts = append(parts, fmt.Sprintf("S%d = %s", i+1, k4.Wave{Number: s.Wave, Name: name}))
		}
	}
	if len(parts) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}

// WriteMultiReport writes every parameter of a multi patch, followed by the
// names of the singles its sections play
func WriteMultiReport(w io.Writer, p *k4.MultiPatch, b *k4.Bank) error {
	common := newReport(w, 0)
	common.single("Volume", p.Volume)
	common.single("Effect", p.Effect)
	common.single("Name", patchName(p.Name))
	if err := common.flush(); err != nil {
		return err
	}

	sec := newReport(w, 5)
	titles := make([]string, k4.SectionCount)
	for i := range titles {
		titles[i] = strconv.Itoa(i + 1)
	}
	sec.header(titles...)

	used := map[int]string{}
	values := func(f func(k4.Section) any) []any {
		out := make([]any, 0, k4.SectionCount)
		for _, s := range p.Sections {
			out = append(out, f(s))
		}
		return out
	}
	sec.row("Inst", "Single Number", values(func(s k4.Section) any {
		used[s.SinglePatch] = patchName(b.Singles[s.SinglePatch].Name)
		return s.SingleLabel()
	})...)
	sec.row("Zone", "Zone Lo", values(func(s k4.Section) any { return k4.NoteName(s.ZoneLow) })...)
	sec.row("Zone", "Zone Hi", values(func(s k4.Section) any { return k4.NoteName(s.ZoneHigh) })...)
	sec.row("Zone", "Vel Sw", values(func(s k4.Section) any { return s.VelocitySwitch })...)
	sec.row("Sec Ch", "Rcv Ch", values(func(s k4.Section) any { return s.ReceiveChannel })...)
	sec.row("Sec Ch", "Mode", values(func(s k4.Section) any { return s.PlayMode })...)
	sec.row("Sec Ch", "Mute", values(func(s k4.Section) any { return onOff(s.Muted) })...)
	sec.row("Output", "Level", values(func(s k4.Section) any { return s.Level })...)
	sec.row("Output", "Trans", values(func(s k4.Section) any { return s.Transpose })...)
	sec.row("Output", "Tune", values(func(s k4.Section) any { return s.Tune })...)
	sec.row("Output", "Submix Ch", values(func(s k4.Section) any { return s.Submix })...)

	parts := make([]string, 0, len(used))
	for _, i := range slices.Sorted(maps.Keys(used)) {
		parts = append(parts, fmt.Sprintf("%s = %s", k4.PatchLabel(i), used[i]))
	}
	fmt.Fprintln(sec.w, strings.Join(parts, "  "))

	return sec.flush()
}
