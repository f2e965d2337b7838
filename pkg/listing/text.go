package listing

import (
	"bufio"
	"fmt"
	"io"
)

func writeText(w io.Writer, l Listing) error {
	bw := bufio.NewWriter(w)

	if l.Title != "" {
		fmt.Fprintf(bw, "%s\n\n", l.Title)
	}

	fmt.Fprintln(bw, "SINGLE patches:")
	writeGrid(bw, "S", l.SingleRows())

	fmt.Fprintln(bw, "\nMULTI patches:")
	writeGrid(bw, "M", l.MultiRows())

	fmt.Fprintln(bw, "\nDRUM:")
	fmt.Fprintf(bw, "VOLUME = %d  RCV CH = %d  VELO DEPTH = %d\n", l.Drum.Volume, l.Drum.ReceiveChannel, l.Drum.VelocityDepth)
	fmt.Fprintln(bw, "KEY NOTE  WAVE S1  WAVE S2  DECAY S1  DECAY S2  TUNE S1  TUNE S2  LEVEL S1  LEVEL S2  SUBMIX")
	for _, n := range l.Drum.Notes {
		fmt.Fprintf(bw, "%3d %-4s  %7s  %7s  %8d  %8d  %7d  %7d  %8d  %8d  %6s\n",
			n.Key, n.Note, n.Waves[0], n.Waves[1], n.Decay[0], n.Decay[1],
			n.Tune[0], n.Tune[1], n.Level[0], n.Level[1], n.Submix)
	}

	fmt.Fprintln(bw, "\nEFFECT SETTINGS:")
	for _, e := range l.Effects {
		fmt.Fprintf(bw, "E-%2d  %s\n", e.Number, e)
	}

	return bw.Flush()
}

func writeGrid(w io.Writer, prefix string, rows []Row) {
	for _, row := range rows {
		for i, e := range row.Entries {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			fmt.Fprintf(w, "%s%-4s  %-10s", prefix, e.Label, e.Name)
		}
		fmt.Fprintln(w)
	}
}
