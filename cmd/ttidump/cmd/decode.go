package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gkthemac/teletextdecoder/pkg/teletext"
	"github.com/gkthemac/teletextdecoder/pkg/teletext/reader/ep1"
	"github.com/gkthemac/teletextdecoder/pkg/teletext/reader/t42"
	"github.com/gkthemac/teletextdecoder/pkg/teletext/reader/tti"
	"github.com/gkthemac/teletextdecoder/pkg/teletextutil"
)

// cellDump is the JSON shape for one decoded cell, matching the decoder's
// accessor surface rather than its internal struct layout.
type cellDump struct {
	Char       string `json:"char"`
	CharSet    int    `json:"charSet"`
	Diacritic  int    `json:"diacritic,omitempty"`
	Foreground int    `json:"fg"`
	Background int    `json:"bg"`
	Fragment   string `json:"fragment,omitempty"`
	Conceal    bool   `json:"conceal,omitempty"`
	Invert     bool   `json:"invert,omitempty"`
}

// pageDump is the JSON shape for one decoded subpage.
type pageDump struct {
	ID       string       `json:"id"`
	Number   int          `json:"number"`
	Subcode  int          `json:"subcode"`
	FlashBit int          `json:"flashPresent"`
	Palette  []byte       `json:"palette"`
	Rows     [25][72]cellDump `json:"rows"`
}

// NewDecodeCmd creates the decode cobra command.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "decode a teletext capture file and dump its cell grid",
		Long:  "Reads a capture file with the selected reader, decodes each subpage found in it, and writes the resulting cell grids to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			levelFlag, _ := cmd.Flags().GetString("level")
			allowBlackForeground, _ := cmd.Flags().GetBool("classic")
			outFormat, _ := cmd.Flags().GetString("output")

			level, ok := teletext.ParseLevel(levelFlag)
			if !ok {
				return fmt.Errorf("ttidump: unrecognized level %q", levelFlag)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("ttidump: opening %s: %w", args[0], err)
			}
			defer f.Close()

			pages, err := readPages(format, f)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "decoded capture", "file", args[0], "format", format, "pages", len(pages))

			dumps := make([]pageDump, 0, len(pages))
			for _, page := range pages {
				d := teletext.NewDecoder()
				d.Decode(page, level, !allowBlackForeground, true)
				dumps = append(dumps, dumpPage(page, d))
			}

			return writeDumps(os.Stdout, dumps, outFormat)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "tti", "capture format (tti|t42|ep1)")
	pf.String("level", "1", "decode level (1|1.5|2.5|3.5)")
	pf.Bool("classic", false, "disallow black foreground (pre-Level-2.5 receiver behaviour)")
	pf.StringP("output", "o", "json", "output format (json|text)")
	return cmd
}

func readPages(format string, r io.Reader) ([]teletext.PacketMap, error) {
	switch format {
	case "tti":
		return tti.Read(r)
	case "t42":
		return t42.Read(r)
	case "ep1":
		return ep1.Read(r)
	default:
		return nil, fmt.Errorf("ttidump: unrecognized format %q", format)
	}
}

func dumpPage(page teletext.PacketMap, d *teletext.Decoder) pageDump {
	// encoding/json cannot use the struct PacketKey as a map key, so the
	// enhancement packets are re-keyed as "Y/D" strings before hashing.
	enh := make(map[string]teletext.TripletPacket, len(page.Enhancements))
	for k, v := range page.Enhancements {
		enh[fmt.Sprintf("%d/%d", k.Y, k.D)] = v
	}
	dump := pageDump{
		ID: teletextutil.HashUUID(struct {
			Region          int
			ControlBits     map[int]struct{}
			Rows            map[int]teletext.Row
			Enhancements    map[string]teletext.TripletPacket
			Number, Subcode int
		}{page.Region, page.ControlBits, page.Rows, enh, page.Number, page.Subcode}),
		Number:   page.Number,
		Subcode:  page.Subcode,
		FlashBit: d.GetFlashPresent(),
		Palette:  d.GetPalette(),
	}
	for r := 0; r < 25; r++ {
		for c := 0; c < 72; c++ {
			dump.Rows[r][c] = cellDump{
				Char:       string(d.GetCharCode(r, c)),
				CharSet:    d.GetCharSet(r, c),
				Diacritic:  d.GetCharDiacritic(r, c),
				Foreground: d.GetForeground(r, c),
				Background: d.GetBackground(r, c),
				Fragment:   string(d.GetFragment(r, c)),
				Conceal:    d.GetConceal(r, c),
				Invert:     d.GetInvert(r, c),
			}
		}
	}
	return dump
}

func writeDumps(w io.Writer, dumps []pageDump, format string) error {
	switch format {
	case "text":
		for _, dump := range dumps {
			fmt.Fprintf(w, "--- page %03x/%04x (%s) ---\n", dump.Number, dump.Subcode, dump.ID)
			for r := 0; r < 25; r++ {
				var row []byte
				for c := 0; c < 40; c++ {
					ch := dump.Rows[r][c].Char
					if ch == "" {
						ch = " "
					}
					row = append(row, ch[0])
				}
				fmt.Fprintln(w, string(row))
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		if err := enc.Encode(dumps); err != nil {
			return fmt.Errorf("ttidump: writing output: %w", err)
		}
		return nil
	}
}
