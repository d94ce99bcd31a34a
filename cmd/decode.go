package cmd

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aprskit/aprs"
	"aprskit/device/kiss"
)

var (
	decodeHex     bool
	decodeFCS     bool
	decodeBits    bool
	decodeLenient bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <frame>",
	Short: "Decode a single frame",
	Long: `Decode a frame given as TNC2 text, or as hex bytes with --hex.

Hex input may be a raw AX.25 UI frame, a KISS data frame with or without
FEND delimiters, or with --fcs a byte-aligned frame whose last two bytes
are the frame check sequence. --bits takes a flag-delimited, bit-stuffed
stream of 0s and 1s as printed by "encode --format link".`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	f := decodeCmd.Flags()
	f.BoolVarP(&decodeHex, "hex", "x", false, "Input is hex bytes")
	f.BoolVar(&decodeFCS, "fcs", false, "Hex input ends with a frame check sequence (implies --hex)")
	f.BoolVar(&decodeBits, "bits", false, "Input is a link-level bit stream")
	f.BoolVar(&decodeLenient, "lenient", false, "Accept information fields with an unknown data type")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, f, err := decodeInput(args[0], decodeOptions{
		Hex:     decodeHex,
		FCS:     decodeFCS,
		Bits:    decodeBits,
		Lenient: decodeLenient,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), describeFrame(raw, f))
	return nil
}

type decodeOptions struct {
	Hex, FCS, Bits, Lenient bool
}

// decodeInput turns command-line input into frame bytes and parses them.
func decodeInput(input string, o decodeOptions) ([]byte, *aprs.Frame, error) {
	parse := aprs.ParseFrame
	if o.Lenient {
		parse = aprs.ParseFrameLenient
	}

	if o.Bits {
		bits := make([]bool, 0, len(input))
		for _, r := range input {
			switch r {
			case '0':
				bits = append(bits, false)
			case '1':
				bits = append(bits, true)
			case ' ', '\n', '\t':
			default:
				return nil, nil, fmt.Errorf("bit stream contains %q", r)
			}
		}
		f, err := aprs.ParseLinkBits(bits)
		if err != nil {
			return nil, nil, err
		}
		return f.EncodeUI(), f, nil
	}

	if !o.Hex && !o.FCS {
		raw := []byte(input)
		f, err := parse(raw)
		return raw, f, err
	}

	raw, err := hex.DecodeString(strings.Join(strings.Fields(input), ""))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid hex input: %w", err)
	}
	if len(raw) > 0 && raw[0] == kiss.FEND {
		raw, err = kiss.NewDecoder(bytes.NewReader(raw)).ReadFrame()
		if err != nil {
			return nil, nil, fmt.Errorf("invalid KISS framing: %w", err)
		}
	}
	if o.FCS {
		if raw, err = aprs.CheckFrame(raw); err != nil {
			return nil, nil, &aprs.ParseError{Stage: "fcs", Err: err}
		}
	}
	f, err := parse(raw)
	return raw, f, err
}

func describeFrame(raw []byte, f *aprs.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode:        %s\n", aprs.DetectMode(raw))
	fmt.Fprintf(&b, "source:      %s\n", f.Source)
	fmt.Fprintf(&b, "destination: %s\n", f.Destination)
	if len(f.Path) > 0 {
		hops := make([]string, len(f.Path))
		for i, hop := range f.Path {
			hops[i] = hop.String()
		}
		fmt.Fprintf(&b, "path:        %s\n", strings.Join(hops, ","))
	}
	fmt.Fprintf(&b, "category:    %s\n", f.Info.Category)
	fmt.Fprintf(&b, "well-formed: %t\n", f.Info.WellFormed)
	fmt.Fprintf(&b, "info:        %q\n", f.Info.Payload)
	fmt.Fprintf(&b, "tnc2:        %s\n", f)
	return b.String()
}
