package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aprskit/aprs"
	"aprskit/device/kiss"
)

var (
	encodeOpts   frameOptions
	encodePath   []string
	encodeFormat string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a frame and print it in the chosen form",
	Long: `Build a frame from flags and print it.

Formats:
  text  TNC2 text, SRC>DEST,PATH:INFO
  ax25  flag, address block and information field (hex)
  ui    address block, control/PID and information field (hex)
  kiss  a FEND-delimited KISS data frame as sent to a TNC (hex)
  fcs   ui followed by its two-byte frame check sequence (hex)
  link  flag-delimited, bit-stuffed bit stream with FCS (0s and 1s)

The source defaults to the configured station callsign and the
destination to the configured tocall.`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

func init() {
	f := encodeCmd.Flags()
	f.StringVar(&encodeOpts.Source, "src", "", "Source callsign")
	f.StringVar(&encodeOpts.Destination, "dest", "", "Destination callsign")
	f.StringSliceVar(&encodePath, "path", nil, "Digipeater path, e.g. WIDE1-1,WIDE2-1")
	f.StringVar(&encodeOpts.Info, "info", "", "Raw information field")
	f.Float64Var(&encodeOpts.Lat, "lat", 0, "Latitude in decimal degrees")
	f.Float64Var(&encodeOpts.Lon, "lon", 0, "Longitude in decimal degrees")
	f.StringVar(&encodeOpts.Symbol, "symbol", "", "Symbol table and code, e.g. \"/>\"")
	f.StringVar(&encodeOpts.Comment, "comment", "", "Position comment")
	f.IntVar(&encodeOpts.Ambiguity, "ambiguity", 0, "Position ambiguity level (0-4)")
	f.BoolVar(&encodeOpts.Messaging, "messaging", false, "Advertise messaging capability")
	f.StringVar(&encodeOpts.To, "to", "", "Message addressee")
	f.StringVar(&encodeOpts.Message, "msg", "", "Message text")
	f.StringVar(&encodeOpts.MsgID, "id", "", "Message id")
	f.StringVarP(&encodeFormat, "format", "f", "text", "Output format: text, ax25, ui, kiss, fcs, link")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := encodeOpts
	opts.Path = splitPath(encodePath)
	opts.HasPosition = cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
	if opts.Source == "" {
		opts.Source = conf.Station.Callsign
	}
	if opts.Destination == "" {
		opts.Destination = conf.Station.ToCall
	}

	f, err := buildFrame(opts)
	if err != nil {
		return err
	}
	out, err := renderEncoded(f, encodeFormat)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func renderEncoded(f *aprs.Frame, format string) (string, error) {
	switch strings.ToLower(format) {
	case "text":
		return f.String(), nil
	case "ax25":
		return fmt.Sprintf("%X", f.EncodeAX25()), nil
	case "ui":
		return fmt.Sprintf("%X", f.EncodeUI()), nil
	case "kiss":
		return fmt.Sprintf("%X", kiss.Encode(f.EncodeKISS())), nil
	case "fcs":
		return fmt.Sprintf("%X", aprs.AppendFrameCheck(f.EncodeUI())), nil
	case "link":
		var b strings.Builder
		for _, bit := range f.LinkBits() {
			if bit {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
