package cmd

import (
	"errors"
	"fmt"
	"strings"

	"aprskit/aprs"
)

// frameOptions describes a frame to build from command-line style input.
// Exactly one payload source is used: a message (To), a position
// (HasPosition) or raw Info text, in that order.
type frameOptions struct {
	Source      string
	Destination string
	Path        []string

	Info string

	HasPosition bool
	Lat, Lon    float64
	Symbol      string // table and symbol, e.g. "/>"
	Comment     string
	Ambiguity   int
	Messaging   bool

	To      string
	Message string
	MsgID   string
}

var errNoPayload = errors.New("nothing to encode: give --info, --lat/--lon or --to/--msg")

func buildFrame(o frameOptions) (*aprs.Frame, error) {
	src, err := aprs.ParseCallsign(o.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	destText := o.Destination
	if destText == "" {
		destText = aprs.DefaultToCall
	}
	dest, err := aprs.ParseCallsign(destText)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	f := &aprs.Frame{Source: src, Destination: dest}
	for i, hop := range o.Path {
		call, err := aprs.ParseCallsign(hop)
		if err != nil {
			return nil, fmt.Errorf("path[%d]: %w", i, err)
		}
		f.Path = append(f.Path, call)
	}

	f.Info, err = buildInfo(o)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func buildInfo(o frameOptions) (aprs.InformationField, error) {
	switch {
	case o.To != "":
		return aprs.MessageInfo(o.To, o.Message, o.MsgID)
	case o.HasPosition:
		pos := aprs.Position{
			Latitude:  o.Lat,
			Longitude: o.Lon,
			Comment:   o.Comment,
			Ambiguity: o.Ambiguity,
			Messaging: o.Messaging,
		}
		switch len(o.Symbol) {
		case 0:
		case 2:
			pos.SymbolTable, pos.Symbol = o.Symbol[0], o.Symbol[1]
		default:
			return aprs.InformationField{}, fmt.Errorf("symbol %q must be table and code, e.g. \"/>\"", o.Symbol)
		}
		return pos.Info(), nil
	case o.Info != "":
		field, err := aprs.TagInformation([]byte(o.Info))
		if errors.Is(err, aprs.ErrUnknownCategory) {
			return aprs.NewInformationField([]byte(o.Info), aprs.CategoryUnknown), nil
		}
		return field, err
	default:
		return aprs.InformationField{}, errNoPayload
	}
}

// splitPath accepts "WIDE1-1,WIDE2-1" as well as repeated flags.
func splitPath(in []string) []string {
	var out []string
	for _, s := range in {
		for _, hop := range strings.Split(s, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				out = append(out, hop)
			}
		}
	}
	return out
}
