package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aprskit/aprs"
)

var passcodeCmd = &cobra.Command{
	Use:   "passcode [callsign]",
	Short: "Print the APRS-IS passcode for a callsign",
	Long: `Print the APRS-IS passcode for a callsign. The SSID is ignored.
Without an argument the configured station callsign is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPasscode,
}

func init() {
	rootCmd.AddCommand(passcodeCmd)
}

func runPasscode(cmd *cobra.Command, args []string) error {
	var callsign string
	if len(args) == 1 {
		callsign = args[0]
	} else {
		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if callsign = conf.Station.Callsign; callsign == "" {
			return fmt.Errorf("no callsign given and none configured")
		}
	}

	code, err := aprs.Passcode(callsign)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), code)
	return nil
}
