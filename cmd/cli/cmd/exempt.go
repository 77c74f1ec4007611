package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toll-tracker/core/holiday"
	"toll-tracker/core/toll"
	"toll-tracker/core/types"
	"toll-tracker/internal/app"
	"toll-tracker/internal/config"
	"toll-tracker/internal/logging"
)

// exemptCmd groups the exemption checks
var exemptCmd = &cobra.Command{
	Use:   "exempt",
	Short: "Check whether a date or vehicle type is toll free",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var exemptDateCmd = &cobra.Command{
	Use:   "date <YYYY-MM-DD>",
	Short: "Check whether a date is toll free (weekend or public holiday)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := time.ParseInLocation(toll.DateLayout, args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
		}

		oracle, cleanup, err := app.BuildOracle(config.Get(), logging.Logger)
		if err != nil {
			return err
		}
		defer cleanup()

		exempt, err := holiday.NewResolver(oracle, logging.Logger).IsExempt(cmd.Context(), date)
		if err != nil {
			return err
		}

		if exempt {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is toll free\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is chargeable\n", args[0])
		}
		return nil
	},
}

var exemptVehicleCmd = &cobra.Command{
	Use:   "vehicle <type>",
	Short: "Check whether a vehicle type is toll exempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vehicleType, err := types.ParseVehicleType(args[0])
		if err != nil {
			return err
		}

		if vehicleType.IsTollExempt() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is toll exempt\n", vehicleType)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is chargeable\n", vehicleType)
		}
		return nil
	},
}

func init() {
	exemptCmd.AddCommand(exemptDateCmd)
	exemptCmd.AddCommand(exemptVehicleCmd)
}
