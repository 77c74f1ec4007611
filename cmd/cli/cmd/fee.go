package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toll-tracker/adapters/dataset"
	"toll-tracker/core/tariff"
	"toll-tracker/core/toll"
	"toll-tracker/core/types"
	"toll-tracker/internal/app"
	"toll-tracker/internal/config"
	"toll-tracker/internal/logging"
)

var feeDataFile string

// feeCmd computes one vehicle's fee from ad-hoc crossings
var feeCmd = &cobra.Command{
	Use:   "fee <vehicle-type> <timestamp>...",
	Short: "Calculate one vehicle's daily fee from the given crossings",
	Long: `Calculate the fee for a single vehicle's crossings on one day using the
price table from the dataset. Timestamps are YYYY-MM-DDTHH:MM:SS (local time)
or RFC3339. The date itself is not checked for exemption.

Examples:
  toll-tracker fee Car 2024-06-16T08:29:00
  toll-tracker fee --details Truck 2024-06-17T08:15:00 2024-06-17T15:45:00`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFee,
}

func init() {
	feeCmd.Flags().StringVar(&feeDataFile, "data", "", "HCL dataset with the price table (default from config data.path)")
	feeCmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show charging windows")
}

func runFee(cmd *cobra.Command, args []string) error {
	vehicleType, err := types.ParseVehicleType(args[0])
	if err != nil {
		return err
	}

	timestamps := make([]time.Time, 0, len(args)-1)
	for _, raw := range args[1:] {
		ts, err := dataset.ParseTimestamp(raw, time.Local)
		if err != nil {
			return err
		}
		timestamps = append(timestamps, ts)
	}

	if err := toll.SingleDay(timestamps); err != nil {
		return err
	}

	engine, err := app.NewEngine(config.Get(), feeDataFile, logging.Logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	out := cmd.OutOrStdout()
	svc := engine.Service
	if svc.IsVehicleExempt(vehicleType) {
		fmt.Fprintf(out, "%s is toll exempt: %s\n", vehicleType, types.NewMoney(0, svc.Currency()))
		return nil
	}

	breakdown := svc.CalculateFeeBreakdown("", timestamps)
	fmt.Fprintf(out, "%s owes %s\n", vehicleType, types.NewMoney(breakdown.Total, svc.Currency()))

	if showDetails {
		for _, win := range breakdown.Windows {
			fmt.Fprintf(out, "  window %s: %d crossings, charge %d\n",
				tariff.TimeOfDayOf(win.Anchor), win.Crossings, win.Charge)
		}
		if breakdown.Capped() {
			fmt.Fprintf(out, "  daily cap applied to subtotal %d\n", breakdown.Subtotal)
		}
	}
	return nil
}
