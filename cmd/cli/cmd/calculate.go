// Package cmd - calculate command
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"toll-tracker/core/output"
	"toll-tracker/core/toll"
	"toll-tracker/internal/app"
	"toll-tracker/internal/config"
	"toll-tracker/internal/logging"
)

var (
	reportDate   string
	dataFile     string
	outputFormat string
	showDetails  bool
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate every vehicle's toll fee for one date",
	Long: `Load the price table and recorded crossings and report what each
vehicle owes on the given date.

Weekends and public holidays are toll free; exempt vehicle types pay nothing.

Examples:
  toll-tracker calculate --date 2024-06-17
  toll-tracker calculate --date 2024-06-17 --details
  toll-tracker calculate --date 2024-06-17 --format json --data ./tolls.hcl`,
	Args: cobra.NoArgs,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVar(&reportDate, "date", "", "date to report on (YYYY-MM-DD)")
	calculateCmd.Flags().StringVar(&dataFile, "data", "", "HCL dataset (default from config data.path)")
	calculateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	calculateCmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show charging windows per vehicle")
	_ = calculateCmd.MarkFlagRequired("date")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	date, err := time.ParseInLocation(toll.DateLayout, reportDate, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", reportDate)
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.NewRegistry(output.Options{
		ShowDetails: showDetails || cfg.Output.ShowDetails,
	}).Get(output.Format(format))
	if err != nil {
		return err
	}

	engine, err := app.NewEngine(cfg, dataFile, logging.Logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	logging.Info("calculating daily report")
	report, err := engine.Service.DailyReport(cmd.Context(), date, engine.Dataset.Passages)
	if err != nil {
		return err
	}

	return formatter.Render(cmd.OutOrStdout(), report)
}
