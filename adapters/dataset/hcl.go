// Package dataset loads the price table and recorded passages from HCL.
package dataset

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"toll-tracker/core/tariff"
	"toll-tracker/core/types"
	apperrors "toll-tracker/internal/errors"
)

// TimestampLayout is the local-time timestamp form; RFC3339 is accepted too
const TimestampLayout = "2006-01-02T15:04:05"

// Dataset is the loaded price table and the crossings recorded against it
type Dataset struct {
	Currency types.Currency
	Table    *tariff.Table
	Passages []types.Passage
}

type fileSchema struct {
	Currency string         `hcl:"currency,optional"`
	Prices   []priceBlock   `hcl:"price,block"`
	Passages []passageBlock `hcl:"passage,block"`
}

type priceBlock struct {
	Start string `hcl:"start"`
	End   string `hcl:"end"`
	Price int    `hcl:"price"`
}

type passageBlock struct {
	RegistrationNumber string   `hcl:"registration_number"`
	Type               string   `hcl:"type"`
	Owner              string   `hcl:"owner,optional"`
	Model              string   `hcl:"model,optional"`
	Timestamps         []string `hcl:"timestamps"`
}

// Loader parses dataset files
type Loader struct {
	parser   *hclparse.Parser
	location *time.Location
}

// NewLoader creates a loader; timestamps without a zone are read in loc (time.Local when nil)
func NewLoader(loc *time.Location) *Loader {
	if loc == nil {
		loc = time.Local
	}
	return &Loader{
		parser:   hclparse.NewParser(),
		location: loc,
	}
}

// LoadFile reads and parses path
func (l *Loader) LoadFile(path string) (*Dataset, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.TypeConfig, err, "failed to read dataset %s", path)
	}
	return l.Parse(src, path)
}

// Parse parses dataset source; filename is used in diagnostics
func (l *Loader) Parse(src []byte, filename string) (*Dataset, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, diagError(diags)
	}

	intervals := make([]tariff.Interval, 0, len(schema.Prices))
	for i, p := range schema.Prices {
		start, err := tariff.ParseTimeOfDay(p.Start)
		if err != nil {
			return nil, withBlock(err, filename, "price", i)
		}
		end, err := tariff.ParseTimeOfDay(p.End)
		if err != nil {
			return nil, withBlock(err, filename, "price", i)
		}
		intervals = append(intervals, tariff.Interval{Start: start, End: end, Price: p.Price})
	}

	table, err := tariff.NewTable(intervals)
	if err != nil {
		return nil, withBlock(err, filename, "price", -1)
	}

	passages := make([]types.Passage, 0, len(schema.Passages))
	for i, p := range schema.Passages {
		passage, err := l.passage(p)
		if err != nil {
			return nil, withBlock(err, filename, "passage", i)
		}
		passages = append(passages, passage)
	}

	currency := types.Currency(strings.ToUpper(strings.TrimSpace(schema.Currency)))
	if currency == "" {
		currency = types.CurrencySEK
	}

	return &Dataset{
		Currency: currency,
		Table:    table,
		Passages: passages,
	}, nil
}

func (l *Loader) passage(p passageBlock) (types.Passage, error) {
	vehicleType, err := types.ParseVehicleType(p.Type)
	if err != nil {
		return types.Passage{}, err
	}
	if strings.TrimSpace(p.RegistrationNumber) == "" {
		return types.Passage{}, apperrors.Input("registration_number must not be empty")
	}

	timestamps := make([]time.Time, 0, len(p.Timestamps))
	for _, raw := range p.Timestamps {
		ts, err := ParseTimestamp(raw, l.location)
		if err != nil {
			return types.Passage{}, err
		}
		timestamps = append(timestamps, ts)
	}

	return types.Passage{
		Vehicle: types.Vehicle{
			RegistrationNumber: strings.TrimSpace(p.RegistrationNumber),
			Type:               vehicleType,
			Owner:              p.Owner,
			Model:              p.Model,
		},
		Timestamps: timestamps,
	}, nil
}

// ParseTimestamp accepts TimestampLayout (in loc) or RFC3339
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.ParseInLocation(TimestampLayout, raw, loc); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Time{}, apperrors.Newf(apperrors.TypeParsing,
		"invalid timestamp %q (want %s or RFC3339)", raw, TimestampLayout)
}

func diagError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		err := apperrors.Parsing(diag.Summary+": "+diag.Detail, nil)
		if diag.Subject != nil {
			err = err.WithContext("file", diag.Subject.Filename).
				WithContext("line", diag.Subject.Start.Line)
		}
		return err
	}
	return apperrors.Parsing(diags.Error(), nil)
}

func withBlock(err error, filename, block string, index int) error {
	e, ok := err.(*apperrors.Error)
	if !ok {
		return err
	}
	e = e.WithContext("file", filename)
	if index >= 0 {
		e = e.WithContext("block", fmt.Sprintf("%s[%d]", block, index))
	}
	return e
}
