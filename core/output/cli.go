package output

import (
	"fmt"
	"io"
	"strings"

	"toll-tracker/core/tariff"
	"toll-tracker/core/toll"
)

const (
	ruleTop    = "┌─────────────────────────────────────────────────────────────────────────┐"
	ruleMiddle = "├─────────────────────────────────────────────────────────────────────────┤"
	ruleBottom = "└─────────────────────────────────────────────────────────────────────────┘"
)

// CLIFormatter renders a report as a box table
type CLIFormatter struct {
	opts Options
}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter(opts Options) *CLIFormatter {
	return &CLIFormatter{opts: opts}
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, report *toll.Report) error {
	p := &printer{w: w}

	p.line(ruleTop)
	p.row(centre("DAILY TOLL REPORT "+report.Date, 71))
	p.line(ruleMiddle)

	switch {
	case report.DateExempt:
		p.row(fmt.Sprintf("%-71s", "Lucky day! No toll is charged on this date."))
	case report.NoRecords:
		p.row(fmt.Sprintf("%-71s", "No records found for this date."))
	default:
		for _, l := range report.Lines {
			label := fmt.Sprintf("%s (%s)", l.Vehicle.RegistrationNumber, l.Vehicle.Type)
			amount := l.Fee.String()
			if l.Exempt != "" {
				amount = "exempt"
			}
			p.row(fmt.Sprintf("%-50s %20s", truncate(label, 50), amount))

			if f.opts.ShowDetails && l.Breakdown != nil {
				for _, win := range l.Breakdown.Windows {
					desc := fmt.Sprintf("window %s (%d crossings)",
						tariff.TimeOfDayOf(win.Anchor), win.Crossings)
					p.row(fmt.Sprintf("  └─ %-46s %20d", truncate(desc, 46), win.Charge))
				}
				if l.Breakdown.Capped() {
					p.row(fmt.Sprintf("  └─ %-46s %20d", "daily cap applied, subtotal", l.Breakdown.Subtotal))
				}
			}
		}
	}

	p.line(ruleMiddle)
	p.row(fmt.Sprintf("%-50s %20s", "TOTAL", report.Total.String()))
	p.line(ruleBottom)
	return p.err
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) row(content string) {
	p.line("│ " + content + " │")
}

func centre(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
