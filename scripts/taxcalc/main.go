// taxcalc computes Nigerian personal income tax from a bank statement CSV
// or a plain income figure, entirely offline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ojimcy/taxsmart/internal/classifier"
	"github.com/ojimcy/taxsmart/internal/parser"
	"github.com/ojimcy/taxsmart/internal/service"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	cyan   = color.New(color.FgCyan)
)

var cli struct {
	Schedules string `help:"YAML file overriding the built-in tax schedules."`

	Compute  computeCmd  `cmd:"" help:"Parse a statement CSV, classify it and compute PIT."`
	QuickPit quickPitCmd `cmd:"" name:"quick-pit" help:"Compute PIT from a gross annual income figure."`
}

type computeCmd struct {
	File    string `arg:"" type:"existingfile" help:"Bank statement CSV."`
	Year    int    `default:"2026" help:"Tax year."`
	Rent    string `default:"0" help:"Annual rent paid, for rent relief."`
	Pension string `default:"0" help:"Pension contributions."`
	NHIS    string `default:"0" help:"NHIS contributions."`
	NHF     string `default:"0" help:"NHF contributions."`
}

type quickPitCmd struct {
	Income string `arg:"" help:"Gross annual income."`
	Year   int    `default:"2026" help:"Tax year."`
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func loadSchedules() (*service.ScheduleRegistry, error) {
	if cli.Schedules != "" {
		return service.NewScheduleRegistryFromFile(cli.Schedules)
	}
	return service.NewScheduleRegistry()
}

func (c *computeCmd) Run() error {
	schedules, err := loadSchedules()
	if err != nil {
		return err
	}

	file, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer file.Close()

	parsed, bankFormat, err := parser.Parse(file, c.File)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", c.File, err)
	}
	cyan.Printf("Parsed %d transactions (%s format)\n", len(parsed), bankFormat)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	results := classifier.New(nil, logger).ClassifyBatch(context.Background(), parsed)

	gate := service.NewClassificationService(service.DefaultConfidenceThreshold)
	transactions, err := gate.Gate(parsed, results)
	if err != nil {
		return err
	}

	reviewCount := 0
	for _, tx := range transactions {
		if tx.NeedsReview {
			reviewCount++
		}
	}
	if reviewCount > 0 {
		yellow.Printf("%d transactions are low confidence; review them before filing\n", reviewCount)
	}

	reliefs, err := parseReliefFlags(c)
	if err != nil {
		return err
	}

	report, err := service.NewReportService(schedules).Aggregate(transactions, reliefs, c.Year)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func parseReliefFlags(c *computeCmd) (service.ReliefInput, error) {
	var input service.ReliefInput
	fields := []struct {
		raw  string
		dest *decimal.Decimal
		name string
	}{
		{c.Rent, &input.AnnualRent, "rent"},
		{c.Pension, &input.PensionContribution, "pension"},
		{c.NHIS, &input.NHISContribution, "nhis"},
		{c.NHF, &input.NHFContribution, "nhf"},
	}
	for _, f := range fields {
		value, err := decimal.NewFromString(f.raw)
		if err != nil {
			return service.ReliefInput{}, fmt.Errorf("invalid --%s value %q", f.name, f.raw)
		}
		*f.dest = value
	}
	return input, nil
}

func printReport(report *service.TaxReport) {
	green.Printf("\nTax report %d\n", report.TaxYear)
	fmt.Println("----------------------------------------")

	for _, category := range service.IncomeCategories() {
		total, ok := report.IncomeByCategory[category]
		if !ok || total.IsZero() {
			continue
		}
		fmt.Printf("%-22s %18s\n", category, formatNaira(total))
	}

	fmt.Printf("%-22s %18s\n", "total income", formatNaira(report.TotalIncome))
	fmt.Printf("%-22s %18s\n", "total reliefs", formatNaira(report.Reliefs.TotalReliefs))
	fmt.Printf("%-22s %18s\n", "taxable income", formatNaira(report.TaxableIncome))
	fmt.Println("----------------------------------------")

	for _, bracket := range report.Breakdown {
		upper := "and above"
		if !bracket.Unbounded {
			upper = "to " + formatNaira(bracket.BracketMax)
		}
		fmt.Printf("  %s %s at %s%%: %s\n",
			formatNaira(bracket.BracketMin), upper,
			bracket.Rate.Mul(decimal.NewFromInt(100)).String(),
			formatNaira(bracket.TaxAmount))
	}

	fmt.Println("----------------------------------------")
	green.Printf("%-22s %18s\n", "PIT owed", formatNaira(report.PITAmount))
}

func (c *quickPitCmd) Run() error {
	schedules, err := loadSchedules()
	if err != nil {
		return err
	}

	income, err := decimal.NewFromString(c.Income)
	if err != nil {
		return fmt.Errorf("invalid income %q", c.Income)
	}

	pit, breakdown, err := service.NewReportService(schedules).QuickPIT(income, c.Year)
	if err != nil {
		return err
	}

	cyan.Printf("Gross income %s, tax year %d\n", formatNaira(income), c.Year)
	for _, bracket := range breakdown {
		fmt.Printf("  at %s%%: %s\n",
			bracket.Rate.Mul(decimal.NewFromInt(100)).String(),
			formatNaira(bracket.TaxAmount))
	}
	green.Printf("PIT owed: %s\n", formatNaira(pit))
	if income.IsPositive() {
		fmt.Printf("Effective rate: %s%%\n", pit.Div(income).Mul(decimal.NewFromInt(100)).Round(2).String())
	}
	return nil
}

func formatNaira(amount decimal.Decimal) string {
	return "₦" + amount.StringFixed(2)
}
