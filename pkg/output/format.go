// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result *finance.Result) {
	p := message.NewPrinter(language.German)
	meta := result.Meta

	_, _ = p.Fprintf(w, "--- Liquiditätsplanung ab %s (%s, %d Perioden, davon %d IST) ---\n",
		meta.PlanStartDate, meta.PeriodType, meta.PeriodCount, meta.IstPeriodCount)
	_, _ = p.Fprintf(w, "Anfangsbestand %s (%s), Kreditlinie %s, Rückstellungen %s\n\n",
		format.Currency(meta.OpeningBalanceCents), meta.OpeningBalanceSource,
		format.Currency(meta.CreditLineCents), format.Currency(meta.ReservesTotalCents))

	_, _ = p.Fprintf(w, "%-12s | %-8s | %16s | %16s | %16s | %16s | %16s\n",
		"Periode", "Quelle", "Einzahlungen", "Auszahlungen", "Endbestand", "Headroom", "nach Rückst.")
	_, _ = p.Fprintf(w, "%-12s | %-8s | %16s | %16s | %16s | %16s | %16s\n",
		"_______", "______", "____________", "____________", "__________", "________", "____________")
	for _, period := range result.Periods {
		_, _ = p.Fprintf(w, "%-12s | %-8s | %16s | %16s | %16s | %16s | %16s\n",
			period.PeriodLabel,
			period.DataSource,
			format.NumericCurrency(period.CashInTotalCents),
			format.NumericCurrency(period.CashOutTotalCents),
			format.NumericCurrency(period.ClosingBalanceCents),
			format.NumericCurrency(period.HeadroomCents),
			format.NumericCurrency(period.HeadroomAfterReservesCents),
		)
	}

	summary := result.Summary
	_, _ = p.Fprintf(w, "\nEndbestand: %s\n", format.Currency(summary.FinalClosingBalanceCents))
	minLabel := ""
	if summary.MinHeadroomPeriodIndex < len(result.Periods) {
		minLabel = result.Periods[summary.MinHeadroomPeriodIndex].PeriodLabel
	}
	_, _ = p.Fprintf(w, "Minimaler Headroom: %s (%s)\n", format.Currency(summary.MinHeadroomCents), minLabel)
	_, _ = p.Fprintf(w, "Summe Einzahlungen: %s, Summe Auszahlungen: %s\n",
		format.Currency(summary.TotalInflowsCents), format.Currency(summary.TotalOutflowsCents))

	for _, warning := range result.Warnings {
		_, _ = p.Fprintf(w, "WARNUNG: %s\n", warning)
	}
}

var csvHeader = []string{
	"periodIndex", "periodLabel", "periodStartDate", "dataSource",
	"openingBalanceCents", "cashInTotalCents", "cashOutTotalCents", "netCashflowCents",
	"closingBalanceCents", "creditLineAvailableCents", "headroomCents", "headroomAfterReservesCents",
}

// CsvFormat outputs one row per period in comma-separated value format.
// Amounts are integer cents.
func CsvFormat(w io.Writer, result *finance.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, period := range result.Periods {
		record := []string{
			strconv.Itoa(period.PeriodIndex),
			period.PeriodLabel,
			period.PeriodStartDate,
			period.DataSource,
			period.OpeningBalanceCents.String(),
			period.CashInTotalCents.String(),
			period.CashOutTotalCents.String(),
			period.NetCashflowCents.String(),
			period.ClosingBalanceCents.String(),
			period.CreditLineAvailableCents.String(),
			period.HeadroomCents.String(),
			period.HeadroomAfterReservesCents.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// YAMLFormat writes v as YAML with the same keys and key order as its JSON
// form, so exports read like the API responses.
func YAMLFormat(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to convert export: %w", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// blockStyle drops the flow and quoting styles JSON input carries; the
// encoder re-quotes strings that would otherwise read as numbers.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
