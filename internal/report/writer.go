// Package report renders a ValidatedRecord as a printable spreadsheet.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"insureport/internal/domain"
)

const (
	sheetSummary    = "Summary"
	sheetContracts  = "Contracts"
	sheetTerminated = "Terminated Contracts"
	sheetDiagnosis  = "Coverage Diagnosis"
	sheetCoverages  = "Product Coverages"
)

var contractColumns = []interface{}{
	"No.", "Insurer", "Product", "Contract Date", "Payment Cycle",
	"Payment Term", "Maturity", "Monthly Premium", "Payment Status",
}

var diagnosisColumns = []interface{}{
	"Coverage", "Recommended", "Insured", "Shortfall", "Status",
}

// Write renders the record as an .xlsx workbook into w.
func Write(w io.Writer, rec *domain.ValidatedRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", sheetSummary)
	if err := writeSummary(f, rec); err != nil {
		return err
	}
	if err := writeContracts(f, rec); err != nil {
		return err
	}
	if err := writeTerminated(f, rec); err != nil {
		return err
	}
	if err := writeDiagnosis(f, rec); err != nil {
		return err
	}
	if err := writeCoverages(f, rec); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, rec *domain.ValidatedRecord) error {
	rows := [][]interface{}{
		{"Insurance Coverage Report"},
		{},
		{"Customer", customerName(rec)},
		{"Agent", agentLine(rec)},
		{"Active Monthly Premium", rec.ActiveMonthlyPremium},
		{"Total Premium", rec.TotalPremium},
		{"Contracts", len(rec.Contracts)},
		{"Terminated Contracts", len(rec.TerminatedContracts)},
		{"Validated By", string(rec.SourceModel)},
		{"Confidence", rec.Confidence},
	}
	if len(rec.Corrections) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Corrections"})
		for _, c := range rec.Corrections {
			rows = append(rows, []interface{}{"", c})
		}
	}
	return writeRows(f, sheetSummary, rows)
}

func writeContracts(f *excelize.File, rec *domain.ValidatedRecord) error {
	if _, err := f.NewSheet(sheetContracts); err != nil {
		return err
	}
	rows := [][]interface{}{contractColumns}
	for _, c := range rec.Contracts {
		rows = append(rows, []interface{}{
			c.SequenceNo, c.Insurer, c.Product, c.ContractDate, c.PaymentCycle,
			c.PaymentTermLabel, c.MaturityLabel, c.MonthlyPremium, string(c.PaymentStatus),
		})
	}
	return writeRows(f, sheetContracts, rows)
}

func writeTerminated(f *excelize.File, rec *domain.ValidatedRecord) error {
	if _, err := f.NewSheet(sheetTerminated); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"No.", "Insurer", "Product", "Contract Date", "Status", "Reason"},
	}
	for _, c := range rec.TerminatedContracts {
		rows = append(rows, []interface{}{
			c.SequenceNo, c.Insurer, c.Product, c.ContractDate, string(c.Status), c.CancelReason,
		})
	}
	return writeRows(f, sheetTerminated, rows)
}

func writeDiagnosis(f *excelize.File, rec *domain.ValidatedRecord) error {
	if _, err := f.NewSheet(sheetDiagnosis); err != nil {
		return err
	}
	rows := [][]interface{}{diagnosisColumns}
	for _, d := range rec.DiagnosisItems {
		rows = append(rows, []interface{}{
			d.CoverageName, d.RecommendedAmount, d.InsuredAmount, d.ShortfallAmount, string(d.Status),
		})
	}
	return writeRows(f, sheetDiagnosis, rows)
}

func writeCoverages(f *excelize.File, rec *domain.ValidatedRecord) error {
	if _, err := f.NewSheet(sheetCoverages); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Product", "Insurer", "No.", "Category", "Company Coverage", "Standard Coverage", "Insured Amount"},
	}
	for _, p := range rec.ProductCoverageDetails {
		for _, cov := range p.Coverages {
			rows = append(rows, []interface{}{
				p.ProductName, p.Insurer, cov.SequenceNo, cov.Category,
				cov.CompanyCoverageName, cov.StandardCoverageName, cov.InsuredAmount,
			})
		}
	}
	return writeRows(f, sheetCoverages, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func customerName(rec *domain.ValidatedRecord) string {
	if rec.Customer == nil {
		return "-"
	}
	return rec.Customer.Name
}

func agentLine(rec *domain.ValidatedRecord) string {
	if rec.Agent == nil {
		return "-"
	}
	if rec.Agent.Agency == "" || rec.Agent.Agency == "-" {
		return rec.Agent.Name
	}
	return rec.Agent.Name + " / " + rec.Agent.Agency
}
