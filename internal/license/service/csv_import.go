package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"kurspanel/internal/audit"
	"kurspanel/internal/license/models"
	"kurspanel/internal/platform/tracer"
	dErrors "kurspanel/pkg/domain-errors"
)

// importDateLayouts are the expiry formats accepted on import: ISO and the
// Turkish day-first convention the course operators actually type.
var importDateLayouts = []string{"2006-01-02", "02.01.2006"}

// columnAliases maps accepted header spellings onto canonical column names.
// Matching is case-insensitive; "email" survives from older export tooling.
var columnAliases = map[string]string{
	"kursadi":           "KursAdi",
	"sehir":             "Sehir",
	"kullaniciadi":      "KullaniciAdi",
	"sifre":             "Sifre",
	"iletisimeposta":    "IletisimEposta",
	"email":             "IletisimEposta",
	"iletisimtelefon":   "IletisimTelefon",
	"lisansbitistarihi": "LisansBitisTarihi",
	"durum":             "Durum",
}

// ImportCSV provisions tenants in bulk from a CSV stream. Rows are isolated:
// a bad row is reported with its 1-indexed file line (the header is line 1)
// and the import continues. A Durum column is accepted and ignored; every
// imported tenant starts active.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (outcome *models.ImportOutcome, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCSVImport)
	defer func() { span.End(err) }()
	started := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "csv file is empty or has no header row")
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	outcome = &models.ImportOutcome{}
	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		outcome.TotalRows++
		if readErr != nil {
			// The parser skips blank lines, so the physical line comes from
			// the reader rather than a row counter.
			var parseErr *csv.ParseError
			line := 0
			if errors.As(readErr, &parseErr) {
				line = parseErr.Line
			}
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, models.RowError{Row: line, Message: "malformed csv row"})
			s.countImport("failed")
			continue
		}
		line, _ := reader.FieldPos(0)
		if rowErr := s.importRow(ctx, columns, record); rowErr != nil {
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, models.RowError{Row: line, Message: rowErr.Error()})
			s.countImport("failed")
			continue
		}
		outcome.Imported++
		s.countImport("imported")
	}

	if s.metrics != nil {
		s.metrics.ImportDurationMs.Observe(float64(time.Since(started).Milliseconds()))
	}
	span.SetAttributes(
		tracer.Int("rows", outcome.TotalRows),
		tracer.Int("imported", outcome.Imported),
		tracer.Int("failed", outcome.Failed),
	)
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLicenseCSVImport,
		EntityType: "tenant_import",
		EntityID:   fmt.Sprintf("%d rows", outcome.TotalRows),
		Metadata: map[string]any{
			"total_rows": outcome.TotalRows,
			"imported":   outcome.Imported,
			"failed":     outcome.Failed,
		},
	})
	return outcome, nil
}

// mapColumns resolves the header row into a canonical-name -> index map.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF")))
		if canonical, ok := columnAliases[name]; ok {
			columns[canonical] = i
		}
	}
	for _, required := range []string{"KursAdi", "KullaniciAdi", "Sifre", "IletisimEposta"} {
		if _, ok := columns[required]; !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "csv header is missing required column "+required)
		}
	}
	return columns, nil
}

func (s *Service) importRow(ctx context.Context, columns map[string]int, record []string) error {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	req := models.CreateTenantRequest{
		Name:         field("KursAdi"),
		City:         field("Sehir"),
		Username:     field("KullaniciAdi"),
		Password:     field("Sifre"),
		ContactEmail: field("IletisimEposta"),
		ContactPhone: field("IletisimTelefon"),
	}
	if raw := field("LisansBitisTarihi"); raw != "" {
		expire, err := parseImportDate(raw)
		if err != nil {
			return err
		}
		req.ExpireDate = &expire
	}
	if err := req.Validate(); err != nil {
		return err
	}
	_, err := s.createOne(ctx, req)
	return err
}

func parseImportDate(raw string) (time.Time, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid expiry date "+raw)
}

func (s *Service) countImport(outcome string) {
	if s.metrics != nil {
		s.metrics.ImportRows.WithLabelValues(outcome).Inc()
	}
}
