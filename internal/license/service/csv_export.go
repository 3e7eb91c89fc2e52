package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"kurspanel/internal/audit"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/requestcontext"
)

// csvHeader is the canonical column set shared by export and import. Column
// names follow the course product's Turkish field names.
var csvHeader = []string{
	"KursAdi",
	"Sehir",
	"KullaniciAdi",
	"IletisimEposta",
	"IletisimTelefon",
	"LisansBitisTarihi",
	"Durum",
}

const csvDateLayout = "2006-01-02"

// ExportCSV streams every license record to w as CSV. Password hashes are
// never exported; Durum is the derived license status at export time.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) (rows int, err error) {
	tenants, err := s.store.List(ctx)
	if err != nil {
		return 0, s.translate(err, "csv export")
	}

	now := requestcontext.Now(ctx)
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "csv export failed")
	}
	for _, t := range tenants {
		expire := ""
		if t.ExpireDate != nil {
			expire = t.ExpireDate.Format(csvDateLayout)
		}
		record := []string{
			t.Name,
			t.City,
			t.Username,
			t.ContactEmail,
			t.ContactPhone,
			expire,
			t.Status(now),
		}
		if err := writer.Write(record); err != nil {
			return rows, dErrors.Wrap(err, dErrors.CodeInternal, "csv export failed")
		}
		rows++
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return rows, dErrors.Wrap(err, dErrors.CodeInternal, "csv export failed")
	}

	if s.metrics != nil {
		s.metrics.ExportRows.Add(float64(rows))
	}
	s.recordAudit(ctx, audit.Entry{
		Action:     audit.ActionLicenseCSVExport,
		EntityType: "tenant_export",
		EntityID:   fmt.Sprintf("%d rows", rows),
		Metadata:   map[string]any{"rows": rows},
	})
	return rows, nil
}
