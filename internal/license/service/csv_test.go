package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kurspanel/internal/license/store"
	"kurspanel/pkg/domain"
	dErrors "kurspanel/pkg/domain-errors"
	"kurspanel/pkg/requestcontext"
)

func TestImportCSVHappyPath(t *testing.T) {
	svc := New(store.NewMemory())
	input := strings.Join([]string{
		"KursAdi,Sehir,KullaniciAdi,Sifre,IletisimEposta,LisansBitisTarihi",
		"Mavi-Beyaz Akademi,Istanbul,mavibeyaz,parola1,info@mavibeyaz.com,2027-06-30",
		"Ege Sürücü Kursu,Izmir,egekurs,parola2,info@egekurs.com,30.06.2027",
	}, "\n")

	outcome, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.TotalRows)
	assert.Equal(t, 2, outcome.Imported)
	assert.Equal(t, 0, outcome.Failed)

	tenant, err := svc.GetTenant(context.Background(), domain.TenantID("MAVI-BEYAZ-AKADEMI"))
	require.NoError(t, err)
	assert.Equal(t, "Istanbul", tenant.City)
	require.NotNil(t, tenant.ExpireDate)
	assert.Equal(t, "2027-06-30", tenant.ExpireDate.Format("2006-01-02"))

	// The day-first date format parses to the same expiry.
	other, err := svc.GetTenant(context.Background(), domain.TenantID("EGE-SURUCU-KURSU"))
	require.NoError(t, err)
	require.NotNil(t, other.ExpireDate)
	assert.Equal(t, "2027-06-30", other.ExpireDate.Format("2006-01-02"))
}

func TestImportCSVBadRowReportsFileLine(t *testing.T) {
	svc := New(store.NewMemory())
	// Data row 2 (file line 3) is missing its username.
	input := strings.Join([]string{
		"KursAdi,KullaniciAdi,Sifre,IletisimEposta",
		"Kurs Bir,k1,p1,k1@example.com",
		"Kurs Iki,,p2,k2@example.com",
		"Kurs Uc,k3,p3,k3@example.com",
	}, "\n")

	outcome, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.TotalRows)
	assert.Equal(t, 2, outcome.Imported)
	assert.Equal(t, 1, outcome.Failed)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 3, outcome.Errors[0].Row)

	// Rows around the bad one still imported.
	_, err = svc.GetTenant(context.Background(), domain.TenantID("KURS-BIR"))
	require.NoError(t, err)
	_, err = svc.GetTenant(context.Background(), domain.TenantID("KURS-UC"))
	require.NoError(t, err)
}

func TestImportCSVBlankLinesKeepFileLineNumbers(t *testing.T) {
	svc := New(store.NewMemory())
	// A blank line sits between the rows; the bad row is on file line 5.
	input := strings.Join([]string{
		"KursAdi,KullaniciAdi,Sifre,IletisimEposta",
		"Kurs Bir,k1,p1,k1@example.com",
		"",
		"Kurs Iki,k2,p2,k2@example.com",
		"Kurs Uc,,p3,k3@example.com",
	}, "\n")

	outcome, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.TotalRows)
	assert.Equal(t, 2, outcome.Imported)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 5, outcome.Errors[0].Row)
}

func TestImportCSVStripsHeaderByteOrderMark(t *testing.T) {
	svc := New(store.NewMemory())
	input := strings.Join([]string{
		"\uFEFFKursAdi,KullaniciAdi,Sifre,IletisimEposta",
		"Isaretli Kurs,isaretli,p1,isaretli@example.com",
	}, "\n")

	outcome, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Imported)

	_, err = svc.GetTenant(context.Background(), domain.TenantID("ISARETLI-KURS"))
	require.NoError(t, err)
}

func TestImportCSVAcceptsHeaderAliases(t *testing.T) {
	svc := New(store.NewMemory())
	// Lower-cased headers and the legacy "email" column name.
	input := strings.Join([]string{
		"kursadi,kullaniciadi,sifre,email,durum",
		"Takma Adli Kurs,takma,p1,takma@example.com,pasif",
	}, "\n")

	outcome, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Imported)

	// Durum is ignored: imported tenants always start active.
	tenant, err := svc.GetTenant(context.Background(), domain.TenantID("TAKMA-ADLI-KURS"))
	require.NoError(t, err)
	assert.True(t, tenant.IsActive)
}

func TestImportCSVMissingRequiredColumn(t *testing.T) {
	svc := New(store.NewMemory())
	input := "KursAdi,Sehir\nKurs,Ankara\n"

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestImportCSVDuplicateUsernameRowFails(t *testing.T) {
	svc := New(store.NewMemory())
	input := strings.Join([]string{
		"KursAdi,KullaniciAdi,Sifre,IletisimEposta",
		"Kurs Bir,ayni,p1,k1@example.com",
		"Kurs Iki,ayni,p2,k2@example.com",
	}, "\n")

	outcome, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Imported)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 3, outcome.Errors[0].Row)
	assert.Contains(t, outcome.Errors[0].Message, "username")
}

func TestExportCSVRoundTrip(t *testing.T) {
	svc := New(store.NewMemory())
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithNow(context.Background(), now)

	expired := now.Add(-48 * time.Hour)
	req := createReq("Süreli Kurs", "sureli")
	req.City = "Antalya"
	req.ExpireDate = &expired
	_, err := svc.CreateTenant(ctx, req)
	require.NoError(t, err)

	var buf bytes.Buffer
	rows, err := svc.ExportCSV(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "Süreli Kurs", records[1][0])
	assert.Equal(t, "Antalya", records[1][1])
	assert.Equal(t, "sureli", records[1][2])
	assert.Equal(t, expired.Format("2006-01-02"), records[1][5])
	assert.Equal(t, "expired", records[1][6])

	// Password material never leaves through the export.
	assert.NotContains(t, buf.String(), "gizli-parola")
}

func TestExportedFileReimports(t *testing.T) {
	src := New(store.NewMemory())
	ctx := context.Background()
	_, err := src.CreateTenant(ctx, createReq("Devreden Kurs", "devir"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = src.ExportCSV(ctx, &buf)
	require.NoError(t, err)

	// Exports carry no Sifre column; splice one in the way an operator
	// migrating instances would.
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	var rebuilt bytes.Buffer
	w := csv.NewWriter(&rebuilt)
	for i, record := range records {
		if i == 0 {
			require.NoError(t, w.Write(append(record, "Sifre")))
			continue
		}
		require.NoError(t, w.Write(append(record, "yeni-parola")))
	}
	w.Flush()

	dst := New(store.NewMemory())
	outcome, err := dst.ImportCSV(ctx, &rebuilt)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Imported)
	assert.Equal(t, 0, outcome.Failed)
}
