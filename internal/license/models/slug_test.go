package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kurspanel/pkg/domain"
)

func TestDeriveTenantID(t *testing.T) {
	cases := []struct {
		name string
		want domain.TenantID
	}{
		{"Mavi-Beyaz Akademi", "MAVI-BEYAZ-AKADEMI"},
		{"Çağdaş Sürücü Kursu", "CAGDAS-SURUCU-KURSU"},
		{"İstanbul Eğitim", "ISTANBUL-EGITIM"},
		{"Işık Koleji", "ISIK-KOLEJI"},
		{"  Öz  Güven  ", "OZ-GUVEN"},
		{"ACME", "ACME"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveTenantID(tc.name), "name %q", tc.name)
	}
}

func TestSuffixTenantID(t *testing.T) {
	base := domain.TenantID("MAVI-BEYAZ-AKADEMI")
	assert.Equal(t, base, SuffixTenantID(base, 0))
	assert.Equal(t, domain.TenantID("MAVI-BEYAZ-AKADEMI-1"), SuffixTenantID(base, 1))
	assert.Equal(t, domain.TenantID("MAVI-BEYAZ-AKADEMI-2"), SuffixTenantID(base, 2))
}
