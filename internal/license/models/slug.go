package models

import (
	"fmt"
	"strings"

	"kurspanel/pkg/domain"
)

// turkishASCII maps Turkish letters onto their closest ASCII equivalents so
// derived tenant ids stay plain ASCII regardless of the display name.
var turkishASCII = strings.NewReplacer(
	"Ğ", "G", "ğ", "g",
	"Ü", "U", "ü", "u",
	"Ş", "S", "ş", "s",
	"İ", "I", "ı", "i",
	"Ö", "O", "ö", "o",
	"Ç", "C", "ç", "c",
)

// DeriveTenantID builds the stable slug for a tenant from its display name:
// Turkish diacritics transliterated, upper-cased, runs of whitespace replaced
// with single hyphens. "Mavi-Beyaz Akademi" becomes "MAVI-BEYAZ-AKADEMI".
func DeriveTenantID(name string) domain.TenantID {
	s := turkishASCII.Replace(strings.TrimSpace(name))
	s = strings.ToUpper(s)
	s = strings.Join(strings.Fields(s), "-")
	return domain.TenantID(s)
}

// SuffixTenantID appends the collision counter used when a derived slug is
// already taken: base, base-1, base-2, ...
func SuffixTenantID(base domain.TenantID, n int) domain.TenantID {
	if n <= 0 {
		return base
	}
	return domain.TenantID(fmt.Sprintf("%s-%d", base, n))
}
