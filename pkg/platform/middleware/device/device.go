// Package device derives a human-readable device summary from the User-Agent
// header. The summary ends up in audit entry metadata so operators can see
// which browser performed a privileged action.
package device

import (
	"fmt"
	"net/http"

	"github.com/mssola/useragent"

	"kurspanel/pkg/requestcontext"
)

// Summarize parses a raw User-Agent string into "Browser Version / OS".
// Unparseable agents fall back to the raw string, truncated.
func Summarize(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	os := ua.OS()
	if name == "" {
		if len(rawUA) > 64 {
			return rawUA[:64]
		}
		return rawUA
	}
	if os == "" {
		return fmt.Sprintf("%s %s", name, version)
	}
	return fmt.Sprintf("%s %s / %s", name, version, os)
}

// Device pre-computes the device summary and injects it into the context.
// It should be registered after ClientMetadata middleware.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if rawUA := requestcontext.UserAgent(ctx); rawUA != "" {
			ctx = requestcontext.WithDevice(ctx, Summarize(rawUA))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
