package roster

import (
	"context"

	"kurspanel/internal/tenantctx"
	"kurspanel/pkg/domain"
)

func scopedTo(ctx context.Context, tenant domain.TenantID) context.Context {
	return tenantctx.AsTenant(ctx, tenant)
}
