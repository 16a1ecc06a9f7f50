package database

import (
	"context"
	"database/sql"

	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

// GetCurrentGrantPrice returns the most recently recorded share price.
// "Current" is latest by insertion order, not wall clock, so every allocation
// in one run converts at the same valuation. An empty share table means no
// valuation exists and allocation cannot proceed.
func (d Datasource) GetCurrentGrantPrice(ctx context.Context) (*model.Share, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT share_id, grant_price, created_at
		FROM shares
		ORDER BY id DESC
		LIMIT 1
	`)

	share := &model.Share{}
	err := row.Scan(&share.ShareID, &share.GrantPrice, &share.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNoPriceAvailable, "No share price has been recorded", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve share price", err)
	}

	return share, nil
}
