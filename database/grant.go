package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/sirupsen/logrus"

	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"

	_ "github.com/lib/pq"
)

// CreateGrantBatch persists one allocation batch inside a single database
// transaction. Drafts that fail validation or reference an unknown charity are
// skipped and logged rather than aborting the batch; any other failure rolls
// the whole batch back so no partial donation event is ever committed.
func (d Datasource) CreateGrantBatch(ctx context.Context, drafts []model.GrantDraft) ([]model.Grant, error) {
	ctx, span := otel.Tracer("Grant ledger").Start(ctx, "Saving grant batch to db")
	defer span.End()

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin grant batch", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	created := make([]model.Grant, 0, len(drafts))
	for _, draft := range drafts {
		if err := draft.Validate(); err != nil {
			logrus.Warnf("skipping invalid grant draft for charity %s: %v", draft.CharityID, err)
			continue
		}

		var exists bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM charities WHERE charity_id = $1)
		`, draft.CharityID).Scan(&exists)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check charity reference", err)
		}
		if !exists {
			logrus.Warnf("skipping grant draft: charity %s not found", draft.CharityID)
			continue
		}

		grant := model.Grant{
			GrantID:          model.GenerateUUIDWithSuffix("grt"),
			CharityID:        draft.CharityID,
			EndowmentID:      draft.EndowmentID,
			DonorID:          draft.DonorID,
			SharesSubtracted: draft.SharesSubtracted,
			GrantAmount:      draft.GrantAmount,
			Giv2GivFee:       draft.Giv2GivFee,
			GrantType:        draft.GrantType,
			Status:           draft.Status,
			CreatedAt:        time.Now(),
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO grants(grant_id,charity_id,endowment_id,donor_id,shares_subtracted,grant_amount,giv2giv_fee,grant_type,status,created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, grant.GrantID, grant.CharityID, grant.EndowmentID, grant.DonorID, grant.SharesSubtracted, grant.GrantAmount, grant.Giv2GivFee, grant.GrantType, grant.Status, grant.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record grant", err)
		}

		created = append(created, grant)
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit grant batch", err)
	}

	return created, nil
}

// UpdateGrantStatus conditionally advances a grant out of fromStatus, writing
// the dispatch result in the same statement. The WHERE clause on the prior
// status is the idempotency guard: when another dispatcher got there first the
// update matches zero rows and the caller receives STALE_GRANT.
func (d Datasource) UpdateGrantStatus(ctx context.Context, grantID string, fromStatus string, update model.GrantStatusUpdate) error {
	ctx, span := otel.Tracer("Grant ledger").Start(ctx, "Updating grant status")
	defer span.End()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE grants
		SET status = $3, transaction_id = $4, transaction_fee = $5, net_amount = $6
		WHERE grant_id = $1 AND status = $2
	`, grantID, fromStatus, update.Status, update.TransactionID, update.TransactionFee, update.NetAmount)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update grant status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		var exists bool
		err := d.Conn.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM grants WHERE grant_id = $1)
		`, grantID).Scan(&exists)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to check grant existence", err)
		}
		if !exists {
			return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Grant with ID '%s' not found", grantID), nil)
		}
		return apierror.NewAPIError(apierror.ErrStaleGrant, fmt.Sprintf("Grant '%s' has already left status '%s'", grantID, fromStatus), nil)
	}

	return nil
}

func (d Datasource) GetGrant(ctx context.Context, id string) (*model.Grant, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT grant_id, charity_id, endowment_id, donor_id, shares_subtracted, grant_amount, giv2giv_fee, net_amount, transaction_id, transaction_fee, grant_type, status, created_at, meta_data
		FROM grants
		WHERE grant_id = $1
	`, id)

	grant, err := scanGrant(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Grant with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve grant", err)
	}
	return grant, nil
}

// GetGrantsByStatus returns grants in the given status, oldest first, so the
// retry pass works through pending grants in the order they were promised.
func (d Datasource) GetGrantsByStatus(ctx context.Context, status string, limit, offset int) ([]model.Grant, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT grant_id, charity_id, endowment_id, donor_id, shares_subtracted, grant_amount, giv2giv_fee, net_amount, transaction_id, transaction_fee, grant_type, status, created_at, meta_data
		FROM grants
		WHERE status = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve grants", err)
	}
	defer rows.Close()

	return collectGrants(rows)
}

func (d Datasource) GetGrantsByEndowment(ctx context.Context, endowmentID string, limit, offset int) ([]model.Grant, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT grant_id, charity_id, endowment_id, donor_id, shares_subtracted, grant_amount, giv2giv_fee, net_amount, transaction_id, transaction_fee, grant_type, status, created_at, meta_data
		FROM grants
		WHERE endowment_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, endowmentID, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve grants", err)
	}
	defer rows.Close()

	return collectGrants(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGrant(row rowScanner) (*model.Grant, error) {
	grant := &model.Grant{}
	var transactionID sql.NullString
	var metaDataJSON []byte
	err := row.Scan(
		&grant.GrantID,
		&grant.CharityID,
		&grant.EndowmentID,
		&grant.DonorID,
		&grant.SharesSubtracted,
		&grant.GrantAmount,
		&grant.Giv2GivFee,
		&grant.NetAmount,
		&transactionID,
		&grant.TransactionFee,
		&grant.GrantType,
		&grant.Status,
		&grant.CreatedAt,
		&metaDataJSON,
	)
	if err != nil {
		return nil, err
	}
	grant.TransactionID = transactionID.String

	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &grant.MetaData); err != nil {
			return nil, err
		}
	}
	return grant, nil
}

func collectGrants(rows *sql.Rows) ([]model.Grant, error) {
	var grants []model.Grant
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan grant data", err)
		}
		grants = append(grants, *grant)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over grants", err)
	}
	return grants, nil
}
