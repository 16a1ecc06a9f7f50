package database

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

// RecordTransitFund records money acknowledged as moved between two custodial
// accounts. Callers must only reach this after a dispatch produced a gateway
// transaction reference; a fund without one is rejected outright.
func (d Datasource) RecordTransitFund(ctx context.Context, fund *model.TransitFund) (*model.TransitFund, error) {
	ctx, span := otel.Tracer("Transit fund ledger").Start(ctx, "Saving transit fund to db")
	defer span.End()

	if fund.TransactionID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Transit fund requires a gateway transaction reference", nil)
	}

	fund.TransitFundID = model.GenerateUUIDWithSuffix("trf")
	fund.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO transit_funds(transit_fund_id,transaction_id,source,destination,amount,cleared,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, fund.TransitFundID, fund.TransactionID, fund.Source, fund.Destination, fund.Amount, fund.Cleared, fund.CreatedAt)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record transit fund", err)
	}

	return fund, nil
}

// MarkTransitFundCleared flips the cleared flag once the gateway confirms
// final settlement. Consumed by the settlement-confirmation process, not by
// the dispatch pipeline.
func (d Datasource) MarkTransitFundCleared(ctx context.Context, transactionID string) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE transit_funds
		SET cleared = TRUE
		WHERE transaction_id = $1 AND cleared = FALSE
	`, transactionID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to mark transit fund cleared", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("No uncleared transit fund for transaction '%s'", transactionID), nil)
	}

	return nil
}

func (d Datasource) GetUnclearedTransitFunds(ctx context.Context) ([]model.TransitFund, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT transit_fund_id, transaction_id, source, destination, amount, cleared, created_at
		FROM transit_funds
		WHERE cleared = FALSE
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve transit funds", err)
	}
	defer rows.Close()

	var funds []model.TransitFund
	for rows.Next() {
		fund := model.TransitFund{}
		err = rows.Scan(
			&fund.TransitFundID,
			&fund.TransactionID,
			&fund.Source,
			&fund.Destination,
			&fund.Amount,
			&fund.Cleared,
			&fund.CreatedAt,
		)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan transit fund data", err)
		}
		funds = append(funds, fund)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over transit funds", err)
	}

	return funds, nil
}
