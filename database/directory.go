package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

// Read-only directory lookups. Charities, endowments and donors are managed
// by the platform's CRUD side; the grant pipeline only resolves references.

func (d Datasource) GetCharityByID(ctx context.Context, id string) (*model.Charity, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT charity_id, name, payout_email, active, created_at
		FROM charities
		WHERE charity_id = $1
	`, id)

	charity := &model.Charity{}
	var payoutEmail sql.NullString
	err := row.Scan(&charity.CharityID, &charity.Name, &payoutEmail, &charity.Active, &charity.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Charity with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve charity", err)
	}
	charity.PayoutEmail = payoutEmail.String

	return charity, nil
}

func (d Datasource) GetEndowmentByID(ctx context.Context, id string) (*model.Endowment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT endowment_id, name, created_at
		FROM endowments
		WHERE endowment_id = $1
	`, id)

	endowment := &model.Endowment{}
	err := row.Scan(&endowment.EndowmentID, &endowment.Name, &endowment.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Endowment with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve endowment", err)
	}

	return endowment, nil
}

func (d Datasource) GetDonorByID(ctx context.Context, id string) (*model.Donor, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT donor_id, name, email, created_at
		FROM donors
		WHERE donor_id = $1
	`, id)

	donor := &model.Donor{}
	var email sql.NullString
	err := row.Scan(&donor.DonorID, &donor.Name, &email, &donor.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Donor with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve donor", err)
	}
	donor.Email = email.String

	return donor, nil
}

// GetEndowmentCharities resolves an endowment's recipient charities in the
// order they were associated. An endowment with no recipients returns an empty
// slice, which the allocator treats as a legitimate no-op.
func (d Datasource) GetEndowmentCharities(ctx context.Context, endowmentID string) ([]model.Charity, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT c.charity_id, c.name, c.payout_email, c.active, c.created_at
		FROM endowment_charities ec
		JOIN charities c ON c.charity_id = ec.charity_id
		WHERE ec.endowment_id = $1
		ORDER BY ec.id ASC
	`, endowmentID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve endowment charities", err)
	}
	defer rows.Close()

	var charities []model.Charity
	for rows.Next() {
		charity := model.Charity{}
		var payoutEmail sql.NullString
		err = rows.Scan(&charity.CharityID, &charity.Name, &payoutEmail, &charity.Active, &charity.CreatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan charity data", err)
		}
		charity.PayoutEmail = payoutEmail.String
		charities = append(charities, charity)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over charities", err)
	}

	return charities, nil
}
