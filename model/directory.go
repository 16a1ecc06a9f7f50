/*
Copyright 2024 giv2giv Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import "time"

// Charity is a grant recipient. PayoutEmail is the verified payout identity
// registered with the payment gateway; a charity without one cannot be
// dispatched to and its grants stay pending_approval.
type Charity struct {
	ID          int64     `json:"-"`
	CharityID   string    `json:"charity_id"`
	Name        string    `json:"name"`
	PayoutEmail string    `json:"payout_email"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Endowment is a donor-facing investment account whose associated charities
// are the allocation targets. This core only ever reads it.
type Endowment struct {
	ID          int64     `json:"-"`
	EndowmentID string    `json:"endowment_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Donor identifies the contributor a grant is sourced from.
type Donor struct {
	ID        int64     `json:"-"`
	DonorID   string    `json:"donor_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
