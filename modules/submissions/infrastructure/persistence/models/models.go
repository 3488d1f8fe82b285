package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Submission struct {
	ID         int64               `db:"id"`
	Kind       string              `db:"kind"`
	Name       string              `db:"name"`
	Email      string              `db:"email"`
	Phone      string              `db:"phone"`
	DistrictID sql.NullInt64       `db:"district_id"`
	VillageID  sql.NullInt64       `db:"village_id"`
	Amount     decimal.NullDecimal `db:"amount"`
	Message    string              `db:"message"`
	Status     string              `db:"status"`
	CreatedAt  time.Time           `db:"created_at"`
	ReviewedAt sql.NullTime        `db:"reviewed_at"`
}
