package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"cardroom-server/pkg/holdem"
	"cardroom-server/pkg/token"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

const inviteCodeLength = 8

const tableColumns = `
tables.uuid,
tables.name,
tables.invite_code,
tables.small_blind,
tables.big_blind,
tables.starting_chips,
tables.created`

// Table is a record in the `tables` table
type Table struct {
	UUID          string    `json:"uuid"`
	Name          string    `json:"name"`
	InviteCode    string    `json:"inviteCode"`
	SmallBlind    int       `json:"smallBlind"`
	BigBlind      int       `json:"bigBlind"`
	StartingChips int       `json:"startingChips"`
	Created       time.Time `json:"created"`
}

// Options returns the game options the table was created with
func (t *Table) Options() holdem.Options {
	return holdem.Options{
		SmallBlind:    t.SmallBlind,
		BigBlind:      t.BigBlind,
		StartingChips: t.StartingChips,
	}
}

func getTableByRow(row Scanner) (*Table, error) {
	var table Table
	if err := row.Scan(&table.UUID, &table.Name, &table.InviteCode, &table.SmallBlind, &table.BigBlind, &table.StartingChips, &table.Created); err != nil {
		return nil, err
	}

	return &table, nil
}

// CreateTable creates a new table record with a fresh UUID and invite code.
// An invite code collision is retried with a new code.
func CreateTable(ctx context.Context, name string, opts holdem.Options) (*Table, error) {
	const query = `
INSERT INTO tables (uuid, name, invite_code, small_blind, big_blind, starting_chips)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + tableColumns

	for attempt := 0; attempt < 5; attempt++ {
		inviteCode, err := token.Generate(inviteCodeLength)
		if err != nil {
			return nil, err
		}

		row := Instance().QueryRowContext(ctx, query, uuid.New().String(), name, inviteCode, opts.SmallBlind, opts.BigBlind, opts.StartingChips)
		table, err := getTableByRow(row)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pqDuplicateKeyErrorCode {
				continue
			}

			return nil, err
		}

		return table, nil
	}

	return nil, ErrDuplicateKey
}

// GetTableByUUID will return a table by its UUID
func GetTableByUUID(ctx context.Context, tableUUID string) (*Table, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE uuid = $1`

	row := Instance().QueryRowContext(ctx, query, tableUUID)
	return getTableByRow(row)
}
