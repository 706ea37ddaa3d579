package ledger

import (
	"context"
)

// RecordHand stores the net chip movement for every player in a completed
// hand. The inserts happen in a single transaction so a hand is never
// half-recorded.
func RecordHand(ctx context.Context, tableUUID, handID string, deltas map[int64]int) error {
	const query = `
INSERT INTO hands (table_uuid, hand_id, player_id, delta)
VALUES ($1, $2, $3, $4)`

	tx, err := Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for playerID, delta := range deltas {
		if _, err := tx.ExecContext(ctx, query, tableUUID, handID, playerID, delta); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// TableBalances returns the net chip movement per player across every
// recorded hand at the table
func TableBalances(ctx context.Context, tableUUID string) (map[int64]int, error) {
	const query = `
SELECT player_id, COALESCE(SUM(delta), 0)
FROM hands
WHERE table_uuid = $1
GROUP BY player_id`

	rows, err := Instance().QueryContext(ctx, query, tableUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make(map[int64]int)
	for rows.Next() {
		var playerID int64
		var delta int
		if err := rows.Scan(&playerID, &delta); err != nil {
			return nil, err
		}

		balances[playerID] = delta
	}

	return balances, rows.Err()
}

// PlayerBalance returns the net chip movement for one player at a table
func PlayerBalance(ctx context.Context, tableUUID string, playerID int64) (int, error) {
	const query = `
SELECT COALESCE(SUM(delta), 0)
FROM hands
WHERE table_uuid = $1
  AND player_id = $2`

	var balance int
	err := Instance().QueryRowContext(ctx, query, tableUUID, playerID).Scan(&balance)
	return balance, err
}
