package ledger

import (
	"context"
	"time"
)

const playerColumns = `
players.id,
players.display_name,
players.created`

// Player is a record in the `players` table
type Player struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Created     time.Time `json:"created"`
}

func getPlayerByRow(row Scanner) (*Player, error) {
	var player Player
	if err := row.Scan(&player.ID, &player.DisplayName, &player.Created); err != nil {
		return nil, err
	}

	return &player, nil
}

// CreatePlayer creates a new player record
func CreatePlayer(ctx context.Context, displayName string) (*Player, error) {
	const query = `
INSERT INTO players (display_name)
VALUES ($1)
RETURNING ` + playerColumns

	row := Instance().QueryRowContext(ctx, query, displayName)
	return getPlayerByRow(row)
}

// GetPlayerByID returns a player based on the ID
func GetPlayerByID(ctx context.Context, id int64) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE id = $1`

	row := Instance().QueryRowContext(ctx, query, id)
	return getPlayerByRow(row)
}
