package sqlite

type runTableModel struct {
	ID         string `db:"id"`
	PlayerName string `db:"player_name"`
	PlayerID   int64  `db:"player_id"`
	MinPatch   string `db:"min_patch"`
	MatchCount int    `db:"match_count"`
	RowCount   int    `db:"row_count"`
	Dropped    int    `db:"dropped"`
	CreatedAt  string `db:"created_at"`
}

type runRowTableModel struct {
	RunID    string `db:"run_id"`
	Position int    `db:"position"`
	MatchID  int64  `db:"match_id"`
	Payload  string `db:"payload"`
}
