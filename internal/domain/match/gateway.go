package match

import "context"

// Gateway is the remote statistics API the pipeline reads from.
type Gateway interface {
	ListProPlayers(ctx context.Context) ([]ProPlayer, error)
	ListMatchIDs(ctx context.Context, accountID int64, minPatch string) ([]int64, error)
	GetMatch(ctx context.Context, matchID int64) (MatchRecord, error)
	ListPatches(ctx context.Context) ([]Patch, error)
	ListHeroes(ctx context.Context) ([]Hero, error)
}
