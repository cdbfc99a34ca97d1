package opendota

import (
	"fmt"
	"regexp"
	"strings"
)

var patchLiteral = regexp.MustCompile(`^\d+(\.\d+)?[a-z]?$`)

// matchIDsQuery lists every match of accountID played on minPatch or later.
// minPatch is inlined into the SQL, so it must look like a version. Lettered
// patches are quoted since they are not numeric literals.
func matchIDsQuery(accountID int64, minPatch string) (string, error) {
	minPatch = strings.TrimSpace(minPatch)
	if !patchLiteral.MatchString(minPatch) {
		return "", fmt.Errorf("invalid patch literal %q", minPatch)
	}
	if accountID <= 0 {
		return "", fmt.Errorf("account id must be greater than zero")
	}

	literal := minPatch
	if last := minPatch[len(minPatch)-1]; last >= 'a' && last <= 'z' {
		literal = "'" + minPatch + "'"
	}

	return strings.Join([]string{
		"SELECT matches.match_id",
		"FROM matches",
		"JOIN match_patch using(match_id)",
		"JOIN player_matches using(match_id)",
		"LEFT JOIN notable_players ON notable_players.account_id = player_matches.account_id",
		"LEFT JOIN teams using(team_id)",
		"WHERE TRUE",
		fmt.Sprintf("AND match_patch.patch >= cast(%s as varchar)", literal),
		fmt.Sprintf("AND player_matches.account_id = %d", accountID),
		"ORDER BY matches.match_id NULLS LAST",
	}, "\n"), nil
}
