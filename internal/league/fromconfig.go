package league

import (
	"fmt"

	"github.com/derekprior/clinch/internal/config"
)

// FromConfig builds a League from a loaded config, resolving matchup team
// names to IDs. Name resolution failures and scheduling inconsistencies are
// malformed-schedule errors.
func FromConfig(cfg *config.Config) (*League, error) {
	teams := make([]Team, len(cfg.Teams))
	index := make(map[string]TeamID, len(cfg.Teams))
	for i, t := range cfg.Teams {
		teams[i] = Team{ID: TeamID(i), Name: t.Name, Wins: t.Wins, Points: t.Points.Centi}
		index[t.Name] = TeamID(i)
	}

	matchups := make([]Matchup, len(cfg.Matchups))
	for i, m := range cfg.Matchups {
		home, ok := index[m.Home]
		if !ok {
			return nil, fmt.Errorf("%w: matchup %d references unknown team %q", ErrMalformedSchedule, i, m.Home)
		}
		away, ok := index[m.Away]
		if !ok {
			return nil, fmt.Errorf("%w: matchup %d references unknown team %q", ErrMalformedSchedule, i, m.Away)
		}
		matchups[i] = Matchup{Home: home, Away: away}
	}

	return New(teams, matchups)
}
