package league

import (
	"errors"
	"fmt"
)

// ErrMalformedSchedule reports a league snapshot whose pending-week matchups
// are inconsistent: a team in more than one matchup, a matchup referencing an
// unknown team, or a team matched against itself.
var ErrMalformedSchedule = errors.New("malformed schedule")

// TeamID identifies a team within a league by its position in the snapshot.
type TeamID int

// None marks the absence of a team, e.g. the winner of a drawn matchup.
const None TeamID = -1

// Team is one team's record going into the pending week. Points are stored
// in centipoints (hundredths of a point) so tiebreaks never touch floats.
type Team struct {
	ID     TeamID
	Name   string
	Wins   int
	Points int
}

// Matchup pairs two teams for the pending week. Home/Away carry no
// competitive meaning here; they only fix which side is named first.
type Matchup struct {
	Home TeamID
	Away TeamID
}

// League is an immutable snapshot of a league entering one decisive week.
type League struct {
	teams    []Team
	matchups []Matchup
	byTeam   []int // team -> matchup index, -1 for a bye week
	byName   map[string]TeamID
}

// New validates a snapshot and builds a League. Team IDs are positional:
// whatever ID the caller set is overwritten with the team's index.
func New(teams []Team, matchups []Matchup) (*League, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 teams, got %d", ErrMalformedSchedule, len(teams))
	}

	lg := &League{
		teams:    make([]Team, len(teams)),
		matchups: make([]Matchup, len(matchups)),
		byTeam:   make([]int, len(teams)),
		byName:   make(map[string]TeamID, len(teams)),
	}
	copy(lg.teams, teams)
	copy(lg.matchups, matchups)

	for i := range lg.teams {
		t := &lg.teams[i]
		t.ID = TeamID(i)
		if t.Name == "" {
			return nil, fmt.Errorf("%w: team %d has no name", ErrMalformedSchedule, i)
		}
		if prev, ok := lg.byName[t.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate team name %q (teams %d and %d)", ErrMalformedSchedule, t.Name, prev, i)
		}
		if t.Wins < 0 {
			return nil, fmt.Errorf("%w: team %q has negative wins", ErrMalformedSchedule, t.Name)
		}
		lg.byName[t.Name] = t.ID
		lg.byTeam[i] = -1
	}

	for mi, m := range lg.matchups {
		for _, id := range []TeamID{m.Home, m.Away} {
			if id < 0 || int(id) >= len(lg.teams) {
				return nil, fmt.Errorf("%w: matchup %d references unknown team %d", ErrMalformedSchedule, mi, id)
			}
		}
		if m.Home == m.Away {
			return nil, fmt.Errorf("%w: matchup %d pairs %q with itself", ErrMalformedSchedule, mi, lg.teams[m.Home].Name)
		}
		for _, id := range []TeamID{m.Home, m.Away} {
			if lg.byTeam[id] >= 0 {
				return nil, fmt.Errorf("%w: team %q appears in matchups %d and %d", ErrMalformedSchedule, lg.teams[id].Name, lg.byTeam[id], mi)
			}
			lg.byTeam[id] = mi
		}
	}

	return lg, nil
}

// Size returns the number of teams.
func (lg *League) Size() int { return len(lg.teams) }

// Teams returns the teams in snapshot order.
func (lg *League) Teams() []Team { return lg.teams }

// Matchups returns the pending week's matchups.
func (lg *League) Matchups() []Matchup { return lg.matchups }

// Team looks a team up by ID.
func (lg *League) Team(id TeamID) (Team, bool) {
	if id < 0 || int(id) >= len(lg.teams) {
		return Team{}, false
	}
	return lg.teams[id], true
}

// TeamByName looks a team up by exact display name.
func (lg *League) TeamByName(name string) (Team, bool) {
	id, ok := lg.byName[name]
	if !ok {
		return Team{}, false
	}
	return lg.teams[id], true
}

// MatchupOf returns the index of the matchup a team plays in, or -1 for a bye.
func (lg *League) MatchupOf(id TeamID) int {
	if id < 0 || int(id) >= len(lg.byTeam) {
		return -1
	}
	return lg.byTeam[id]
}

// Opponent returns the team a team faces this week, or false for a bye.
func (lg *League) Opponent(id TeamID) (TeamID, bool) {
	mi := lg.MatchupOf(id)
	if mi < 0 {
		return None, false
	}
	m := lg.matchups[mi]
	if m.Home == id {
		return m.Away, true
	}
	return m.Home, true
}

// Name returns a team's display name, or a placeholder for unknown IDs.
func (lg *League) Name(id TeamID) string {
	if t, ok := lg.Team(id); ok {
		return t.Name
	}
	return fmt.Sprintf("team %d", id)
}
