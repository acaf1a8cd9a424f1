// Package standings derives projected final standings from one concrete
// resolution of the pending week's scores.
package standings

import (
	"fmt"
	"sort"

	"github.com/derekprior/clinch/internal/league"
)

// DrawAwardsWin is the fixed tie policy for a drawn matchup. League rules
// leave equal scores undefined, so a drawn matchup awards a win to neither
// side. Flip this only if the league's own rules say otherwise.
const DrawAwardsWin = false

// Assignment gives every team's score for the pending week, in centipoints,
// indexed by TeamID.
type Assignment []int

// Projected is one team's projected final record.
type Projected struct {
	Team   league.TeamID
	Wins   int
	Points int
}

// Ranking is a total order over projected final records: wins descending,
// then points descending. Teams equal on both keys form an unresolved tie
// group; their relative order is by ID for display only and carries no
// competitive meaning.
type Ranking struct {
	Order []Projected
	pos   []int             // team -> 1-indexed position (best position of its tie group)
	tied  []league.TeamID   // team -> group leader if in an unresolved tie, None otherwise
	Tied  [][]league.TeamID // unresolved tie groups, two or more teams each
}

// Position returns a team's 1-indexed rank. Every member of an unresolved
// tie group reports the group's best position.
func (r *Ranking) Position(id league.TeamID) int { return r.pos[id] }

// Unresolved reports whether a team is part of an unresolved tie group.
func (r *Ranking) Unresolved(id league.TeamID) bool { return r.tied[id] != league.None }

// Project derives each team's projected final record from a week assignment.
// A team wins if its score strictly exceeds its opponent's; byes keep their
// record. Every team's week score counts toward its point total.
func Project(lg *league.League, asn Assignment) ([]Projected, error) {
	if len(asn) != lg.Size() {
		return nil, fmt.Errorf("assignment covers %d teams, league has %d", len(asn), lg.Size())
	}

	out := make([]Projected, lg.Size())
	for _, t := range lg.Teams() {
		out[t.ID] = Projected{Team: t.ID, Wins: t.Wins, Points: t.Points + asn[t.ID]}
	}
	for _, m := range lg.Matchups() {
		switch {
		case asn[m.Home] > asn[m.Away]:
			out[m.Home].Wins++
		case asn[m.Away] > asn[m.Home]:
			out[m.Away].Wins++
		default:
			if DrawAwardsWin {
				out[m.Home].Wins++
				out[m.Away].Wins++
			}
		}
	}
	return out, nil
}

// Rank orders the projected records. It is a pure function: the same league
// and assignment always produce the identical Ranking.
func Rank(lg *league.League, asn Assignment) (*Ranking, error) {
	projected, err := Project(lg, asn)
	if err != nil {
		return nil, err
	}

	order := make([]Projected, len(projected))
	copy(order, projected)
	sort.Slice(order, func(i, j int) bool {
		if order[i].Wins != order[j].Wins {
			return order[i].Wins > order[j].Wins
		}
		if order[i].Points != order[j].Points {
			return order[i].Points > order[j].Points
		}
		return order[i].Team < order[j].Team
	})

	r := &Ranking{
		Order: order,
		pos:   make([]int, len(order)),
		tied:  make([]league.TeamID, len(order)),
	}
	for i := range r.tied {
		r.tied[i] = league.None
	}

	for i := 0; i < len(order); {
		j := i
		for j < len(order) && order[j].Wins == order[i].Wins && order[j].Points == order[i].Points {
			j++
		}
		if j-i > 1 {
			group := make([]league.TeamID, 0, j-i)
			for k := i; k < j; k++ {
				group = append(group, order[k].Team)
				r.tied[order[k].Team] = order[i].Team
			}
			r.Tied = append(r.Tied, group)
		}
		for k := i; k < j; k++ {
			r.pos[order[k].Team] = i + 1
		}
		i = j
	}

	return r, nil
}

// Qualifies reports whether a team's rank clears the cutoff. When the team
// sits in an unresolved tie group straddling the cutoff boundary, tied is
// true and ok reflects the reading most favorable to the team; the caller
// must treat the conclusion as indeterminate rather than settled.
func Qualifies(r *Ranking, team league.TeamID, cutoff int) (ok, tied bool) {
	pos := r.Position(team)
	ok = pos <= cutoff
	if r.Unresolved(team) {
		for _, group := range r.Tied {
			for _, id := range group {
				if id != team {
					continue
				}
				// Group occupies positions [pos, pos+len-1].
				if pos <= cutoff && pos+len(group)-1 > cutoff {
					tied = true
				}
			}
		}
	}
	return ok, tied
}
