// Package scenario answers, for one team and a qualification cutoff, which
// pending-week outcomes are necessary, which are sufficient, and what an
// example qualifying week looks like. Questions are decided by
// satisfiability queries over a symbolic model of the week's scores.
package scenario

import (
	"errors"
	"fmt"

	"github.com/derekprior/clinch/internal/league"
	"github.com/derekprior/clinch/internal/standings"
)

// ErrInvalidRequest reports an analysis request that names an unknown team
// or an unsupported cutoff. Detected before any solver work begins.
var ErrInvalidRequest = errors.New("invalid request")

// Target names a qualification cutoff the way the league talks about it.
type Target string

const (
	TargetPlayoffs Target = "playoffs"
	TargetBye      Target = "bye"
)

// Cutoff returns the rank threshold for a named target.
func (t Target) Cutoff() (int, bool) {
	switch t {
	case TargetPlayoffs:
		return 6, true
	case TargetBye:
		return 2, true
	}
	return 0, false
}

// Bounds is the plausible weekly score range in centipoints, inclusive.
type Bounds struct {
	Min int
	Max int
}

// Margin is an optional finer-grained proposition: Winner beats its
// opponent by at least Centi centipoints.
type Margin struct {
	Winner league.TeamID
	Centi  int
}

// Options tunes one analysis run.
type Options struct {
	Bounds        Bounds
	MaxQueries    int      // satisfiability-query budget, 0 = default
	MaxSufficient int      // cap on reported sufficient combinations, 0 = default
	Margins       []Margin // extra margin propositions to test for necessity
}

const (
	defaultMaxQueries    = 25000
	defaultMaxSufficient = 8
)

// Request identifies the analyzed team and the cutoff.
type Request struct {
	Team   league.TeamID
	Cutoff int
}

// Verdict is the answer to "is qualification achievable at all?".
type Verdict int

const (
	VerdictEliminated Verdict = iota
	VerdictCanQualify
	VerdictInconclusive
)

func (v Verdict) String() string {
	switch v {
	case VerdictEliminated:
		return "eliminated"
	case VerdictCanQualify:
		return "can qualify"
	case VerdictInconclusive:
		return "inconclusive"
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// Condition is a necessary outcome: Winner must win its matchup, by at
// least MarginCenti when non-zero. TieDependent marks a condition required
// only for a clean berth; an unresolved tie could still rescue the team
// without it.
type Condition struct {
	Matchup      int
	Winner       league.TeamID
	MarginCenti  int
	TieDependent bool
}

// Outcome fixes one matchup in a sufficient combination.
type Outcome int

const (
	OutcomeOpen Outcome = iota // matchup may go either way
	OutcomeHome
	OutcomeAway
)

// Combination is a sufficient set of matchup outcomes: every week consistent
// with it qualifies the analyzed team. TieDependent means the guarantee only
// reaches a share of the boundary position.
type Combination struct {
	Outcomes     []Outcome
	TieDependent bool
}

// Guaranteed reports whether the combination fixes nothing, i.e.
// qualification is already guaranteed no matter what happens.
func (c Combination) Guaranteed() bool {
	for _, o := range c.Outcomes {
		if o != OutcomeOpen {
			return false
		}
	}
	return true
}

// MatchupResult is one matchup's outcome in an example scenario.
type MatchupResult struct {
	Matchup   int
	Winner    league.TeamID // league.None when drawn
	HomeScore int
	AwayScore int
}

// Example is one concrete qualifying week: a full score assignment, the
// matchup results it implies, and the projected final standings.
type Example struct {
	Results   []MatchupResult
	Scores    standings.Assignment
	Standings *standings.Ranking
}

// Analysis is the full result for one team and cutoff. Incomplete lists
// questions that ran out of query budget; their absence of answers must not
// be read as eliminated or guaranteed.
type Analysis struct {
	Team         league.Team
	Cutoff       int
	Verdict      Verdict
	TieDependent bool // qualification reachable only through an unresolved tie

	Necessary  []Condition
	Sufficient []Combination
	Example    *Example

	BestRank                int
	WorstQualifyingRank     int
	CanQualifyWithoutOwnWin bool

	QueriesUsed int
	Incomplete  []string
	Warnings    []string
}

// Analyze runs the full scenario analysis for one team. The league snapshot
// is never mutated; concurrent calls over the same League are safe, each
// analysis owning its own constraint system.
func Analyze(lg *league.League, req Request, opts Options) (*Analysis, error) {
	team, ok := lg.Team(req.Team)
	if !ok {
		return nil, fmt.Errorf("%w: unknown team %d", ErrInvalidRequest, req.Team)
	}
	if req.Cutoff < 1 || req.Cutoff > lg.Size() {
		return nil, fmt.Errorf("%w: cutoff %d out of range for a %d-team league", ErrInvalidRequest, req.Cutoff, lg.Size())
	}
	if opts.Bounds.Min >= opts.Bounds.Max {
		return nil, fmt.Errorf("%w: score bounds [%d, %d] are empty", ErrInvalidRequest, opts.Bounds.Min, opts.Bounds.Max)
	}
	for _, m := range opts.Margins {
		if lg.MatchupOf(m.Winner) < 0 {
			return nil, fmt.Errorf("%w: margin proposition names %s, which has no matchup", ErrInvalidRequest, lg.Name(m.Winner))
		}
		if m.Centi < 1 {
			return nil, fmt.Errorf("%w: margin must be at least one centipoint", ErrInvalidRequest)
		}
	}
	if opts.MaxQueries == 0 {
		opts.MaxQueries = defaultMaxQueries
	}
	if opts.MaxSufficient == 0 {
		opts.MaxSufficient = defaultMaxSufficient
	}

	a := &analyzer{
		enc:  newEncoding(lg, req.Team, opts.Bounds, opts.Margins),
		opts: opts,
		res:  &Analysis{Team: team, Cutoff: req.Cutoff},
	}
	a.run()
	a.res.QueriesUsed = a.queries
	return a.res, nil
}
