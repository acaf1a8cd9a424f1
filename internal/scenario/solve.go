package scenario

import (
	"fmt"

	"github.com/crillab/gophersat/solver"

	"github.com/derekprior/clinch/internal/league"
	"github.com/derekprior/clinch/internal/standings"
)

type qstatus int

const (
	qSat qstatus = iota
	qUnsat
	qOut // query budget exhausted
)

type qresult struct {
	status qstatus
	model  []bool
	scores []int
}

// analyzer drives the satisfiability queries for one analysis run. Theory
// lemmas learned while refuting infeasible boolean models depend only on the
// base encoding, so they are kept across queries; everything else about a
// query is scoped to that query.
type analyzer struct {
	enc     *encoding
	opts    Options
	res     *Analysis
	lemmas  []solver.PBConstr
	queries int
	useOpt  bool // all qualification is tie-borne; rank with optimistic ties
}

// query checks satisfiability of the base model plus extra constraints,
// refining the boolean abstraction against the score semantics until a real
// assignment is found or the space is exhausted.
func (a *analyzer) query(extra ...solver.PBConstr) qresult {
	for {
		if a.queries >= a.opts.MaxQueries {
			return qresult{status: qOut}
		}
		a.queries++

		constrs := make([]solver.PBConstr, 0, len(a.enc.base)+len(a.lemmas)+len(extra))
		constrs = append(constrs, a.enc.base...)
		constrs = append(constrs, a.lemmas...)
		constrs = append(constrs, extra...)

		s := solver.New(solver.ParsePBConstrs(constrs))
		if s.Solve() != solver.Sat {
			return qresult{status: qUnsat}
		}
		model := s.Model()

		ok, scores, conflict := a.enc.feasible(model)
		if ok {
			return qresult{status: qSat, model: model, scores: scores}
		}
		if len(conflict) == 0 {
			return qresult{status: qUnsat}
		}
		a.lemmas = append(a.lemmas, solver.PropClause(conflict...))
	}
}

func (a *analyzer) giveUp(question string) {
	a.res.Incomplete = append(a.res.Incomplete, question)
}

func (a *analyzer) run() {
	cutoff := a.res.Cutoff

	// 1. Is qualification achievable at all?
	r := a.query(a.enc.qualify(cutoff, false))
	switch r.status {
	case qOut:
		a.res.Verdict = VerdictInconclusive
		a.giveUp("feasibility")
		return
	case qUnsat:
		opt := a.query(a.enc.qualify(cutoff, true))
		switch opt.status {
		case qOut:
			a.res.Verdict = VerdictInconclusive
			a.giveUp("feasibility")
			return
		case qUnsat:
			a.res.Verdict = VerdictEliminated
			return
		}
		a.res.TieDependent = true
		a.useOpt = true
		a.res.Warnings = append(a.res.Warnings,
			fmt.Sprintf("%s can only reach the cutoff through an exact points tie; the league's tiebreak for that case is undefined", a.res.Team.Name))
		r = opt
	}
	a.res.Verdict = VerdictCanQualify
	a.res.Example = a.example(r)

	a.necessary()
	a.sufficient()
	a.rankRange()
	a.ownLoss()
}

// necessary finds outcomes that must occur for the team to qualify: the
// winner propositions of every matchup, plus any declared margin
// propositions. P is necessary iff qualification is unsatisfiable with P
// blocked.
func (a *analyzer) necessary() {
	for mi, m := range a.enc.lg.Matchups() {
		sides := []struct {
			winner league.TeamID
			atom   int
		}{
			{m.Home, a.enc.winVar[mi][0]},
			{m.Away, a.enc.winVar[mi][1]},
		}
		for _, side := range sides {
			cond, done := a.checkNecessary(Condition{Matchup: mi, Winner: side.winner}, side.atom)
			if done {
				return
			}
			if cond != nil {
				a.res.Necessary = append(a.res.Necessary, *cond)
				break // the other side cannot also be necessary
			}
		}
	}

	for k, m := range a.enc.margins {
		cond, done := a.checkNecessary(Condition{
			Matchup:     a.enc.lg.MatchupOf(m.Winner),
			Winner:      m.Winner,
			MarginCenti: m.Centi,
		}, a.enc.marVar[k])
		if done {
			return
		}
		if cond != nil {
			a.res.Necessary = append(a.res.Necessary, *cond)
		}
	}
}

// checkNecessary tests one proposition atom. done reports budget exhaustion.
func (a *analyzer) checkNecessary(cond Condition, atom int) (*Condition, bool) {
	cutoff := a.res.Cutoff
	r := a.query(a.enc.qualify(cutoff, true), solver.PropClause(-atom))
	switch r.status {
	case qOut:
		a.giveUp("necessary outcomes")
		return nil, true
	case qUnsat:
		return &cond, false
	}
	if a.useOpt {
		return nil, false
	}
	// Still reachable with the proposition blocked; is it needed for a
	// clean berth, one that no unresolved tie could take away?
	r = a.query(a.enc.qualify(cutoff, false), solver.PropClause(-atom))
	switch r.status {
	case qOut:
		a.giveUp("necessary outcomes")
		return nil, true
	case qUnsat:
		cond.TieDependent = true
		return &cond, false
	}
	return nil, false
}

// sufficient enumerates partial winner assignments from most to least
// general, skipping any refinement of a combination already found, and keeps
// those under which the team cannot miss the cutoff.
func (a *analyzer) sufficient() {
	matchups := a.enc.lg.Matchups()
	m := len(matchups)
	cutoff := a.res.Cutoff
	miss := a.enc.missCut(cutoff, a.useOpt)

	total := 1
	for i := 0; i < m; i++ {
		total *= 3
		if total > 1<<22 {
			// Enumeration space beyond any sensible budget; the query
			// budget would stop us anyway.
			break
		}
	}

	outcomes := make([]Outcome, m)
	for it := 0; it < total; it++ {
		v := it
		for i := m - 1; i >= 0; i-- {
			outcomes[i] = Outcome(v % 3)
			v /= 3
		}
		if a.subsumed(outcomes) {
			continue
		}

		extra := []solver.PBConstr{miss}
		for i, o := range outcomes {
			switch o {
			case OutcomeHome:
				extra = append(extra, solver.PropClause(a.enc.winVar[i][0]))
			case OutcomeAway:
				extra = append(extra, solver.PropClause(a.enc.winVar[i][1]))
			}
		}

		r := a.query(extra...)
		switch r.status {
		case qOut:
			a.giveUp("sufficient outcomes")
			return
		case qSat:
			continue
		}

		comb := Combination{Outcomes: append([]Outcome(nil), outcomes...), TieDependent: a.useOpt}
		a.res.Sufficient = append(a.res.Sufficient, comb)
		if comb.Guaranteed() || len(a.res.Sufficient) >= a.opts.MaxSufficient {
			return
		}
	}
}

func (a *analyzer) subsumed(outcomes []Outcome) bool {
	for _, found := range a.res.Sufficient {
		match := true
		for i, o := range found.Outcomes {
			if o != OutcomeOpen && o != outcomes[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// rankRange finds the team's best achievable rank and the worst rank at
// which it still qualifies in some scenario.
func (a *analyzer) rankRange() {
	cutoff := a.res.Cutoff
	lits := a.enc.rivalLits(true)

	for k := 1; k <= cutoff; k++ {
		r := a.query(solver.AtMost(lits, k-1))
		if r.status == qOut {
			a.giveUp("rank range")
			return
		}
		if r.status == qSat {
			a.res.BestRank = k
			break
		}
	}

	for k := cutoff; k >= a.res.BestRank && k >= 1; k-- {
		r := a.query(solver.AtMost(lits, cutoff-1), solver.AtLeast(lits, k-1))
		if r.status == qOut {
			a.giveUp("rank range")
			return
		}
		if r.status == qSat {
			a.res.WorstQualifyingRank = k
			break
		}
	}
}

// ownLoss checks whether the team can still qualify without winning its own
// matchup.
func (a *analyzer) ownLoss() {
	atom := a.enc.teamWin[a.res.Team.ID]
	if atom == 0 {
		return // bye week
	}
	r := a.query(a.enc.qualify(a.res.Cutoff, a.useOpt), solver.PropClause(-atom))
	switch r.status {
	case qOut:
		a.giveUp("own-loss survival")
	case qSat:
		a.res.CanQualifyWithoutOwnWin = true
	}
}

// example materializes one satisfying assignment as a human-presentable
// scenario: matchup results with scores, and the projected standings.
func (a *analyzer) example(r qresult) *Example {
	asn := standings.Assignment(r.scores)
	ranking, err := standings.Rank(a.enc.lg, asn)
	if err != nil {
		return nil
	}

	results := make([]MatchupResult, 0, len(a.enc.lg.Matchups()))
	for mi, m := range a.enc.lg.Matchups() {
		res := MatchupResult{
			Matchup:   mi,
			Winner:    league.None,
			HomeScore: r.scores[m.Home],
			AwayScore: r.scores[m.Away],
		}
		switch {
		case res.HomeScore > res.AwayScore:
			res.Winner = m.Home
		case res.AwayScore > res.HomeScore:
			res.Winner = m.Away
		}
		results = append(results, res)
	}

	return &Example{Results: results, Scores: asn, Standings: ranking}
}
