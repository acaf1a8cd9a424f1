package scenario

import (
	"github.com/crillab/gophersat/solver"

	"github.com/derekprior/clinch/internal/league"
)

// encoding is the symbolic model of one pending week, built once per
// analysis. Boolean atoms abstract the week: per matchup, who wins (neither
// atom true means a draw); per ordered team pair, whether the first finishes
// strictly above the second on total points (neither direction true means an
// exact tie); per declared margin proposition, whether it holds. The integer
// score semantics behind each atom live in theory.go.
//
// Two families of auxiliary variables count rivals that finish above the
// analyzed team: optimistic (both-key ties resolved in the team's favor) and
// pessimistic (resolved against). Qualification is a cardinality constraint
// over one family.
type encoding struct {
	lg     *league.League
	team   league.TeamID
	bounds Bounds

	nVars   int
	winVar  [][2]int // matchup -> home-wins atom, away-wins atom
	teamWin []int    // team -> its win atom, 0 for a bye
	above   [][]int  // above[i][j]: team i strictly above team j on points
	margins []Margin
	marVar  []int // margin proposition atoms

	betterOpt  []int // rival -> "finishes above analyzed team", optimistic
	betterPess []int

	base []solver.PBConstr
}

func newEncoding(lg *league.League, team league.TeamID, bounds Bounds, margins []Margin) *encoding {
	n := lg.Size()
	e := &encoding{
		lg:         lg,
		team:       team,
		bounds:     bounds,
		winVar:     make([][2]int, len(lg.Matchups())),
		teamWin:    make([]int, n),
		above:      make([][]int, n),
		margins:    margins,
		marVar:     make([]int, len(margins)),
		betterOpt:  make([]int, n),
		betterPess: make([]int, n),
	}

	for mi, m := range lg.Matchups() {
		e.winVar[mi] = [2]int{e.newVar(), e.newVar()}
		e.teamWin[m.Home] = e.winVar[mi][0]
		e.teamWin[m.Away] = e.winVar[mi][1]
	}
	for i := 0; i < n; i++ {
		e.above[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if i != j {
				e.above[i][j] = e.newVar()
			}
		}
	}
	for i := range margins {
		e.marVar[i] = e.newVar()
	}
	// Allocated last so the base clauses mention the highest variable and
	// every model covers all atoms.
	for i := 0; i < n; i++ {
		if league.TeamID(i) != team {
			e.betterOpt[i] = e.newVar()
			e.betterPess[i] = e.newVar()
		}
	}

	e.buildBase()
	return e
}

func (e *encoding) newVar() int {
	e.nVars++
	return e.nVars
}

func lit(v int, val bool) int {
	if val {
		return v
	}
	return -v
}

func (e *encoding) buildBase() {
	// A matchup has at most one winner.
	for _, wv := range e.winVar {
		e.base = append(e.base, solver.PropClause(-wv[0], -wv[1]))
	}
	// Two teams cannot each be strictly above the other.
	n := e.lg.Size()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e.base = append(e.base, solver.PropClause(-e.above[i][j], -e.above[j][i]))
		}
	}
	for i := 0; i < n; i++ {
		if league.TeamID(i) != e.team {
			e.defineBetter(league.TeamID(i))
		}
	}
}

// defineBetter fixes the two "finishes above the analyzed team" variables
// for one rival by enumerating the win/loss cases of both teams' matchups.
// A rival ranks above on more final wins, or on equal wins and strictly more
// points. On equal wins and exactly equal points the optimistic variable is
// false and the pessimistic one true.
func (e *encoding) defineBetter(r league.TeamID) {
	t := e.team
	bo, bp := e.betterOpt[r], e.betterPess[r]
	aR, aT := e.teamWin[r], e.teamWin[t]
	winsR := e.lg.Teams()[r].Wins
	winsT := e.lg.Teams()[t].Wins

	for _, x := range winCases(aR) {
		for _, y := range winCases(aT) {
			var guard []int
			if aR != 0 {
				guard = append(guard, lit(aR, x == 1))
			}
			if aT != 0 {
				guard = append(guard, lit(aT, y == 1))
			}
			switch fwR, fwT := winsR+x, winsT+y; {
			case fwR > fwT:
				e.force(guard, bo)
				e.force(guard, bp)
			case fwR < fwT:
				e.force(guard, -bo)
				e.force(guard, -bp)
			default:
				e.forceIff(guard, bo, e.above[r][t])
				e.forceIff(guard, bp, -e.above[t][r])
			}
		}
	}
}

func winCases(atom int) []int {
	if atom == 0 {
		return []int{0} // bye week: the record is frozen
	}
	return []int{0, 1}
}

// force emits a clause making literal l true whenever every guard literal holds.
func (e *encoding) force(guard []int, l int) {
	clause := make([]int, 0, len(guard)+1)
	for _, g := range guard {
		clause = append(clause, -g)
	}
	e.base = append(e.base, solver.PropClause(append(clause, l)...))
}

// forceIff ties literal l to literal c under a guard.
func (e *encoding) forceIff(guard []int, l, c int) {
	neg := make([]int, 0, len(guard)+2)
	for _, g := range guard {
		neg = append(neg, -g)
	}
	e.base = append(e.base, solver.PropClause(append(append([]int{}, neg...), -l, c)...))
	e.base = append(e.base, solver.PropClause(append(append([]int{}, neg...), l, -c)...))
}

// rivalLits returns the chosen "finishes above" variables for every rival.
func (e *encoding) rivalLits(optimistic bool) []int {
	vars := e.betterPess
	if optimistic {
		vars = e.betterOpt
	}
	lits := make([]int, 0, e.lg.Size()-1)
	for i, v := range vars {
		if league.TeamID(i) != e.team {
			lits = append(lits, v)
		}
	}
	return lits
}

// qualify constrains the analyzed team to rank at or above the cutoff.
func (e *encoding) qualify(cutoff int, optimistic bool) solver.PBConstr {
	return solver.AtMost(e.rivalLits(optimistic), cutoff-1)
}

// missCut constrains the analyzed team to rank strictly below the cutoff.
func (e *encoding) missCut(cutoff int, optimistic bool) solver.PBConstr {
	return solver.AtLeast(e.rivalLits(optimistic), cutoff)
}
