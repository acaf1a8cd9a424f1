package scenario

// The integer side of the model. Every atom polarity maps to difference
// constraints over the week's score variables (s_u - s_v <= w), plus the
// configured bounds against a zero node. A boolean model is real iff the
// induced system has no negative cycle; when it does, the atoms on the cycle
// form a conflict the boolean search must avoid.

type edge struct {
	from, to int
	weight   int
	reasons  []int // model literals this edge follows from; nil for bounds
}

func value(model []bool, v int) bool {
	return v-1 < len(model) && model[v-1]
}

// edges materializes the difference constraints induced by a boolean model.
// Node indices are team IDs; the extra node is the zero reference.
func (e *encoding) edges(model []bool) []edge {
	n := e.lg.Size()
	zero := n
	var out []edge

	// lo <= s_i <= hi for every team.
	for i := 0; i < n; i++ {
		out = append(out,
			edge{from: zero, to: i, weight: e.bounds.Max},
			edge{from: i, to: zero, weight: -e.bounds.Min},
		)
	}

	// Winner atoms: a win is a strictly higher week score; a false atom
	// caps that side at its opponent's score.
	for mi, m := range e.lg.Matchups() {
		a, b := int(m.Home), int(m.Away)
		vH, vA := e.winVar[mi][0], e.winVar[mi][1]
		if value(model, vH) {
			out = append(out, edge{from: a, to: b, weight: -1, reasons: []int{vH}})
		} else {
			out = append(out, edge{from: b, to: a, weight: 0, reasons: []int{-vH}})
		}
		if value(model, vA) {
			out = append(out, edge{from: b, to: a, weight: -1, reasons: []int{vA}})
		} else {
			out = append(out, edge{from: a, to: b, weight: 0, reasons: []int{-vA}})
		}
	}

	// Above atoms compare final totals: current points plus week score.
	teams := e.lg.Teams()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := e.above[i][j]
			gap := teams[i].Points - teams[j].Points
			if value(model, v) {
				out = append(out, edge{from: i, to: j, weight: gap - 1, reasons: []int{v}})
			} else {
				out = append(out, edge{from: j, to: i, weight: -gap, reasons: []int{-v}})
			}
		}
	}

	for k, m := range e.margins {
		w := int(m.Winner)
		opp, _ := e.lg.Opponent(m.Winner)
		o := int(opp)
		v := e.marVar[k]
		if value(model, v) {
			out = append(out, edge{from: w, to: o, weight: -m.Centi, reasons: []int{v}})
		} else {
			out = append(out, edge{from: o, to: w, weight: m.Centi - 1, reasons: []int{-v}})
		}
	}

	return out
}

// feasible checks a boolean model against the score semantics with
// Bellman-Ford. On success it returns concrete week scores from the
// shortest-path potentials. On failure it returns a conflict clause: the
// negation of the atom literals on a negative cycle.
func (e *encoding) feasible(model []bool) (ok bool, scores []int, conflict []int) {
	edges := e.edges(model)
	nn := e.lg.Size() + 1

	dist := make([]int, nn)
	pred := make([]int, nn)
	for i := range pred {
		pred[i] = -1
	}

	for pass := 0; pass < nn; pass++ {
		changed := false
		for idx, ed := range edges {
			if d := dist[ed.from] + ed.weight; d < dist[ed.to] {
				dist[ed.to] = d
				pred[ed.to] = idx
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for idx, ed := range edges {
		if dist[ed.from]+ed.weight < dist[ed.to] {
			pred[ed.to] = idx
			return false, nil, e.cycleConflict(model, edges, pred, ed.to)
		}
	}

	n := e.lg.Size()
	scores = make([]int, n)
	for i := 0; i < n; i++ {
		scores[i] = dist[i] - dist[n]
	}
	return true, scores, nil
}

// cycleConflict walks the predecessor graph from a node known to be affected
// by a negative cycle and collects the literals behind the cycle's edges.
func (e *encoding) cycleConflict(model []bool, edges []edge, pred []int, start int) []int {
	// Walk far enough to be inside the cycle.
	cur := start
	for i := 0; i <= len(pred); i++ {
		if pred[cur] < 0 {
			return e.blockModel(model)
		}
		cur = edges[pred[cur]].from
	}

	var conflict []int
	seen := make(map[int]bool)
	entry := cur
	for i := 0; i <= len(pred); i++ {
		if pred[cur] < 0 {
			return e.blockModel(model)
		}
		ed := edges[pred[cur]]
		for _, r := range ed.reasons {
			if !seen[r] {
				seen[r] = true
				conflict = append(conflict, -r)
			}
		}
		cur = ed.from
		if cur == entry {
			return conflict
		}
	}
	return e.blockModel(model)
}

// blockModel negates every atom literal of the model. Sound for any
// infeasible model, used only when cycle extraction cannot give a sharper
// conflict.
func (e *encoding) blockModel(model []bool) []int {
	var clause []int
	add := func(v int) { clause = append(clause, lit(v, !value(model, v))) }
	for _, wv := range e.winVar {
		add(wv[0])
		add(wv[1])
	}
	for i := range e.above {
		for j, v := range e.above[i] {
			if i != j {
				add(v)
			}
		}
	}
	for _, v := range e.marVar {
		add(v)
	}
	return clause
}
