// SPDX-License-Identifier: MIT

package solver

// endComponent is a maximal end component: a strongly connected set of states
// together with, per member, the choices that never leave the set.
type endComponent struct {
	states   []int
	internal map[int][]int // member state -> choices staying inside
}

// contains reports whether choice r of state s stays inside the component.
func (ec *endComponent) contains(s, r int) bool {
	for _, c := range ec.internal[s] {
		if c == r {
			return true
		}
	}

	return false
}

// maximalEndComponents decomposes the sub-MDP induced by within and the
// choices accepted by allowed.
//
// Implementation:
//   - Stage 1: candidate choices of s are the allowed ones whose successors
//     all lie in within; states without candidates are dropped.
//   - Stage 2: compute SCCs over candidate choices; drop every choice that
//     leaves the SCC of its state, and every state left without choices.
//   - Stage 3: repeat Stage 2 until nothing changes; the surviving SCCs are
//     the maximal end components.
//
// Complexity: O(n·(n+m)) worst case, O(n+m) per refinement round.
func (g *graph) maximalEndComponents(within []bool, allowed func(r int) bool) []endComponent {
	alive := make([]bool, g.n)
	choices := make([][]int, g.n)
	for s := 0; s < g.n; s++ {
		if !within[s] {
			continue
		}
		for r := g.groups[s]; r < g.groups[s+1]; r++ {
			if allowed(r) && g.allSuccessorsIn(r, within) {
				choices[s] = append(choices[s], r)
			}
		}
		alive[s] = len(choices[s]) > 0
	}

	var comp []int
	var count int
	for changed := true; changed; {
		changed = false
		comp, count = tarjan(g.n, alive, g.adjacency(alive, choices))
		for s := 0; s < g.n; s++ {
			if !alive[s] {
				continue
			}
			kept := choices[s][:0]
			for _, r := range choices[s] {
				if g.staysIn(r, comp, comp[s]) {
					kept = append(kept, r)
				}
			}
			if len(kept) != len(choices[s]) {
				changed = true
			}
			choices[s] = kept
			if len(kept) == 0 {
				alive[s] = false
			}
		}
	}

	index := make(map[int]int, count)
	var ecs []endComponent
	for s := 0; s < g.n; s++ {
		if !alive[s] {
			continue
		}
		i, ok := index[comp[s]]
		if !ok {
			i = len(ecs)
			index[comp[s]] = i
			ecs = append(ecs, endComponent{internal: make(map[int][]int)})
		}
		ecs[i].states = append(ecs[i].states, s)
		ecs[i].internal[s] = choices[s]
	}

	return ecs
}

// staysIn reports whether every successor of r belongs to component c.
func (g *graph) staysIn(r int, comp []int, c int) bool {
	cols, _ := g.successors(r)
	for _, t := range cols {
		if comp[t] != c {
			return false
		}
	}

	return true
}

// adjacency flattens the candidate choices of alive states into successor lists.
func (g *graph) adjacency(alive []bool, choices [][]int) [][]int {
	adj := make([][]int, g.n)
	seen := make([]int, g.n)
	for i := range seen {
		seen[i] = -1
	}
	for s := 0; s < g.n; s++ {
		if !alive[s] {
			continue
		}
		for _, r := range choices[s] {
			cols, _ := g.successors(r)
			for _, t := range cols {
				if alive[t] && seen[t] != s {
					seen[t] = s
					adj[s] = append(adj[s], t)
				}
			}
		}
	}

	return adj
}

// tarjan labels the SCCs of the graph induced by alive states.
// comp[s] is -1 for dead states. The traversal uses an explicit call stack.
func tarjan(n int, alive []bool, adj [][]int) (comp []int, count int) {
	type frame struct{ v, next int }

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	comp = make([]int, n)
	for i := range index {
		index[i] = -1
		comp[i] = -1
	}

	var stack []int
	var call []frame
	counter := 0
	visit := func(v int) {
		index[v], low[v] = counter, counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
		call = append(call, frame{v: v})
	}

	for root := 0; root < n; root++ {
		if !alive[root] || index[root] >= 0 {
			continue
		}
		visit(root)
		for len(call) > 0 {
			top := len(call) - 1
			v := call[top].v
			if call[top].next < len(adj[v]) {
				w := adj[v][call[top].next]
				call[top].next++
				if index[w] < 0 {
					visit(w)
				} else if onStack[w] && index[w] < low[v] {
					low[v] = index[w]
				}
				continue
			}

			if low[v] == index[v] {
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp[w] = count
					if w == v {
						break
					}
				}
				count++
			}
			call = call[:top]
			if top > 0 {
				if u := call[top-1].v; low[v] < low[u] {
					low[u] = low[v]
				}
			}
		}
	}

	return comp, count
}
