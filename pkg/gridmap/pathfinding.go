// pkg/gridmap/pathfinding.go
package gridmap

import "math"

// MaxSimpleNodes caps expansions in FindSimplePath.
const MaxSimpleNodes = 50

const maxDirectSteps = 100

var neighbours8 = [...]Point{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

var neighbours4 = [...]Point{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
}

// node — состояние поиска для одной клетки
type node struct {
	pos    Point
	g, h   float64
	parent *node
	open   bool
}

func (n *node) f() float64 { return n.g + n.h }

func distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// FindPath runs A* over 8-connected neighbours with Euclidean step cost and heuristic.
// Equal f is broken by lower h, so identical grids yield identical paths.
// Returns nil when the goal is unreachable and [start] when start == goal.
func FindPath(start, goal Point, g *Grid) []Point {
	return search(start, goal, g, neighbours8[:], true, 0)
}

// FindSimplePath is a bounded 4-connected search for per-creep repathing.
// When the expansion cap is hit before reaching goal it falls back to DirectPath.
func FindSimplePath(start, goal Point, g *Grid) []Point {
	if path := search(start, goal, g, neighbours4[:], false, MaxSimpleNodes); path != nil {
		return path
	}
	return DirectPath(start, goal)
}

func search(start, goal Point, g *Grid, dirs []Point, tieBreak bool, limit int) []Point {
	nodes := make(map[Point]*node)
	closed := make(map[Point]bool)

	first := &node{pos: start, h: distance(start, goal), open: true}
	nodes[start] = first
	open := []*node{first}

	expanded := 0
	for len(open) > 0 {
		if limit > 0 && expanded >= limit {
			return nil
		}
		expanded++

		best := 0
		for i := 1; i < len(open); i++ {
			cf, bf := open[i].f(), open[best].f()
			if cf < bf || (tieBreak && cf == bf && open[i].h < open[best].h) {
				best = i
			}
		}
		current := open[best]
		open = append(open[:best], open[best+1:]...)
		current.open = false
		closed[current.pos] = true

		if current.pos == goal {
			return retrace(current)
		}

		stepCost := 1.0
		for _, d := range dirs {
			np := Point{X: current.pos.X + d.X, Y: current.pos.Y + d.Y}
			if closed[np] || !g.IsWalkable(np.X, np.Y) {
				continue
			}
			if tieBreak {
				stepCost = distance(current.pos, np)
			}
			cost := current.g + stepCost

			n, seen := nodes[np]
			if !seen {
				n = &node{pos: np}
				nodes[np] = n
			}
			if !n.open || cost < n.g {
				n.g = cost
				n.h = distance(np, goal)
				n.parent = current
				if !n.open {
					n.open = true
					open = append(open, n)
				}
			}
		}
	}
	return nil
}

func retrace(end *node) []Point {
	var path []Point
	for n := end; n != nil; n = n.parent {
		path = append(path, n.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// DirectPath steps greedily toward goal on both axes, ignoring obstructions.
func DirectPath(start, goal Point) []Point {
	path := []Point{start}
	cur := start
	for steps := 0; cur != goal && steps < maxDirectSteps; steps++ {
		cur.X += sign(goal.X - cur.X)
		cur.Y += sign(goal.Y - cur.Y)
		path = append(path, cur)
	}
	if cur != goal {
		path = append(path, goal)
	}
	return path
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// PathLength sums Euclidean step costs along path.
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += distance(path[i-1], path[i])
	}
	return total
}
