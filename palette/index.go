package palette

import (
	"math"
	"sync"

	"palut/cielab"
	"palut/metric"
)

// Index answers nearest color queries against a palette under one metric.
// It is safe for concurrent use.
type Index struct {
	pal       *Palette
	metric    metric.Metric
	neighbors func() neighborTable
}

// Match is a palette entry returned by a query, with its distance to the query color.
type Match struct {
	Entry
	Distance float64
}

// neighborTable holds, per palette index, the closest strictly darker and
// strictly lighter entry. Entries without such a neighbor point to themselves.
type neighborTable struct {
	darker  []int
	lighter []int
}

func NewIndex(p *Palette, m metric.Metric) *Index {
	idx := &Index{
		pal:    p,
		metric: m,
	}
	idx.neighbors = sync.OnceValue(idx.buildNeighbors)
	return idx
}

func (x *Index) Palette() *Palette {
	return x.pal
}

func (x *Index) Metric() metric.Metric {
	return x.metric
}

func (x *Index) match(i int, d float64) Match {
	return Match{Entry: x.pal.Entry(i), Distance: d}
}

// Nearest returns the palette entry closest to c. On ties the lowest index wins.
func (x *Index) Nearest(c cielab.RGB) Match {
	i, d := x.nearestLab(cielab.FromRGB(c))
	return x.match(i, d)
}

func (x *Index) nearestLab(lab cielab.Lab) (int, float64) {
	ret, best := 0, math.Inf(1)
	for i, v := range x.pal.lab {
		d := x.metric.Distance(v, lab)
		if d < best {
			if d == 0 {
				return i, 0
			}
			ret, best = i, d
		}
	}
	return ret, best
}

// NearestTwo returns the closest and second closest entries in a single pass.
// With a one color palette both results are that color.
func (x *Index) NearestTwo(c cielab.RGB) (first, second Match) {
	i, di, j, dj := x.nearestTwoLab(cielab.FromRGB(c))
	return x.match(i, di), x.match(j, dj)
}

func (x *Index) nearestTwoLab(lab cielab.Lab) (int, float64, int, float64) {
	first, second := -1, -1
	d1, d2 := math.Inf(1), math.Inf(1)
	for i, v := range x.pal.lab {
		d := x.metric.Distance(v, lab)
		if d < d1 {
			second, d2 = first, d1
			first, d1 = i, d
		} else if d < d2 {
			second, d2 = i, d
		}
	}
	if second < 0 {
		second, d2 = first, d1
	}
	return first, d1, second, d2
}

// NearestWithNeighbors extends NearestTwo with the tonal neighbors of the
// closest entry. Their distances are measured from c as well.
func (x *Index) NearestWithNeighbors(c cielab.RGB) (first, second, darker, lighter Match) {
	lab := cielab.FromRGB(c)
	i, di, j, dj := x.nearestTwoLab(lab)
	nt := x.neighbors()
	dk, lt := nt.darker[i], nt.lighter[i]

	return x.match(i, di),
		x.match(j, dj),
		x.match(dk, x.metric.Distance(x.pal.lab[dk], lab)),
		x.match(lt, x.metric.Distance(x.pal.lab[lt], lab))
}

// Darker returns the closest entry with a strictly lower L* than entry i,
// or entry i itself when there is none.
func (x *Index) Darker(i int) Entry {
	return x.pal.Entry(x.neighbors().darker[i])
}

// Lighter returns the closest entry with a strictly higher L* than entry i,
// or entry i itself when there is none.
func (x *Index) Lighter(i int) Entry {
	return x.pal.Entry(x.neighbors().lighter[i])
}

func (x *Index) buildNeighbors() neighborTable {
	n := x.pal.Len()
	nt := neighborTable{
		darker:  make([]int, n),
		lighter: make([]int, n),
	}

	for j, lj := range x.pal.lab {
		dk, lt := j, j
		bestDk, bestLt := math.Inf(1), math.Inf(1)
		for k, lk := range x.pal.lab {
			if lk.L == lj.L {
				continue
			}
			d := x.metric.Distance(lk, lj)
			if lk.L < lj.L {
				if d < bestDk {
					dk, bestDk = k, d
				}
			} else if d < bestLt {
				lt, bestLt = k, d
			}
		}
		nt.darker[j], nt.lighter[j] = dk, lt
	}

	return nt
}
