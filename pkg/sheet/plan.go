package sheet

import "github.com/matzehuels/magnetsheet/pkg/order"

// Instance is one printed magnet expanded from a source.
type Instance struct {
	Index  int  // position in the expanded sequence
	Source int  // index of the source in the input slice
	Copy   int  // 1-based copy number within its source
	Cell   Cell // where the magnet is printed
}

// Expand repeats every source Quantity times, preserving source order.
// Sources with zero or negative quantity contribute nothing. The returned
// instances have no cell assigned; see [NewPlan].
func Expand(sources []order.Source) []Instance {
	out := make([]Instance, 0, order.TotalQuantity(sources))
	for si, s := range sources {
		for c := 1; c <= s.Quantity; c++ {
			out = append(out, Instance{Index: len(out), Source: si, Copy: c})
		}
	}
	return out
}

// Plan is the page assignment of every instance.
type Plan struct {
	Geometry  Geometry
	Instances []Instance
	Pages     int
}

// NewPlan expands sources and assigns every instance its cell.
// Instance i always lands on Geometry.Locate(i).
func NewPlan(g Geometry, sources []order.Source) Plan {
	instances := Expand(sources)
	for i := range instances {
		instances[i].Cell = g.Locate(i)
	}
	return Plan{Geometry: g, Instances: instances, Pages: g.Pages(len(instances))}
}

// Page returns the instances printed on the given page.
func (p Plan) Page(page int) []Instance {
	if page < 0 || page >= p.Pages {
		return nil
	}
	per := p.Geometry.PerPage()
	start := page * per
	end := min(start+per, len(p.Instances))
	return p.Instances[start:end]
}
