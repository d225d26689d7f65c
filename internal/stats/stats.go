// Package stats derives summary figures from portfolio collections. Every
// figure is recomputed from the raw collections on each call.
package stats

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/folio/internal/collection"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// OtherCategory is the group of skills without a category.
const OtherCategory = "Other"

// Queries used by Compute; each asks only for the fields it needs.
var (
	projectsQuery     = types.FindQuery{Type: types.TypeProjects, Props: []string{"id", "metadata.featured"}}
	skillsQuery       = types.FindQuery{Type: types.TypeSkills, Props: []string{"id"}}
	testimonialsQuery = types.FindQuery{Type: types.TypeTestimonials, Props: []string{"id", "metadata.rating"}}
)

// Aggregator computes DashboardStats from a store.
type Aggregator struct {
	Store types.ObjectStore
}

// Compute loads projects, skills and testimonials concurrently and
// summarizes them. A source with no objects counts as empty. Any other
// failure fails the whole computation; sibling loads are not cancelled
// and simply run to completion.
func (a *Aggregator) Compute(ctx context.Context) (types.DashboardStats, error) {
	var projects, skills, testimonials []types.Object
	var g errgroup.Group
	load := func(q types.FindQuery, dst *[]types.Object) {
		g.Go(func() error {
			objs, err := collection.Fetch(ctx, a.Store, q)
			if err != nil {
				return &collection.OpError{Op: collection.OpFetch, Type: q.Type, Err: err}
			}
			*dst = objs
			return nil
		})
	}
	load(projectsQuery, &projects)
	load(skillsQuery, &skills)
	load(testimonialsQuery, &testimonials)
	if err := g.Wait(); err != nil {
		glog.Warningf("[stats] compute: %v", err)
		return types.DashboardStats{}, err
	}
	s := Summarize(projects, skills, testimonials)
	glog.V(1).Infof("[stats] %d projects, %d skills, %d testimonials", s.TotalProjects, s.TotalSkills, s.TotalTestimonials)
	return s, nil
}

// Summarize computes the dashboard figures from loaded collections.
func Summarize(projects, skills, testimonials []types.Object) types.DashboardStats {
	return types.DashboardStats{
		TotalProjects:     len(projects),
		FeaturedProjects:  FeaturedCount(projects),
		TotalSkills:       len(skills),
		TotalTestimonials: len(testimonials),
		AverageRating:     AverageRating(testimonials),
	}
}

// FeaturedCount counts objects whose metadata.featured is exactly true.
func FeaturedCount(objs []types.Object) int {
	n := 0
	for _, o := range objs {
		if o.Bool(types.FieldFeatured) {
			n++
		}
	}
	return n
}

// AverageRating is the mean metadata.rating rounded to one decimal. A
// missing rating counts as 0 and still counts toward the divisor. An
// empty slice averages to 0.
func AverageRating(testimonials []types.Object) float64 {
	if len(testimonials) == 0 {
		return 0
	}
	var sum float64
	for _, t := range testimonials {
		r, _ := t.Number(types.FieldRating)
		sum += r
	}
	return math.Round(sum/float64(len(testimonials))*10) / 10
}

// Category returns the category label of a skill, or OtherCategory.
func Category(skill types.Object) string {
	if c := strings.TrimSpace(skill.Option(types.FieldCategory)); c != "" {
		return c
	}
	return OtherCategory
}

// GroupByCategory partitions skills by category label, keeping input order
// within each group.
func GroupByCategory(skills []types.Object) map[string][]types.Object {
	groups := make(map[string][]types.Object)
	for _, s := range skills {
		c := Category(s)
		groups[c] = append(groups[c], s)
	}
	return groups
}

// Categories returns the category labels present in skills, sorted, with
// OtherCategory last.
func Categories(skills []types.Object) []string {
	var out []string
	for c := range GroupByCategory(skills) {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == OtherCategory:
			return 1
		case b == OtherCategory:
			return -1
		}
		return strings.Compare(a, b)
	})
	return out
}

// CategoryCounts returns the number of skills per category in Categories
// order.
func CategoryCounts(skills []types.Object) []types.Count {
	groups := GroupByCategory(skills)
	var out []types.Count
	for _, c := range Categories(skills) {
		out = append(out, types.Count{Name: c, Value: len(groups[c])})
	}
	return out
}

// FilterCategory returns the skills in category c; "" or "all" returns
// every skill.
func FilterCategory(skills []types.Object, c string) []types.Object {
	if c == "" || strings.EqualFold(c, "all") {
		return skills
	}
	var out []types.Object
	for _, s := range skills {
		if strings.EqualFold(Category(s), c) {
			out = append(out, s)
		}
	}
	return out
}

// TechStackCounts counts how many projects use each technology, sorted by
// count descending then name, keeping at most limit entries (limit <= 0
// keeps all).
func TechStackCounts(projects []types.Object, limit int) []types.Count {
	counts := map[string]int{}
	for _, p := range projects {
		seen := map[string]bool{}
		for _, tech := range p.Strings(types.FieldTechStack) {
			tech = strings.TrimSpace(tech)
			if tech == "" || seen[tech] {
				continue
			}
			seen[tech] = true
			counts[tech]++
		}
	}
	out := make([]types.Count, 0, len(counts))
	for name, v := range counts {
		out = append(out, types.Count{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b types.Count) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Recent returns the first n projects of an ordered collection.
func Recent(projects []types.Object, n int) []types.Object {
	if n < 0 {
		n = 0
	}
	return projects[:min(n, len(projects))]
}
