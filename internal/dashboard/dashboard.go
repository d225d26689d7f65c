// Package dashboard wires one store client into the collection
// synchronizers and the statistics aggregator, and loads the composite
// views shown on the dashboard.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/folio/internal/collection"
	"github.com/mesh-intelligence/folio/internal/stats"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Sizes of the overview panels.
const (
	RecentProjects  = 5
	TopTechnologies = 8
)

// Dashboard owns the synchronizers of every collection type. All of them
// share the store passed to New.
type Dashboard struct {
	store types.ObjectStore
	opts  collection.Options
	syncs map[string]*collection.Synchronizer
	agg   *stats.Aggregator
}

// New builds a Dashboard over store.
func New(store types.ObjectStore, opts collection.Options) *Dashboard {
	d := &Dashboard{
		store: store,
		opts:  opts,
		syncs: make(map[string]*collection.Synchronizer),
		agg:   &stats.Aggregator{Store: store},
	}
	for _, t := range types.ContentTypes {
		d.syncs[t] = collection.New(store, t, opts)
	}
	return d
}

// Collection returns the synchronizer for objType.
func (d *Dashboard) Collection(objType string) (*collection.Synchronizer, error) {
	s, ok := d.syncs[objType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidType, objType)
	}
	return s, nil
}

// Projects returns the projects synchronizer.
func (d *Dashboard) Projects() *collection.Synchronizer { return d.syncs[types.TypeProjects] }

// Skills returns the skills synchronizer.
func (d *Dashboard) Skills() *collection.Synchronizer { return d.syncs[types.TypeSkills] }

// Stats computes the dashboard figures.
func (d *Dashboard) Stats(ctx context.Context) (types.DashboardStats, error) {
	return d.agg.Compute(ctx)
}

// Overview is the landing view: figures, recent projects, top
// technologies and skill categories.
type Overview struct {
	Stats          types.DashboardStats `json:"stats" yaml:"stats"`
	RecentProjects []types.Object       `json:"recentProjects" yaml:"recent_projects"`
	TechStack      []types.Count        `json:"techStack" yaml:"tech_stack"`
	SkillGroups    []types.Count        `json:"skillGroups" yaml:"skill_groups"`
}

// Overview loads stats, projects and skills concurrently and joins them.
func (d *Dashboard) Overview(ctx context.Context) (Overview, error) {
	var (
		ov       Overview
		projects []types.Object
		skills   []types.Object
		g        errgroup.Group
	)
	g.Go(func() error {
		s, err := d.agg.Compute(ctx)
		ov.Stats = s
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = d.Projects().Load(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = d.Skills().Load(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	ov.RecentProjects = stats.Recent(projects, RecentProjects)
	ov.TechStack = stats.TechStackCounts(projects, TopTechnologies)
	ov.SkillGroups = stats.CategoryCounts(skills)
	return ov, nil
}

// Profile pairs the profile and the contact info; either may be nil when
// the bucket has none.
type Profile struct {
	Profile     *types.Object `json:"profile" yaml:"profile"`
	ContactInfo *types.Object `json:"contactInfo" yaml:"contact_info"`
}

// ProfileBundle loads the profile and contact info concurrently.
func (d *Dashboard) ProfileBundle(ctx context.Context) (Profile, error) {
	var (
		p Profile
		g errgroup.Group
	)
	g.Go(func() error {
		var err error
		p.Profile, err = collection.LoadSingleton(ctx, d.store, types.TypeProfile, d.opts)
		return err
	})
	g.Go(func() error {
		var err error
		p.ContactInfo, err = collection.LoadSingleton(ctx, d.store, types.TypeContactInfo, d.opts)
		return err
	})
	if err := g.Wait(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
