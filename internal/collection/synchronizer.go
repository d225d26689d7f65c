// Package collection keeps a local copy of one content-type collection in
// step with the object store. A Synchronizer loads the collection, applies
// creates, updates and deletes remotely and mirrors each successful change
// locally, and offers optimistic variants that apply locally first and
// roll back the affected entity on failure.
package collection

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/folio/internal/resource"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Options tune the queries and calls made by a Synchronizer.
type Options struct {
	// Timeout bounds every store call. Zero uses types.DefaultRequestTimeout;
	// a negative value disables the bound.
	Timeout time.Duration
	// Props selects the fields fetched by Load. Nil uses DefaultProps.
	Props []string
	// Depth is the relation expansion depth passed to Find.
	Depth int
}

// DefaultOptions returns the options used by the dashboard views.
func DefaultOptions() Options {
	return Options{
		Timeout: types.DefaultRequestTimeout,
		Props:   DefaultProps,
		Depth:   1,
	}
}

// Synchronizer owns the local snapshot of one content type.
type Synchronizer struct {
	store   types.ObjectStore
	objType string
	opts    Options
	res     resource.Resource[[]types.Object]
}

// New creates an Idle Synchronizer for objType.
func New(store types.ObjectStore, objType string, opts Options) *Synchronizer {
	if opts.Timeout == 0 {
		opts.Timeout = types.DefaultRequestTimeout
	}
	if opts.Props == nil {
		opts.Props = DefaultProps
	}
	return &Synchronizer{store: store, objType: objType, opts: opts}
}

// Type returns the content type managed by s.
func (s *Synchronizer) Type() string { return s.objType }

func (s *Synchronizer) call(ctx context.Context, fn func(context.Context) error) error {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return fn(ctx)
}

func (s *Synchronizer) fail(op string, err error) error {
	glog.Warningf("[sync] %s %s: %v", op, s.objType, err)
	return &OpError{Op: op, Type: s.objType, Err: err}
}

// Load fetches the whole collection and replaces the local snapshot. An
// empty collection (NotFound at the store) loads as an empty slice. On
// failure the snapshot status becomes Failed and an OpError is returned;
// calling Load again is the retry.
func (s *Synchronizer) Load(ctx context.Context) ([]types.Object, error) {
	objs, err := s.res.Load(ctx, func(ctx context.Context) ([]types.Object, error) {
		var objs []types.Object
		err := s.call(ctx, func(ctx context.Context) error {
			var err error
			objs, err = Fetch(ctx, s.store, types.FindQuery{Type: s.objType, Props: s.opts.Props, Depth: s.opts.Depth})
			return err
		})
		if err != nil {
			return nil, s.fail(OpFetch, err)
		}
		if ordered(s.objType) {
			SortByOrder(objs)
		}
		return objs, nil
	})
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("[sync] loaded %d %s", len(objs), s.objType)
	return cloneAll(objs), nil
}

// State returns the current load state. Data is a copy.
func (s *Synchronizer) State() resource.Snapshot[[]types.Object] {
	snap := s.res.Snapshot()
	snap.Data = cloneAll(snap.Data)
	return snap
}

// Items returns a copy of the local snapshot.
func (s *Synchronizer) Items() []types.Object {
	return cloneAll(s.res.Snapshot().Data)
}

// Get returns the local copy of the object with id.
func (s *Synchronizer) Get(id string) (types.Object, bool) {
	items := s.res.Snapshot().Data
	if i := indexOf(items, id); i >= 0 {
		return items[i].Clone(), true
	}
	return types.Object{}, false
}

// replacement builds the full metadata sent to the store for a partial
// update: the local metadata merged with partial, with expanded relations
// collapsed back to ids. The store replaces metadata wholesale, so an
// object missing from the local snapshot is an error rather than a write
// of partial alone.
func (s *Synchronizer) replacement(id string, partial map[string]any) (map[string]any, error) {
	cur, ok := s.Get(id)
	if !ok {
		return nil, types.NotFound(fmt.Errorf("%s %q is not in the loaded collection", types.Singular(s.objType), id))
	}
	return collapseRelations(mergeMetadata(cur.Metadata, partial)), nil
}

// applyPartial merges partial into the local entry for id, if present.
func (s *Synchronizer) applyPartial(id string, partial map[string]any) {
	s.res.Mutate(func(items []types.Object) []types.Object {
		i := indexOf(items, id)
		if i < 0 {
			return items
		}
		items = slices.Clone(items)
		obj := items[i].Clone()
		obj.Metadata = mergeMetadata(obj.Metadata, partial)
		items[i] = obj
		if _, reorders := partial[types.FieldOrder]; reorders && ordered(s.objType) {
			SortByOrder(items)
		}
		return items
	})
}

// Update writes the merge of the local metadata and partial to the store.
// The local snapshot changes only after the store accepts the write; on
// failure it is untouched and an OpError is returned.
func (s *Synchronizer) Update(ctx context.Context, id string, partial map[string]any) error {
	if id == "" {
		return s.fail(OpUpdate, types.ErrInvalidID)
	}
	full, err := s.replacement(id, partial)
	if err != nil {
		return s.fail(OpUpdate, err)
	}
	if err := s.call(ctx, func(ctx context.Context) error {
		return s.store.UpdateOne(ctx, id, full)
	}); err != nil {
		return s.fail(OpUpdate, err)
	}
	s.applyPartial(id, partial)
	glog.V(1).Infof("[sync] updated %s %s", s.objType, id)
	return nil
}

// rollback restores one entity in a snapshot.
type rollback func([]types.Object) []types.Object

// optimistic applies change locally, runs remote, and on failure undoes
// only what change touched.
func (s *Synchronizer) optimistic(ctx context.Context, op string, change func([]types.Object) ([]types.Object, rollback), remote func(context.Context) error) error {
	var undo rollback
	s.res.Mutate(func(items []types.Object) []types.Object {
		var next []types.Object
		next, undo = change(items)
		return next
	})
	if err := s.call(ctx, remote); err != nil {
		if undo != nil {
			s.res.Mutate(undo)
			glog.V(1).Infof("[sync] rolled back %s on %s", op, s.objType)
		}
		return s.fail(op, err)
	}
	return nil
}

// UpdateOptimistic merges partial into the local entry first, then writes
// the merged metadata to the store. If the write fails the entry is
// restored to its previous value; other entries are left as they are.
func (s *Synchronizer) UpdateOptimistic(ctx context.Context, id string, partial map[string]any) error {
	if id == "" {
		return s.fail(OpUpdate, types.ErrInvalidID)
	}
	full, err := s.replacement(id, partial)
	if err != nil {
		return s.fail(OpUpdate, err)
	}
	return s.optimistic(ctx, OpUpdate,
		func(items []types.Object) ([]types.Object, rollback) {
			i := indexOf(items, id)
			if i < 0 {
				return items, nil
			}
			prev := items[i].Clone()
			next := slices.Clone(items)
			obj := prev.Clone()
			obj.Metadata = mergeMetadata(obj.Metadata, partial)
			next[i] = obj
			resort := false
			if _, ok := partial[types.FieldOrder]; ok && ordered(s.objType) {
				SortByOrder(next)
				resort = true
			}
			return next, func(items []types.Object) []types.Object {
				j := indexOf(items, id)
				if j < 0 {
					return items
				}
				items = slices.Clone(items)
				items[j] = prev
				if resort {
					SortByOrder(items)
				}
				return items
			}
		},
		func(ctx context.Context) error { return s.store.UpdateOne(ctx, id, full) },
	)
}

// ToggleFeatured flips metadata.featured on the object with id using an
// optimistic update. An absent flag counts as false. The object must be in
// the loaded collection.
func (s *Synchronizer) ToggleFeatured(ctx context.Context, id string) error {
	cur, _ := s.Get(id)
	return s.UpdateOptimistic(ctx, id, map[string]any{types.FieldFeatured: !cur.Bool(types.FieldFeatured)})
}

// Delete removes the object at the store and then from the local
// snapshot. On failure the object stays and an OpError is returned.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if id == "" {
		return s.fail(OpDelete, types.ErrInvalidID)
	}
	if err := s.call(ctx, func(ctx context.Context) error {
		return s.store.DeleteOne(ctx, id)
	}); err != nil {
		return s.fail(OpDelete, err)
	}
	s.res.Mutate(func(items []types.Object) []types.Object {
		if i := indexOf(items, id); i >= 0 {
			return slices.Delete(slices.Clone(items), i, i+1)
		}
		return items
	})
	glog.V(1).Infof("[sync] deleted %s %s", s.objType, id)
	return nil
}

// DeleteOptimistic removes the object locally first. If the store refuses
// the delete, the object is put back at its former position.
func (s *Synchronizer) DeleteOptimistic(ctx context.Context, id string) error {
	if id == "" {
		return s.fail(OpDelete, types.ErrInvalidID)
	}
	return s.optimistic(ctx, OpDelete,
		func(items []types.Object) ([]types.Object, rollback) {
			i := indexOf(items, id)
			if i < 0 {
				return items, nil
			}
			prev := items[i].Clone()
			next := slices.Delete(slices.Clone(items), i, i+1)
			return next, func(items []types.Object) []types.Object {
				if indexOf(items, id) >= 0 {
					return items
				}
				at := min(i, len(items))
				return slices.Insert(slices.Clone(items), at, prev)
			}
		},
		func(ctx context.Context) error { return s.store.DeleteOne(ctx, id) },
	)
}

// Create inserts a new object whose title derives from its name field
// (or "New <Type>") and appends it to the local snapshot, re-sorting
// ordered collections.
func (s *Synchronizer) Create(ctx context.Context, metadata map[string]any) (types.Object, error) {
	req := types.InsertRequest{
		Type:     s.objType,
		Title:    types.TitleFor(s.objType, metadata),
		Metadata: mergeMetadata(nil, metadata),
	}
	var created types.Object
	if err := s.call(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.store.InsertOne(ctx, req)
		return err
	}); err != nil {
		return types.Object{}, s.fail(OpCreate, err)
	}
	s.res.Mutate(func(items []types.Object) []types.Object {
		next := append(slices.Clone(items), created.Clone())
		if ordered(s.objType) {
			SortByOrder(next)
		}
		return next
	})
	glog.V(1).Infof("[sync] created %s %s", s.objType, created.ID)
	return created, nil
}

// LoadSingleton fetches a single-record content type (profile, contact
// info) and returns its first object, or nil when none exists.
func LoadSingleton(ctx context.Context, store types.ObjectStore, objType string, opts Options) (*types.Object, error) {
	s := New(store, objType, opts)
	objs, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}
	return &objs[0], nil
}

func cloneAll(objs []types.Object) []types.Object {
	if objs == nil {
		return nil
	}
	out := make([]types.Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return out
}
