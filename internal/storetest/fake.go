// Package storetest provides an in-memory types.ObjectStore for tests,
// with per-operation failure injection and a call log.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// ErrInjected is the default cause used by Fail.
var ErrInjected = errors.New("injected failure")

// Call records one store invocation.
type Call struct {
	Op       string
	Type     string
	ID       string
	Props    []string
	Depth    int
	Metadata map[string]any
}

// Store is a goroutine-safe fake ObjectStore. Objects keep insertion order
// within a type, like the remote bucket does. Like the real stores, Find
// on a type with no objects fails with NotFound.
type Store struct {
	mu      sync.Mutex
	objects []types.Object
	calls   []Call
	fail    map[string]error
	nextID  int

	// Hook, when set, runs before each operation is applied. It may block,
	// which lets tests hold a call in flight.
	Hook func(op, id string)
}

// New returns a Store holding objs.
func New(objs ...types.Object) *Store {
	s := &Store{fail: map[string]error{}}
	for _, o := range objs {
		s.objects = append(s.objects, o.Clone())
	}
	return s
}

// Fail makes every later call of op ("find", "insert", "update",
// "delete") fail with err, or ErrInjected tagged Other when err is nil.
// A key of "find:<type>" restricts a find failure to one type.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = types.Other(ErrInjected)
	}
	s.fail[op] = err
}

// Heal clears every injected failure.
func (s *Store) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = map[string]error{}
}

// Calls returns a copy of the call log.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallsOf returns the logged calls of one operation.
func (s *Store) CallsOf(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Object returns the stored object with id.
func (s *Store) Object(id string) (types.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.objects {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return types.Object{}, false
}

// Len returns the number of stored objects of objType.
func (s *Store) Len(objType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.objects {
		if o.Type == objType {
			n++
		}
	}
	return n
}

func (s *Store) before(op, id string) {
	if s.Hook != nil {
		s.Hook(op, id)
	}
}

func (s *Store) failure(keys ...string) error {
	for _, k := range keys {
		if err, ok := s.fail[k]; ok {
			return err
		}
	}
	return nil
}

// Find implements types.ObjectStore. Props are recorded but not applied.
func (s *Store) Find(ctx context.Context, q types.FindQuery) ([]types.Object, error) {
	s.before("find", q.Type)
	if err := ctx.Err(); err != nil {
		return nil, types.Other(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "find", Type: q.Type, Props: q.Props, Depth: q.Depth})
	if err := s.failure("find:"+q.Type, "find"); err != nil {
		return nil, err
	}
	var out []types.Object
	for _, o := range s.objects {
		if o.Type == q.Type {
			out = append(out, o.Clone())
		}
	}
	if len(out) == 0 {
		return nil, types.NotFound(fmt.Errorf("no objects of type %q", q.Type))
	}
	return out, nil
}

// InsertOne implements types.ObjectStore.
func (s *Store) InsertOne(ctx context.Context, req types.InsertRequest) (types.Object, error) {
	s.before("insert", "")
	if err := ctx.Err(); err != nil {
		return types.Object{}, types.Other(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "insert", Type: req.Type, Metadata: req.Metadata})
	if err := s.failure("insert"); err != nil {
		return types.Object{}, err
	}
	s.nextID++
	obj := types.Object{
		ID:       fmt.Sprintf("obj-%d", s.nextID),
		Slug:     strings.ToLower(strings.ReplaceAll(req.Title, " ", "-")),
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		Metadata: req.Metadata,
	}
	if req.Slug != "" {
		obj.Slug = req.Slug
	}
	obj = obj.Clone()
	s.objects = append(s.objects, obj)
	return obj.Clone(), nil
}

// UpdateOne implements types.ObjectStore, replacing the whole metadata.
func (s *Store) UpdateOne(ctx context.Context, id string, metadata map[string]any) error {
	s.before("update", id)
	if err := ctx.Err(); err != nil {
		return types.Other(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "update", ID: id, Metadata: metadata})
	if err := s.failure("update"); err != nil {
		return err
	}
	for i := range s.objects {
		if s.objects[i].ID == id {
			s.objects[i].Metadata = types.Object{Metadata: metadata}.Clone().Metadata
			return nil
		}
	}
	return types.NotFound(fmt.Errorf("object %s", id))
}

// DeleteOne implements types.ObjectStore.
func (s *Store) DeleteOne(ctx context.Context, id string) error {
	s.before("delete", id)
	if err := ctx.Err(); err != nil {
		return types.Other(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "delete", ID: id})
	if err := s.failure("delete"); err != nil {
		return err
	}
	for i := range s.objects {
		if s.objects[i].ID == id {
			s.objects = slices.Delete(s.objects, i, i+1)
			return nil
		}
	}
	return types.NotFound(fmt.Errorf("object %s", id))
}

// Project builds a projects object for tests.
func Project(id, name string, meta map[string]any) types.Object {
	m := map[string]any{"project_name": name}
	for k, v := range meta {
		m[k] = v
	}
	return types.Object{ID: id, Title: name, Slug: id, Type: types.TypeProjects, Metadata: m}
}

// Obj builds an object of any type for tests.
func Obj(objType, id string, meta map[string]any) types.Object {
	return types.Object{ID: id, Title: id, Slug: id, Type: objType, Metadata: meta}
}
