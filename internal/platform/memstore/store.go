// Package memstore is an in-memory implementation of every Player
// repository plus the AggregateStore behind common.MemoryUnitOfWork.
// It backs the test suites and the dev-mode server when MongoDB is not
// configured. Unique constraints mirror the MongoDB indexes.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.player.tech/internal/common/repository"
	"go.player.tech/internal/platform/application"
	"go.player.tech/internal/platform/common"
	"go.player.tech/internal/platform/membership"
	"go.player.tech/internal/platform/permission"
	"go.player.tech/internal/platform/role"
	"go.player.tech/internal/platform/team"
	"go.player.tech/internal/platform/teampermission"
	"go.player.tech/internal/platform/teamrole"
	"go.player.tech/internal/platform/user"
)

type entry struct {
	aggregate common.AggregateRoot
	seq       uint64
}

// Store holds aggregates by collection and id.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]entry
	seq         uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]entry)}
}

var _ common.AggregateStore = (*Store)(nil)

// Apply upserts saved and removes deleted atomically. A unique key clash
// fails the whole write with repository.ErrDuplicateKey.
func (s *Store) Apply(ctx context.Context, saved, deleted []common.AggregateRoot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(saved, deleted); err != nil {
		return err
	}

	for _, a := range deleted {
		delete(s.collections[a.CollectionName()], a.AggregateID())
	}
	for _, a := range saved {
		coll := s.collections[a.CollectionName()]
		if coll == nil {
			coll = make(map[string]entry)
			s.collections[a.CollectionName()] = coll
		}
		seq := coll[a.AggregateID()].seq
		if seq == 0 {
			s.seq++
			seq = s.seq
		}
		coll[a.AggregateID()] = entry{aggregate: shallowCopy(a), seq: seq}
	}
	return nil
}

// Put stores aggregates directly, bypassing events. Intended for fixtures.
func (s *Store) Put(aggregates ...common.AggregateRoot) error {
	return s.Apply(context.Background(), aggregates, nil)
}

// MustPut is Put that panics on error.
func (s *Store) MustPut(aggregates ...common.AggregateRoot) {
	if err := s.Put(aggregates...); err != nil {
		panic(err)
	}
}

// Count returns the number of aggregates in a collection.
func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *Store) checkUnique(saved, deleted []common.AggregateRoot) error {
	removed := make(map[string]bool, len(deleted))
	for _, a := range deleted {
		removed[a.CollectionName()+"/"+a.AggregateID()] = true
	}

	claimed := make(map[string]string)
	for _, a := range saved {
		key, ok := uniqueKey(a)
		if !ok {
			continue
		}
		scoped := a.CollectionName() + "/" + key
		if other, taken := claimed[scoped]; taken && other != a.AggregateID() {
			return duplicate(a, key)
		}
		claimed[scoped] = a.AggregateID()

		for id, e := range s.collections[a.CollectionName()] {
			if id == a.AggregateID() || removed[a.CollectionName()+"/"+id] {
				continue
			}
			if existing, _ := uniqueKey(e.aggregate); existing == key {
				return duplicate(a, key)
			}
		}
	}
	return nil
}

func duplicate(a common.AggregateRoot, key string) error {
	return errors.Join(repository.ErrDuplicateKey, fmt.Errorf("%s: key %q already exists", a.CollectionName(), key))
}

// uniqueKey mirrors the unique indexes created by the MongoDB initializer.
func uniqueKey(a common.AggregateRoot) (string, bool) {
	switch v := a.(type) {
	case *permission.Permission:
		return v.Name, true
	case *teampermission.TeamPermission:
		return v.Name, true
	case *role.Role:
		return v.Name, true
	case *teamrole.TeamRole:
		return v.Name, true
	case *role.RolePermission:
		return v.RoleID + "|" + v.PermissionID, true
	case *teamrole.TeamRolePermission:
		return v.TeamRoleID + "|" + v.PermissionID, true
	case *team.PermissionAssignment:
		return v.TeamID + "|" + v.PermissionID, true
	case *user.PermissionAssignment:
		return v.UserID + "|" + v.PermissionID, true
	case *membership.ViewMembership:
		return v.ViewID + "|" + v.UserID, true
	case *membership.TeamMembership:
		return v.TeamID + "|" + v.UserID, true
	case *application.Instance:
		return v.TeamID + "|" + v.ApplicationID, true
	default:
		return "", false
	}
}

// shallowCopy detaches a stored aggregate from the caller's pointer.
// Aggregates are flat structs so a shallow copy is a full copy.
func shallowCopy(a common.AggregateRoot) common.AggregateRoot {
	v := reflect.ValueOf(a)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return a
	}
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	return c.Interface().(common.AggregateRoot)
}

// list returns copies of the aggregates of type *T in collection matching
// match, in insertion order.
func list[T any](s *Store, collection string, match func(*T) bool) []*T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]entry, 0, len(s.collections[collection]))
	for _, e := range s.collections[collection] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	var out []*T
	for _, e := range entries {
		v, ok := e.aggregate.(any).(*T)
		if !ok || (match != nil && !match(v)) {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	return out
}

// first returns the first match or repository.ErrNotFound.
func first[T any](s *Store, collection string, match func(*T) bool) (*T, error) {
	found := list(s, collection, match)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

// byID looks up one aggregate by id.
func byID[T any](s *Store, collection, id string) (*T, error) {
	s.mu.RLock()
	e, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	v, ok := e.aggregate.(any).(*T)
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *v
	return &c, nil
}
