package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// MemoryStore holds users, tasks, tags and password resets in maps guarded
// by one mutex. Obtain the per-entity views with Users, Tasks, Tags and Resets.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
	tasks  map[int64]domain.Task
	tags   map[int64]domain.Tag
	resets map[int64]domain.PasswordReset
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[int64]domain.User),
		tasks:  make(map[int64]domain.Task),
		tags:   make(map[int64]domain.Tag),
		resets: make(map[int64]domain.PasswordReset),
	}
}

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// Users returns the store.UserStore view.
func (m *MemoryStore) Users() store.UserStore { return memoryUsers{m} }

// Tasks returns the store.TaskStore view.
func (m *MemoryStore) Tasks() store.TaskStore { return memoryTasks{m} }

// Tags returns the store.TagStore view.
func (m *MemoryStore) Tags() store.TagStore { return memoryTags{m} }

// Resets returns the store.PasswordResetStore view.
func (m *MemoryStore) Resets() store.PasswordResetStore { return memoryResets{m} }

// ResetsFor returns copies of userID's password resets, oldest first.
func (m *MemoryStore) ResetsFor(userID int64) []domain.PasswordReset {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PasswordReset
	for _, r := range m.resets {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ExpireResets moves every reset's expiry into the past.
func (m *MemoryStore) ExpireResets() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.resets {
		r.ExpiresAt = time.Unix(0, 0)
		m.resets[id] = r
	}
}

// Transactor returns a store.Transactor that restores the store's contents
// when the unit of work fails. Transactions are not isolated from each other.
func (m *MemoryStore) Transactor() store.Transactor { return memoryTransactor{m} }

type memoryTransactor struct{ m *MemoryStore }

func (t memoryTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	snap := t.m.snapshot()
	if err := fn(ctx, nil); err != nil {
		t.m.restore(snap)
		return err
	}
	return nil
}

func (m *MemoryStore) snapshot() *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &MemoryStore{
		nextID: m.nextID,
		users:  copyMap(m.users),
		tasks:  copyMap(m.tasks),
		tags:   copyMap(m.tags),
		resets: copyMap(m.resets),
	}
}

func (m *MemoryStore) restore(snap *MemoryStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = snap.nextID
	m.users, m.tasks, m.tags, m.resets = snap.users, snap.tasks, snap.tags, snap.resets
}

func copyMap[V any](src map[int64]V) map[int64]V {
	dst := make(map[int64]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memoryUsers struct{ m *MemoryStore }

func (s memoryUsers) WithTx(*sql.Tx) store.UserStore { return s }

func (s memoryUsers) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.ID = s.m.id()
	s.m.users[user.ID] = *user
	return nil
}

func (s memoryUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s memoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, u := range s.m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s memoryUsers) List(ctx context.Context) ([]domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	users := make([]domain.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s memoryUsers) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	s.m.users[id] = u
	return nil
}

func (s memoryUsers) Delete(ctx context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.m.users, id)
	for tid, t := range s.m.tasks {
		if t.UserID == id {
			delete(s.m.tasks, tid)
		}
	}
	for rid, r := range s.m.resets {
		if r.UserID == id {
			delete(s.m.resets, rid)
		}
	}
	return nil
}

type memoryTasks struct{ m *MemoryStore }

func (s memoryTasks) WithTx(*sql.Tx) store.TaskStore { return s }

// checkRefs must be called with the lock held.
func (s memoryTasks) checkRefs(task *domain.Task) error {
	if _, ok := s.m.users[task.UserID]; !ok {
		return store.ErrUserNotFound
	}
	if task.TagID != nil {
		if _, ok := s.m.tags[*task.TagID]; !ok {
			return store.ErrUnknownTag
		}
	}
	return nil
}

func (s memoryTasks) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if err := s.checkRefs(task); err != nil {
		return err
	}
	task.ID = s.m.id()
	s.m.tasks[task.ID] = *task
	return nil
}

func (s memoryTasks) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

func (s memoryTasks) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, int, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	q := strings.ToLower(f.Query)
	var matched []domain.Task
	for _, t := range s.m.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if q != "" {
			desc := ""
			if t.Description != nil {
				desc = *t.Description
			}
			if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(desc), q) {
				continue
			}
		}
		if f.IsCompleted != nil && t.IsCompleted != *f.IsCompleted {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if f.TagID != nil && (t.TagID == nil || *t.TagID != *f.TagID) {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	page := append([]domain.Task{}, matched[start:end]...)
	return page, total, nil
}

func (s memoryTasks) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	if err := s.checkRefs(task); err != nil {
		return err
	}
	s.m.tasks[task.ID] = *task
	return nil
}

func (s memoryTasks) Delete(ctx context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.m.tasks, id)
	return nil
}

type memoryTags struct{ m *MemoryStore }

func (s memoryTags) WithTx(*sql.Tx) store.TagStore { return s }

// nameTaken must be called with the lock held.
func (s memoryTags) nameTaken(name string, except int64) bool {
	for id, t := range s.m.tags {
		if id != except && t.Name == name {
			return true
		}
	}
	return false
}

func (s memoryTags) Create(ctx context.Context, tag *domain.Tag) error {
	if err := domain.ValidateTagName(tag.Name); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.nameTaken(tag.Name, 0) {
		return store.ErrTagNameExists
	}
	tag.ID = s.m.id()
	s.m.tags[tag.ID] = *tag
	return nil
}

func (s memoryTags) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.tags[id]
	if !ok {
		return nil, store.ErrTagNotFound
	}
	return &t, nil
}

func (s memoryTags) List(ctx context.Context) ([]domain.Tag, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	tags := make([]domain.Tag, 0, len(s.m.tags))
	for _, t := range s.m.tags {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Name != tags[j].Name {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].ID < tags[j].ID
	})
	return tags, nil
}

func (s memoryTags) Update(ctx context.Context, tag *domain.Tag) error {
	if err := domain.ValidateTagName(tag.Name); err != nil {
		return err
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tags[tag.ID]; !ok {
		return store.ErrTagNotFound
	}
	if s.nameTaken(tag.Name, tag.ID) {
		return store.ErrTagNameExists
	}
	s.m.tags[tag.ID] = *tag
	return nil
}

func (s memoryTags) Delete(ctx context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(s.m.tags, id)
	for tid, t := range s.m.tasks {
		if t.TagID != nil && *t.TagID == id {
			t.TagID = nil
			s.m.tasks[tid] = t
		}
	}
	return nil
}

type memoryResets struct{ m *MemoryStore }

func (s memoryResets) WithTx(*sql.Tx) store.PasswordResetStore { return s }

func (s memoryResets) Create(ctx context.Context, reset *domain.PasswordReset) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[reset.UserID]; !ok {
		return store.ErrUserNotFound
	}
	for _, r := range s.m.resets {
		if r.HashedToken == reset.HashedToken {
			return store.ErrDuplicate
		}
	}
	reset.ID = s.m.id()
	s.m.resets[reset.ID] = *reset
	return nil
}

func (s memoryResets) GetUsableByHash(ctx context.Context, hashedToken string, now time.Time) (*domain.PasswordReset, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, r := range s.m.resets {
		if r.HashedToken == hashedToken && r.IsUsable(now) {
			r := r
			return &r, nil
		}
	}
	return nil, store.ErrPasswordResetNotFound
}

func (s memoryResets) MarkUsed(ctx context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	r, ok := s.m.resets[id]
	if !ok || r.Used {
		return store.ErrPasswordResetNotFound
	}
	r.Used = true
	s.m.resets[id] = r
	return nil
}
