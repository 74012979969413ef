package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"center_catalog/internal/app"
	"center_catalog/internal/domain"
)

// ---- fakes ----

// fakeStore keeps blobs in memory and counts writes so tests can assert
// that mutations persist synchronously.
type fakeStore struct {
	data    map[string][]byte
	sets    int
	getErr  error
	setErr  error
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (f *fakeStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeStore) Set(ctx context.Context, key string, v any) error {
	if f.setErr != nil {
		return f.setErr
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = b
	f.sets++
	return nil
}

func (f *fakeStore) Del(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeStore) persistedIndex(t *testing.T) domain.CommentIndex {
	t.Helper()
	b, ok := f.data[domain.StateKeyComments]
	if !ok {
		t.Fatalf("comment index was never persisted")
	}
	var idx domain.CommentIndex
	if err := json.Unmarshal(b, &idx); err != nil {
		t.Fatalf("persisted index unreadable: %v", err)
	}
	return idx
}

// ---- tests ----

func TestCommentStore_ReplaceThenAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	store := app.NewCommentStore(fs)

	list := []domain.Comment{
		{ID: "c1", User: "a", Mark: 4},
		{ID: "c2", User: "b", Mark: 2},
	}
	store.ReplaceForCenter(ctx, "42", list)
	store.AppendForCenter(ctx, "42", domain.Comment{ID: "c3", User: "c", Mark: 5})

	got := store.CommentsFor("42")
	if len(got) != 3 {
		t.Fatalf("len: %d", len(got))
	}
	for i, want := range []string{"c1", "c2", "c3"} {
		if got[i].ID != want {
			t.Fatalf("order: got %v", got)
		}
		if got[i].CenterID != "42" {
			t.Fatalf("center id not stamped: %+v", got[i])
		}
	}
}

func TestCommentStore_PersistsOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	store := app.NewCommentStore(fs)

	store.ReplaceForCenter(ctx, "42", marks(4))
	if fs.sets != 1 {
		t.Fatalf("replace did not persist synchronously, sets=%d", fs.sets)
	}
	idx := fs.persistedIndex(t)
	if len(idx["42"]) != 1 {
		t.Fatalf("persisted index: %+v", idx)
	}

	store.AppendForCenter(ctx, "42", domain.Comment{Mark: 5})
	if fs.sets != 2 {
		t.Fatalf("append did not persist, sets=%d", fs.sets)
	}
	if idx := fs.persistedIndex(t); len(idx["42"]) != 2 {
		t.Fatalf("persisted index after append: %+v", idx)
	}
}

func TestCommentStore_ClearEmptiesEveryCenter(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	store := app.NewCommentStore(fs)

	store.ReplaceForCenter(ctx, "42", marks(4, 2))
	store.ReplaceForCenter(ctx, "7", marks(1))
	store.Clear(ctx)

	if got := store.CommentsFor("42"); len(got) != 0 {
		t.Fatalf("center 42 not cleared: %v", got)
	}
	if got := store.CommentsFor("7"); len(got) != 0 {
		t.Fatalf("center 7 not cleared: %v", got)
	}
	if idx := fs.persistedIndex(t); len(idx) != 0 {
		t.Fatalf("persisted index not cleared: %+v", idx)
	}
}

func TestCommentStore_LoadRestoresPersistedIndex(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()

	first := app.NewCommentStore(fs)
	first.ReplaceForCenter(ctx, "42", marks(4, 2))

	second := app.NewCommentStore(fs)
	second.Load(ctx)
	if got := second.CommentsFor("42"); len(got) != 2 {
		t.Fatalf("restored list: %v", got)
	}
}

func TestCommentStore_LoadFailsOpenOnCorruptState(t *testing.T) {
	fs := newFakeStore()
	fs.getErr = errors.New("state unreadable")

	store := app.NewCommentStore(fs)
	store.Load(context.Background()) // must not panic or propagate

	if got := store.CommentsFor("42"); len(got) != 0 {
		t.Fatalf("expected empty index, got %v", got)
	}
}

func TestCommentStore_PersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	fs.setErr = errors.New("disk full")

	store := app.NewCommentStore(fs)
	store.ReplaceForCenter(ctx, "42", marks(4, 2))

	// The write failed, but the in-memory index still serves this session.
	if got := store.CommentsFor("42"); len(got) != 2 {
		t.Fatalf("memory lost on persist failure: %v", got)
	}
	if fs.sets != 0 {
		t.Fatalf("sets: %d", fs.sets)
	}
}

func TestCommentStore_IndexIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())
	store.ReplaceForCenter(ctx, "42", marks(4, 2))

	idx := store.Index()
	idx["42"][0].Mark = 1
	idx["7"] = marks(5)

	if got := store.CommentsFor("42"); got[0].Mark != 4 {
		t.Fatalf("snapshot mutation leaked: %v", got)
	}
	if got := store.CommentsFor("7"); len(got) != 0 {
		t.Fatalf("snapshot mutation leaked new center: %v", got)
	}
}

func TestCommentStore_ChangeNotifications(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())

	var events []string
	store.OnChange(func(centerID string) { events = append(events, centerID) })

	store.ReplaceForCenter(ctx, "42", marks(4))
	store.AppendForCenter(ctx, "42", domain.Comment{Mark: 5})
	store.Clear(ctx)

	want := []string{"42", "42", ""}
	if len(events) != len(want) {
		t.Fatalf("events: %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events: got %v want %v", events, want)
		}
	}
}
