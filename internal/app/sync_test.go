package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"center_catalog/internal/app"
	"center_catalog/internal/domain"
)

// fakeClient counts network calls so the no-I/O preconditions are provable.
// Mutex-guarded because RefreshAll fans out.
type fakeClient struct {
	mu        sync.Mutex
	comments  map[string][]domain.Comment
	listErr   error
	created   domain.Comment
	createErr error

	calls     int
	lastToken string
}

func (f *fakeClient) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeClient) ListCenters(ctx context.Context) ([]domain.Center, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeClient) ListComments(ctx context.Context, centerID string) ([]domain.Comment, error) {
	f.mu.Lock()
	f.calls++
	err := f.listErr
	cs := f.comments[centerID]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (f *fakeClient) CreateComment(ctx context.Context, token, centerID, content string, mark int) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastToken = token
	if f.createErr != nil {
		return domain.Comment{}, f.createErr
	}
	c := f.created
	c.CenterID = centerID
	c.Content = content
	c.Mark = mark
	return c, nil
}

func (f *fakeClient) ObtainToken(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return "tok", nil
}

func (f *fakeClient) Register(ctx context.Context, username, password, email string) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil
}

// ---- tests ----

func TestSubmitComment_EmptyTokenNeverHitsNetwork(t *testing.T) {
	cl := &fakeClient{}
	svc := app.NewSyncService(cl, app.NewCommentStore(newFakeStore()))

	// Guest with a username but no token still counts as unauthenticated.
	guest := domain.Session{Username: "guest"}
	_, err := svc.SubmitComment(context.Background(), guest, "42", "nice", 5)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("err: %v", err)
	}
	if n := cl.networkCalls(); n != 0 {
		t.Fatalf("network call made: %d", n)
	}
}

func TestSubmitComment_InvalidMarkNeverHitsNetwork(t *testing.T) {
	cl := &fakeClient{}
	svc := app.NewSyncService(cl, app.NewCommentStore(newFakeStore()))
	sess := domain.Session{Token: "tok", Username: "maria"}

	for _, mark := range []int{0, 6, -1} {
		_, err := svc.SubmitComment(context.Background(), sess, "42", "nice", mark)
		if !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("mark %d: err %v", mark, err)
		}
	}
	if n := cl.networkCalls(); n != 0 {
		t.Fatalf("network call made: %d", n)
	}
}

func TestSubmitComment_SuccessAppendsServerComment(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())
	store.ReplaceForCenter(ctx, "42", []domain.Comment{
		{ID: "c1", User: "a", Mark: 4},
		{ID: "c2", User: "b", Mark: 2},
	})

	cl := &fakeClient{created: domain.Comment{ID: "c3", User: "maria"}}
	svc := app.NewSyncService(cl, store)

	created, err := svc.SubmitComment(ctx, domain.Session{Token: "tok", Username: "maria"}, "42", "great", 5)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if created.ID != "c3" || created.Mark != 5 {
		t.Fatalf("created: %+v", created)
	}
	if cl.lastToken != "tok" {
		t.Fatalf("token not forwarded: %q", cl.lastToken)
	}

	got := store.CommentsFor("42")
	if len(got) != 3 || got[2].ID != "c3" {
		t.Fatalf("store after submit: %v", got)
	}
}

func TestSubmitComment_UpstreamFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())
	store.ReplaceForCenter(ctx, "42", marks(4, 2))

	cl := &fakeClient{createErr: errors.New("boom")}
	svc := app.NewSyncService(cl, store)

	_, err := svc.SubmitComment(ctx, domain.Session{Token: "tok"}, "42", "great", 5)
	if !errors.Is(err, domain.ErrSubmissionFailed) {
		t.Fatalf("err: %v", err)
	}
	if got := store.CommentsFor("42"); len(got) != 2 {
		t.Fatalf("store mutated on failure: %v", got)
	}
}

func TestFetchComments_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())
	store.ReplaceForCenter(ctx, "42", marks(1, 1, 1))

	cl := &fakeClient{comments: map[string][]domain.Comment{
		"42": {{ID: "s1", User: "a", Mark: 4}, {ID: "s2", User: "b", Mark: 2}},
	}}
	svc := app.NewSyncService(cl, store)

	if err := svc.FetchComments(ctx, "42"); err != nil {
		t.Fatalf("err: %v", err)
	}
	got := store.CommentsFor("42")
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "s2" {
		t.Fatalf("store after fetch: %v", got)
	}
}

func TestFetchComments_FailureKeepsCachedList(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())
	store.ReplaceForCenter(ctx, "7", marks(3, 5))

	cl := &fakeClient{listErr: errors.New("network down")}
	svc := app.NewSyncService(cl, store)

	err := svc.FetchComments(ctx, "7")
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("err: %v", err)
	}
	if got := store.CommentsFor("7"); len(got) != 2 {
		t.Fatalf("cache lost on failed refresh: %v", got)
	}
}

func TestFetchComments_CanceledContextDiscardsResult(t *testing.T) {
	store := app.NewCommentStore(newFakeStore())
	cl := &fakeClient{comments: map[string][]domain.Comment{"42": {{ID: "s1", Mark: 4}}}}
	svc := app.NewSyncService(cl, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = svc.FetchComments(ctx, "42")
	if got := store.CommentsFor("42"); len(got) != 0 {
		t.Fatalf("canceled fetch still applied: %v", got)
	}
}

func TestRefreshAll_EachCenterAppliedIndependently(t *testing.T) {
	ctx := context.Background()
	store := app.NewCommentStore(newFakeStore())
	cl := &fakeClient{comments: map[string][]domain.Comment{
		"1": {{ID: "a", Mark: 5}},
		"2": {{ID: "b", Mark: 1}, {ID: "c", Mark: 2}},
	}}
	svc := app.NewSyncService(cl, store)

	centers := []domain.Center{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	svc.RefreshAll(ctx, centers, 2)

	if got := store.CommentsFor("1"); len(got) != 1 {
		t.Fatalf("center 1: %v", got)
	}
	if got := store.CommentsFor("2"); len(got) != 2 {
		t.Fatalf("center 2: %v", got)
	}
	// Center 3 has no upstream comments; server truth is the empty list.
	if got := store.CommentsFor("3"); len(got) != 0 {
		t.Fatalf("center 3: %v", got)
	}
}
