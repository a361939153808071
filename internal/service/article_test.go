package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/inkwell/inkwell/internal/model"
)

func newArticleService(store ArticleStore, misses MissCache) *ArticleService {
	return NewArticleService(store, misses, nil, nil)
}

func testIdentity() *model.Identity {
	return &model.Identity{
		UserID:    uuid.NewString(),
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func seedArticle(t *testing.T, store *fakeStore, identity *model.Identity, title string, state model.ArticleState) *model.Article {
	t.Helper()

	article := &model.Article{
		ID:          ulid.Make().String(),
		Title:       title,
		Description: "about " + title,
		Body:        "body of " + title,
		Author:      identity.FullName(),
		AuthorID:    identity.UserID,
		State:       state,
		ReadingTime: 1,
		Tags:        []string{"seeded"},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := store.CreateArticle(context.Background(), article); err != nil {
		t.Fatalf("seed article %q: %v", title, err)
	}
	return article
}

func TestCreateArticle(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()

	body := strings.Repeat("word ", 450)
	article, err := svc.Create(context.Background(), identity, CreateInput{
		Title:       "First Post",
		Description: "a greeting",
		Body:        body,
		Tags:        "intro, go , ",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if article.State != model.StateDraft {
		t.Errorf("state = %q, want new articles to start as drafts", article.State)
	}
	if article.ReadCount != 0 {
		t.Errorf("read count = %d, want 0", article.ReadCount)
	}
	if article.ReadingTime != 3 {
		t.Errorf("reading time = %d, want 3 for 450 words", article.ReadingTime)
	}
	if article.Author != "Ada Lovelace" {
		t.Errorf("author = %q, want full name", article.Author)
	}
	if article.AuthorID != identity.UserID {
		t.Errorf("author id = %q, want caller's id", article.AuthorID)
	}
	if len(article.Tags) != 2 || article.Tags[0] != "intro" || article.Tags[1] != "go" {
		t.Errorf("tags = %v, want trimmed non-empty entries", article.Tags)
	}
	if _, err := ulid.Parse(article.ID); err != nil {
		t.Errorf("id %q is not a ULID: %v", article.ID, err)
	}
}

func TestCreateArticleDuplicateTitle(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	author := testIdentity()
	seedArticle(t, store, author, "Taken", model.StateDraft)

	// Title uniqueness is global, not per author, and state-blind.
	other := testIdentity()
	_, err := svc.Create(context.Background(), other, CreateInput{
		Title:       "Taken",
		Description: "d",
		Body:        "b",
		Tags:        "t",
	})
	if !errors.Is(err, ErrTitleTaken) {
		t.Fatalf("Create() error = %v, want ErrTitleTaken", err)
	}
}

func TestListPublished(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()

	seedArticle(t, store, identity, "Visible One", model.StatePublished)
	seedArticle(t, store, identity, "Visible Two", model.StatePublished)
	seedArticle(t, store, identity, "Hidden Draft", model.StateDraft)

	articles, err := svc.ListPublished(context.Background(), ListInput{Page: 1})
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want the 2 published", len(articles))
	}
	for _, a := range articles {
		if !a.IsPublished() {
			t.Errorf("article %q is not published", a.Title)
		}
	}
}

func TestListPublishedEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()
	seedArticle(t, store, identity, "Draft Only", model.StateDraft)

	_, err := svc.ListPublished(context.Background(), ListInput{Page: 1})
	if !errors.Is(err, ErrNoPublished) {
		t.Fatalf("ListPublished() error = %v, want ErrNoPublished", err)
	}
}

func TestListPublishedSearch(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)

	ada := &model.Identity{UserID: uuid.NewString(), FirstName: "Ada", LastName: "Lovelace"}
	grace := &model.Identity{UserID: uuid.NewString(), FirstName: "Grace", LastName: "Hopper"}

	seedArticle(t, store, ada, "Analytical Engines", model.StatePublished)
	hit := seedArticle(t, store, grace, "Compilers", model.StatePublished)

	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"by author substring", "grace", hit.Title},
		{"by title substring", "compil", hit.Title},
		{"by tag", "seeded", ""}, // matches both
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			articles, err := svc.ListPublished(context.Background(), ListInput{Search: tt.search, Page: 1})
			if err != nil {
				t.Fatalf("ListPublished() error = %v", err)
			}
			if tt.want == "" {
				if len(articles) != 2 {
					t.Fatalf("got %d articles, want 2", len(articles))
				}
				return
			}
			if len(articles) != 1 || articles[0].Title != tt.want {
				t.Fatalf("got %d articles, want only %q", len(articles), tt.want)
			}
		})
	}
}

func TestListPublishedSortAndOrder(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()

	low := seedArticle(t, store, identity, "Low", model.StatePublished)
	high := seedArticle(t, store, identity, "High", model.StatePublished)
	store.articles[low.ID].ReadCount = 1
	store.articles[high.ID].ReadCount = 50

	articles, err := svc.ListPublished(context.Background(), ListInput{Sort: "read_count", Order: "desc", Page: 1})
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if articles[0].Title != "High" {
		t.Errorf("first article = %q, want the most-read one", articles[0].Title)
	}

	// Ascending is the default; "asc" is not a recognized keyword, only
	// "desc" flips the direction.
	articles, err = svc.ListPublished(context.Background(), ListInput{Sort: "read_count", Page: 1})
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if articles[0].Title != "Low" {
		t.Errorf("first article = %q, want the least-read one", articles[0].Title)
	}
}

func TestListPublishedTimestampSort(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()

	older := seedArticle(t, store, identity, "Older", model.StatePublished)
	newer := seedArticle(t, store, identity, "Newer", model.StatePublished)
	store.articles[older.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)
	store.articles[newer.ID].CreatedAt = time.Now().UTC()

	articles, err := svc.ListPublished(context.Background(), ListInput{Sort: "timestamp", Order: "desc", Page: 1})
	if err != nil {
		t.Fatalf("ListPublished() error = %v", err)
	}
	if articles[0].Title != "Newer" {
		t.Errorf("first article = %q, want newest first under timestamp desc", articles[0].Title)
	}
}

func TestListPublishedPagination(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()

	for i := 0; i < pageSize+5; i++ {
		seedArticle(t, store, identity, fmt.Sprintf("Article %02d", i), model.StatePublished)
	}

	first, err := svc.ListPublished(context.Background(), ListInput{Page: 1})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(first) != pageSize {
		t.Errorf("page 1 has %d articles, want %d", len(first), pageSize)
	}

	second, err := svc.ListPublished(context.Background(), ListInput{Page: 2})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second) != 5 {
		t.Errorf("page 2 has %d articles, want the 5 remaining", len(second))
	}

	// Page 0 and negatives clamp to the first page.
	clamped, err := svc.ListPublished(context.Background(), ListInput{Page: -3})
	if err != nil {
		t.Fatalf("clamped page: %v", err)
	}
	if len(clamped) != pageSize || clamped[0].ID != first[0].ID {
		t.Error("negative page did not clamp to page 1")
	}

	// A page past the end has no matches.
	if _, err := svc.ListPublished(context.Background(), ListInput{Page: 99}); !errors.Is(err, ErrNoPublished) {
		t.Errorf("far page error = %v, want ErrNoPublished", err)
	}
}

func TestGetPublished(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()
	article := seedArticle(t, store, identity, "Readable", model.StatePublished)

	got, err := svc.GetPublished(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("GetPublished() error = %v", err)
	}
	if got.ReadCount != 1 {
		t.Errorf("read count = %d, want 1 after first read", got.ReadCount)
	}

	got, err = svc.GetPublished(context.Background(), article.ID)
	if err != nil {
		t.Fatalf("second GetPublished() error = %v", err)
	}
	if got.ReadCount != 2 {
		t.Errorf("read count = %d, want one increment per read", got.ReadCount)
	}
}

func TestGetPublishedErrors(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()
	draft := seedArticle(t, store, identity, "Unfinished", model.StateDraft)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"malformed id", "not-a-ulid", ErrInvalidArticleID},
		{"absent id", ulid.Make().String(), ErrArticleNotFound},
		{"draft", draft.ID, ErrNotPublished},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.GetPublished(context.Background(), tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetPublished() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if store.articles[draft.ID].ReadCount != 0 {
		t.Error("draft read count changed on a rejected read")
	}
}

func TestGetPublishedNegativeCache(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	misses := newFakeMissCache()
	svc := newArticleService(store, misses)

	dead := ulid.Make().String()
	if _, err := svc.GetPublished(context.Background(), dead); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("GetPublished() error = %v, want ErrArticleNotFound", err)
	}
	if !misses.missing[dead] {
		t.Fatal("absent id not recorded in the negative cache")
	}

	// A cached miss answers without touching the store.
	identity := testIdentity()
	seedArticle(t, store, identity, "Decoy", model.StatePublished)
	if _, err := svc.GetPublished(context.Background(), dead); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("cached GetPublished() error = %v, want ErrArticleNotFound", err)
	}
}

func TestUpdateArticle(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()
	article := seedArticle(t, store, identity, "Original", model.StateDraft)

	newTitle := "Revised"
	newState := "published"
	updated, err := svc.Update(context.Background(), identity, article.ID, UpdateInput{
		Title: &newTitle,
		State: &newState,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Revised" {
		t.Errorf("title = %q, want updated value", updated.Title)
	}
	if updated.State != model.StatePublished {
		t.Errorf("state = %q, want published", updated.State)
	}
	if updated.Description != article.Description {
		t.Errorf("description changed on a partial update: %q", updated.Description)
	}
}

func TestUpdateArticleKeepsReadingTime(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()
	article := seedArticle(t, store, identity, "Growing", model.StateDraft)

	// Reading time is set at creation; a body edit alone never moves it.
	body := strings.Repeat("word ", 401)
	updated, err := svc.Update(context.Background(), identity, article.ID, UpdateInput{Body: &body})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ReadingTime != article.ReadingTime {
		t.Errorf("reading time = %d, want %d unchanged by a body-only update", updated.ReadingTime, article.ReadingTime)
	}

	// Sending it explicitly is the only way to change it.
	readingTime := 7
	updated, err = svc.Update(context.Background(), identity, article.ID, UpdateInput{ReadingTime: &readingTime})
	if err != nil {
		t.Fatalf("explicit Update() error = %v", err)
	}
	if updated.ReadingTime != 7 {
		t.Errorf("reading time = %d, want the explicitly sent 7", updated.ReadingTime)
	}
}

func TestUpdateArticleTrimsState(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	identity := testIdentity()
	article := seedArticle(t, store, identity, "Padded", model.StateDraft)

	// The validator trims before the enum check, so the padded form is
	// accepted input; the stored value must be the canonical one.
	state := "  published  "
	updated, err := svc.Update(context.Background(), identity, article.ID, UpdateInput{State: &state})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.State != model.StatePublished {
		t.Errorf("state = %q, want the trimmed published", updated.State)
	}
	if !updated.State.IsValid() {
		t.Errorf("stored state %q fails validity", updated.State)
	}
}

func TestUpdateArticleErrors(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	owner := testIdentity()
	stranger := testIdentity()
	article := seedArticle(t, store, owner, "Guarded", model.StateDraft)
	seedArticle(t, store, owner, "Occupied", model.StatePublished)

	title := "Occupied"
	tests := []struct {
		name     string
		identity *model.Identity
		id       string
		input    UpdateInput
		wantErr  error
	}{
		{"empty update", owner, article.ID, UpdateInput{}, ErrEmptyUpdate},
		{"malformed id", owner, "nope", UpdateInput{Title: &title}, ErrInvalidArticleID},
		{"absent id", owner, ulid.Make().String(), UpdateInput{Title: &title}, ErrArticleNotFound},
		{"not owner", stranger, article.ID, UpdateInput{Title: &title}, ErrNotOwner},
		{"title collision", owner, article.ID, UpdateInput{Title: &title}, ErrTitleTaken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Update(context.Background(), tt.identity, tt.id, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteArticle(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	misses := newFakeMissCache()
	svc := newArticleService(store, misses)
	owner := testIdentity()
	stranger := testIdentity()
	article := seedArticle(t, store, owner, "Doomed", model.StatePublished)

	if err := svc.Delete(context.Background(), stranger, article.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("stranger Delete() error = %v, want ErrNotOwner", err)
	}
	if err := svc.Delete(context.Background(), owner, "bad-id"); !errors.Is(err, ErrInvalidArticleID) {
		t.Fatalf("malformed Delete() error = %v, want ErrInvalidArticleID", err)
	}
	if err := svc.Delete(context.Background(), owner, ulid.Make().String()); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("absent Delete() error = %v, want ErrArticleNotFound", err)
	}

	if err := svc.Delete(context.Background(), owner, article.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.articles[article.ID]; ok {
		t.Error("article still present after delete")
	}
	if !misses.missing[article.ID] {
		t.Error("deleted id not recorded in the negative cache")
	}
}

func TestListByAuthor(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newArticleService(store, nil)
	author := testIdentity()
	other := testIdentity()

	seedArticle(t, store, author, "Author Draft", model.StateDraft)
	seedArticle(t, store, author, "Author Published", model.StatePublished)
	seedArticle(t, store, other, "Someone Else", model.StatePublished)

	// Drafts are listed alongside published work for any caller.
	articles, err := svc.ListByAuthor(context.Background(), author.UserID, "", 1)
	if err != nil {
		t.Fatalf("ListByAuthor() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want both of the author's", len(articles))
	}
	for _, a := range articles {
		if a.AuthorID != author.UserID {
			t.Errorf("article %q belongs to %q", a.Title, a.AuthorID)
		}
	}

	// Optional state filter.
	drafts, err := svc.ListByAuthor(context.Background(), author.UserID, "draft", 1)
	if err != nil {
		t.Fatalf("ListByAuthor(draft) error = %v", err)
	}
	if len(drafts) != 1 || drafts[0].State != model.StateDraft {
		t.Errorf("draft filter returned %d articles", len(drafts))
	}

	// An unrecognized state is ignored rather than rejected.
	all, err := svc.ListByAuthor(context.Background(), author.UserID, "archived", 1)
	if err != nil {
		t.Fatalf("ListByAuthor(archived) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unknown state filter returned %d articles, want 2", len(all))
	}

	// A malformed author id is reported, an unknown-but-valid one is an
	// empty listing.
	if _, err := svc.ListByAuthor(context.Background(), "not-a-uuid", "", 1); !errors.Is(err, ErrUnknownAuthor) {
		t.Errorf("malformed author error = %v, want ErrUnknownAuthor", err)
	}
	empty, err := svc.ListByAuthor(context.Background(), uuid.NewString(), "", 1)
	if err != nil {
		t.Fatalf("unknown author error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown author returned %d articles, want none", len(empty))
	}
}
