package lending

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendkeeper/internal/catalog"
	"lendkeeper/internal/ledger"
	"lendkeeper/internal/user"
)

// memStore is an in-memory Store with transactional rollback, used to check
// that the engine keeps availability and the ledger consistent end to end.
type memStore struct {
	mu      sync.Mutex
	books   map[string]catalog.Book
	borrows map[string]ledger.Borrow
	seq     int
}

func newMemStore() *memStore {
	return &memStore{
		books:   make(map[string]catalog.Book),
		borrows: make(map[string]ledger.Borrow),
	}
}

func (s *memStore) addBook(id string, available bool) {
	s.books[id] = catalog.Book{ID: id, Title: "Dune", Author: "Frank Herbert", Available: available}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booksBefore := make(map[string]catalog.Book, len(s.books))
	for k, v := range s.books {
		booksBefore[k] = v
	}
	borrowsBefore := make(map[string]ledger.Borrow, len(s.borrows))
	for k, v := range s.borrows {
		borrowsBefore[k] = v
	}

	if err := fn(s); err != nil {
		s.books = booksBefore
		s.borrows = borrowsBefore
		return err
	}
	return nil
}

func (s *memStore) BookForUpdate(ctx context.Context, bookID string) (catalog.Book, error) {
	b, ok := s.books[bookID]
	if !ok {
		return catalog.Book{}, catalog.ErrNotFound
	}
	return b, nil
}

func (s *memStore) HasActiveLoan(ctx context.Context, userID, bookID string) (bool, error) {
	for _, b := range s.borrows {
		if b.UserID == userID && b.BookID == bookID && !b.Returned {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) InsertBorrow(ctx context.Context, b *ledger.Borrow) error {
	for _, existing := range s.borrows {
		if existing.UserID == b.UserID && existing.BookID == b.BookID && !existing.Returned {
			return ErrLoanExists
		}
	}
	s.seq++
	b.ID = fmt.Sprintf("borrow-%d", s.seq)
	s.borrows[b.ID] = *b
	return nil
}

func (s *memStore) SetBookAvailable(ctx context.Context, bookID string, available bool) error {
	b, ok := s.books[bookID]
	if !ok {
		return catalog.ErrNotFound
	}
	b.Available = available
	s.books[bookID] = b
	return nil
}

func (s *memStore) BorrowForUpdate(ctx context.Context, borrowID string) (ledger.Borrow, error) {
	b, ok := s.borrows[borrowID]
	if !ok {
		return ledger.Borrow{}, ledger.ErrNotFound
	}
	return b, nil
}

func (s *memStore) MarkReturned(ctx context.Context, borrowID string, at time.Time) error {
	b, ok := s.borrows[borrowID]
	if !ok || b.Returned {
		return nil
	}
	b.Returned = true
	b.ReturnedAt = &at
	s.borrows[borrowID] = b
	return nil
}

// availabilityConsistent reports whether every book is available exactly when
// it has no active loan.
func (s *memStore) availabilityConsistent() bool {
	for id, book := range s.books {
		active := false
		for _, b := range s.borrows {
			if b.BookID == id && !b.Returned {
				active = true
				break
			}
		}
		if book.Available == active {
			return false
		}
	}
	return true
}

func TestLifecycle_BorrowReturnRoundTrip(t *testing.T) {
	store := newMemStore()
	store.addBook("book-1", true)
	svc := NewService(store).WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	borrow, err := svc.BorrowBook(ctx, "user-1", "book-1", time.Time{})
	require.NoError(t, err)
	assert.False(t, store.books["book-1"].Available)
	assert.True(t, store.availabilityConsistent())

	returned, err := svc.ReturnBook(ctx, "user-1", user.RoleMember, borrow.ID)
	require.NoError(t, err)
	assert.True(t, returned.Returned)
	assert.True(t, store.books["book-1"].Available)
	assert.True(t, store.availabilityConsistent())

	// The book can be borrowed again, by the same user or another.
	_, err = svc.BorrowBook(ctx, "user-1", "book-1", time.Time{})
	require.NoError(t, err)
	assert.True(t, store.availabilityConsistent())
}

func TestLifecycle_SecondBorrowerRejected(t *testing.T) {
	store := newMemStore()
	store.addBook("book-1", true)
	svc := NewService(store).WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	_, err := svc.BorrowBook(ctx, "user-1", "book-1", time.Time{})
	require.NoError(t, err)

	_, err = svc.BorrowBook(ctx, "user-2", "book-1", time.Time{})
	assert.ErrorIs(t, err, ErrBookUnavailable)
	assert.True(t, store.availabilityConsistent())
}

func TestLifecycle_FailedBorrowLeavesNoTrace(t *testing.T) {
	store := newMemStore()
	store.addBook("book-1", false)
	svc := NewService(store).WithClock(func() time.Time { return fixedNow })

	_, err := svc.BorrowBook(context.Background(), "user-1", "book-1", time.Time{})
	assert.ErrorIs(t, err, ErrBookUnavailable)
	assert.Empty(t, store.borrows)
}

func TestLifecycle_DoubleReturnKeepsFirstTimestamp(t *testing.T) {
	store := newMemStore()
	store.addBook("book-1", true)

	now := fixedNow
	svc := NewService(store).WithClock(func() time.Time { return now })
	ctx := context.Background()

	borrow, err := svc.BorrowBook(ctx, "user-1", "book-1", time.Time{})
	require.NoError(t, err)

	first, err := svc.ReturnBook(ctx, "user-1", user.RoleMember, borrow.ID)
	require.NoError(t, err)

	now = now.Add(24 * time.Hour)
	second, err := svc.ReturnBook(ctx, "user-1", user.RoleMember, borrow.ID)
	require.NoError(t, err)

	require.NotNil(t, second.ReturnedAt)
	assert.Equal(t, *first.ReturnedAt, *second.ReturnedAt)
}

func TestLifecycle_ConcurrentBorrowersOneWins(t *testing.T) {
	store := newMemStore()
	store.addBook("book-1", true)
	svc := NewService(store).WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	const users = 8
	errs := make(chan error, users)
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.BorrowBook(ctx, fmt.Sprintf("user-%d", n), "book-1", time.Time{})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrBookUnavailable)
		}
	}
	assert.Equal(t, 1, won)
	assert.True(t, store.availabilityConsistent())
}
