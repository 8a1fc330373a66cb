package session

import (
	"errors"
	"sync"

	"github.com/vkosarev/food_delivery/internal/cart"
	"github.com/vkosarev/food_delivery/internal/order"
)

// Session owns the cart ledger and order book of one user. It is handed
// out by the Store and mutated only through the cart/order operation
// contracts, never by direct field writes from handlers.
type Session struct {
	UserID string
	Cart   *cart.Ledger
	Orders *order.Book
}

// Store maps user ids to their sessions, creating them on demand.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	loadBook func(userID string) (*order.Book, error)
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// WithBookLoader sets the loader used to rehydrate a user's order
// history the first time their session is created. A loader failure
// falls back to an empty book; the archive is best-effort.
func (s *Store) WithBookLoader(load func(userID string) (*order.Book, error)) *Store {
	s.loadBook = load
	return s
}

func (s *Store) Session(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}

	book := order.NewBook()
	if s.loadBook != nil {
		if loaded, err := s.loadBook(userID); err == nil {
			book = loaded
		}
	}

	sess := &Session{
		UserID: userID,
		Cart:   cart.NewLedger(),
		Orders: book,
	}
	s.sessions[userID] = sess
	return sess
}

// Attach installs a rehydrated order book for a user, used when loading
// history from the archive at session start. Any existing book is
// replaced, so call it before the session serves requests.
func (s *Store) Attach(userID string, book *order.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.Orders = book
		return
	}
	s.sessions[userID] = &Session{
		UserID: userID,
		Cart:   cart.NewLedger(),
		Orders: book,
	}
}

// ApplyStatusTransition routes a delivery feed event to whichever
// session owns the order. The feed only carries order ids.
func (s *Store) ApplyStatusTransition(t order.Transition) (order.Order, error) {
	s.mu.Lock()
	books := make([]*order.Book, 0, len(s.sessions))
	for _, sess := range s.sessions {
		books = append(books, sess.Orders)
	}
	s.mu.Unlock()

	for _, b := range books {
		o, err := b.ApplyStatusTransition(t)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, order.ErrNotFound) {
			return order.Order{}, err
		}
	}
	return order.Order{}, order.ErrNotFound
}
