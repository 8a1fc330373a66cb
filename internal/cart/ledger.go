package cart

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidItem = errors.New("invalid item")

// Candidate is a menu item a user wants to add. Quantity is implicit:
// every add is +1.
type Candidate struct {
	ItemID    uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
}

type Line struct {
	ItemID    uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Snapshot is a deep copy of the ledger contents taken under the ledger
// lock, safe to hand off to order submission.
type Snapshot struct {
	Lines []Line  `json:"items"`
	Total float64 `json:"total"`
}

// Ledger holds the cart lines of one session and their running total.
// The total is adjusted by deltas on every mutation, never resummed,
// and every mutation updates lines and total under one lock so a reader
// can never observe them out of sync.
type Ledger struct {
	mu    sync.Mutex
	lines []Line
	index map[uint]int
	total float64
}

func NewLedger() *Ledger {
	return &Ledger{index: make(map[uint]int)}
}

// AddItem inserts a new line with quantity 1, or increments the quantity
// of the existing line for the same item. Either way the total grows by
// exactly one unit price.
func (l *Ledger) AddItem(c Candidate) (Line, error) {
	if c.UnitPrice < 0 {
		return Line{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i, ok := l.index[c.ItemID]; ok {
		l.lines[i].Quantity++
		l.total += c.UnitPrice
		return l.lines[i], nil
	}

	line := Line{ItemID: c.ItemID, Name: c.Name, UnitPrice: c.UnitPrice, Quantity: 1}
	l.index[c.ItemID] = len(l.lines)
	l.lines = append(l.lines, line)
	l.total += c.UnitPrice
	return line, nil
}

// RemoveItem deletes the whole line, not one unit. Removing an absent
// item is a no-op: the UI may race a double click with an already
// applied removal.
func (l *Ledger) RemoveItem(itemID uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remove(itemID)
}

func (l *Ledger) remove(itemID uint) {
	i, ok := l.index[itemID]
	if !ok {
		return
	}

	l.total -= l.lines[i].UnitPrice * float64(l.lines[i].Quantity)
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	delete(l.index, itemID)
	for j := i; j < len(l.lines); j++ {
		l.index[l.lines[j].ItemID] = j
	}
}

// UpdateQuantity sets the line to the requested quantity, adjusting the
// total by unitPrice*(new-old). A quantity <= 0 removes the line; an
// absent item is a no-op.
func (l *Ledger) UpdateQuantity(itemID uint, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[itemID]
	if !ok {
		return
	}
	if quantity <= 0 {
		l.remove(itemID)
		return
	}

	delta := quantity - l.lines[i].Quantity
	l.lines[i].Quantity = quantity
	l.total += l.lines[i].UnitPrice * float64(delta)
}

func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
	l.index = make(map[uint]int)
	l.total = 0
}

func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := make([]Line, len(l.lines))
	copy(lines, l.lines)
	return Snapshot{Lines: lines, Total: l.total}
}
