package factory

import (
	"sync"
	"time"
)

// Store owns the order record, the stock map and the NFC log.
// A single mutex guards all three.
type Store struct {
	mu       sync.Mutex
	order    OrderState
	stock    StockMap
	nfc      []NfcLogEntry
	nfcLimit int
	now      func() time.Time
	last     time.Time
}

type StoreOption func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNfcLogLimit keeps only the newest n NFC entries. n <= 0 means unbounded.
func WithNfcLogLimit(n int) StoreOption {
	return func(s *Store) { s.nfcLimit = n }
}

// NewStore returns a store with an empty order, all slots empty and no NFC entries.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		stock: make(StockMap, len(Locations)),
		now:   time.Now,
	}
	for _, l := range Locations {
		s.stock[l] = nil
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Order returns a copy of the current order.
func (s *Store) Order() OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// Stock returns a copy of the stock map.
func (s *Store) Stock() StockMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock.clone()
}

// NfcLog returns a copy of the NFC log, oldest first.
func (s *Store) NfcLog() []NfcLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]NfcLogEntry(nil), s.nfc...)
}

func (s *Store) NfcLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nfc)
}

// UpdateOrder overwrites the order and stamps it.
func (s *Store) UpdateOrder(c Color, status any) OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.stampLocked()
	s.order = OrderState{Color: &c, Status: status, Timestamp: &ts}
	return s.order
}

// SetStock stores piece at l and returns the whole map.
func (s *Store) SetStock(l Location, piece any) StockMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[l] = piece
	return s.stock.clone()
}

// AppendNfc logs an NFC event.
func (s *Store) AppendNfc(pieceID, state any) NfcLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := NfcLogEntry{Timestamp: s.stampLocked(), PieceID: pieceID, State: state}
	s.nfc = append(s.nfc, e)
	if s.nfcLimit > 0 && len(s.nfc) > s.nfcLimit {
		drop := len(s.nfc) - s.nfcLimit
		s.nfc = append(s.nfc[:0:0], s.nfc[drop:]...)
	}
	return e
}

// stamps never go backwards, even if the wall clock does
func (s *Store) stampLocked() Timestamp {
	t := s.now().UTC()
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return NewTimestamp(t)
}
