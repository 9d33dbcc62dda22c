// Package mailbox keeps one ordered in-memory queue of messages per account.
//
// Messages are appended in arrival order and leave the store only through
// DrainAll or DrainUpTo, which take a prefix of the queue in one critical
// section.
package mailbox

import (
	"sync"

	"github.com/dmitrijs2005/gophmail/internal/common"
)

// Store owns every mailbox. The zero value is not usable; call NewStore.
type Store struct {
	mu    sync.Mutex
	boxes map[string][]Message
}

func NewStore() *Store {
	return &Store{boxes: make(map[string][]Message)}
}

// Create makes an empty mailbox for accountID. An existing mailbox is left
// untouched.
func (s *Store) Create(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boxes[accountID]; !ok {
		s.boxes[accountID] = nil
	}
}

// Exists reports whether accountID has a mailbox.
func (s *Store) Exists(accountID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.boxes[accountID]
	return ok
}

// Deliver appends m to the recipient's queue. It fails with
// common.ErrUnknownRecipient when the recipient has no mailbox.
func (s *Store) Deliver(recipientID string, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, ok := s.boxes[recipientID]
	if !ok {
		return common.ErrUnknownRecipient
	}
	s.boxes[recipientID] = append(queue, m)
	return nil
}

// DrainAll returns every queued message for accountID, oldest first, and
// empties the queue. An unknown account yields an empty slice.
func (s *Store) DrainAll(accountID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, ok := s.boxes[accountID]
	if !ok || len(queue) == 0 {
		return []Message{}
	}
	s.boxes[accountID] = nil
	return queue
}

// DrainUpTo takes messages for accountID from the head of the queue while
// their total size, as measured by size, stays within budget. The head
// message is always taken, so a message larger than budget cannot block the
// queue. The rest stays queued, in order; remaining is its length.
func (s *Store) DrainUpTo(accountID string, budget int, size func(Message) int) (taken []Message, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.boxes[accountID]
	if len(queue) == 0 {
		return []Message{}, 0
	}

	n, used := 0, 0
	for n < len(queue) {
		sz := size(queue[n])
		if n > 0 && used+sz > budget {
			break
		}
		used += sz
		n++
	}

	taken = make([]Message, n)
	copy(taken, queue[:n])

	rest := queue[n:]
	if len(rest) == 0 {
		s.boxes[accountID] = nil
	} else {
		s.boxes[accountID] = append([]Message(nil), rest...)
	}
	return taken, len(rest)
}
