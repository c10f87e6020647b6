package connection

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

type Subscriber func(prev, next *types.Snapshot)

// Store owns the current snapshot. Dispatches are serialised and subscribers
// observe transitions in dispatch order. A subscriber must not dispatch
// synchronously.
type Store struct {
	dispatchLk sync.Mutex

	lk    sync.RWMutex
	state *types.Snapshot

	subLk       sync.Mutex
	subscribers map[uuid.UUID]Subscriber
	order       []uuid.UUID
}

func NewStore(initial *types.Snapshot) *Store {
	return &Store{
		state:       initial,
		subscribers: make(map[uuid.UUID]Subscriber),
	}
}

func (s *Store) Snapshot() *types.Snapshot {
	s.lk.RLock()
	defer s.lk.RUnlock()
	return s.state
}

// Dispatch reduces action into a new snapshot and reports whether it changed
// anything.
func (s *Store) Dispatch(action Action) (*types.Snapshot, bool) {
	_, next, changed := s.Update(func(*types.Snapshot) Action { return action })
	return next, changed
}

// Update builds the action from the current snapshot and reduces it in one
// step, no other dispatch can run in between. build must not dispatch.
func (s *Store) Update(build func(current *types.Snapshot) Action) (Action, *types.Snapshot, bool) {
	s.dispatchLk.Lock()
	defer s.dispatchLk.Unlock()

	action := build(s.Snapshot())

	s.lk.Lock()
	prev := s.state
	next := Reduce(prev, action)
	s.state = next
	s.lk.Unlock()

	if next == prev {
		log.Debugf("action %s left state unchanged", action.Type())
		return action, next, false
	}
	log.Debugw("apply wallet action", "action", action.Type(), "status", next.ConnectionStatus)

	for _, subscriber := range s.snapshotSubscribers() {
		subscriber(prev, next)
	}
	return action, next, true
}

func (s *Store) Subscribe(subscriber Subscriber) func() {
	id := uuid.New()
	s.subLk.Lock()
	s.subscribers[id] = subscriber
	s.order = append(s.order, id)
	s.subLk.Unlock()

	return func() {
		s.subLk.Lock()
		defer s.subLk.Unlock()
		delete(s.subscribers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) snapshotSubscribers() []Subscriber {
	s.subLk.Lock()
	defer s.subLk.Unlock()
	out := make([]Subscriber, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.subscribers[id])
	}
	return out
}
