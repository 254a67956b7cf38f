package ui

import (
	"sync"
	"time"

	"library-web/internal/model"
)

type Health string

const (
	HealthUnknown Health = ""
	HealthOnline  Health = "online"
	HealthOffline Health = "offline"
)

// State is one visitor's UI state: what was last fetched, what is selected
// and which controls are busy. Lists are only ever replaced wholesale by the
// latest successful fetch.
type State struct {
	mu sync.Mutex

	loaded        bool
	query         model.BookQuery
	books         []model.Book
	reservations  []model.Reservation
	favorites     []model.Book
	favoriteCount *int
	reviews       *model.ReviewList
	reminders     []model.Reminder
	health        Health
	review        ReviewSelection
	editor        Editor
	busy          map[string]bool
	lastSeen      time.Time
}

func NewState() *State {
	return &State{busy: make(map[string]bool), lastSeen: time.Now()}
}

// Snapshot is a read-only copy of State for rendering.
type Snapshot struct {
	Loaded        bool
	Query         model.BookQuery
	Books         []model.Book
	Reservations  []model.Reservation
	Favorites     []model.Book
	FavoriteCount *int
	Reviews       *model.ReviewList
	Reminders     []model.Reminder
	Health        Health
	Review        ReviewSelection
	Editor        Editor
	Busy          map[string]bool
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	busy := make(map[string]bool, len(s.busy))
	for k, v := range s.busy {
		busy[k] = v
	}
	return Snapshot{
		Loaded:        s.loaded,
		Query:         s.query,
		Books:         s.books,
		Reservations:  s.reservations,
		Favorites:     s.favorites,
		FavoriteCount: s.favoriteCount,
		Reviews:       s.reviews,
		Reminders:     s.reminders,
		Health:        s.health,
		Review:        s.review,
		Editor:        s.editor,
		Busy:          busy,
	}
}

// Acquire marks control busy. The returned release must run on every exit
// path. ok is false when the control is already busy.
func (s *State) Acquire(control string) (release func(), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[control] {
		return func() {}, false
	}
	s.busy[control] = true
	return func() {
		s.mu.Lock()
		delete(s.busy, control)
		s.mu.Unlock()
	}, true
}

func (s *State) IsBusy(control string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[control]
}

func (s *State) update(fn func(s *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Reset drops everything tied to the signed-in user.
func (s *State) Reset() {
	s.update(func(s *State) {
		s.loaded = false
		s.query = model.BookQuery{}
		s.books = nil
		s.reservations = nil
		s.favorites = nil
		s.favoriteCount = nil
		s.reviews = nil
		s.reminders = nil
		s.health = HealthUnknown
		s.review = ReviewSelection{}
		s.editor = Editor{}
	})
}

func (s *State) touch(now time.Time) {
	s.update(func(s *State) { s.lastSeen = now })
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
