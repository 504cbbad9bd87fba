package reconcile

import (
	"errors"
	"sort"
	"sync"

	"github.com/WeDoCheapies/website/internal/model"
	"github.com/WeDoCheapies/website/internal/realtime"
)

// ErrNoDetailView is returned when edit is started while no customer is open
var ErrNoDetailView = errors.New("no customer is open")

// DetailView is customer card opened by admin together with unsaved profile edit
type DetailView struct {
	Customer model.Customer
	Edit     *model.CustomerProfile
}

// Screen is local state of admin session. Remote changes and responses of own requests
// are merged by the same rules, so duplicate delivery of any of them leaves state unchanged.
type Screen struct {
	mu         sync.Mutex
	customers  *Collection[model.Customer]
	washes     *Collection[model.Wash]
	latestWash *model.Wash
	detail     *DetailView
	closed     bool
	onChange   func()
}

func NewScreen(customers []model.Customer, washes []model.Wash) *Screen {
	return &Screen{
		customers: NewCollection(customers...),
		washes:    NewCollection(washes...),
	}
}

// OnChange registers fn called after every change of screen state
func (s *Screen) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// ApplyCustomer merges customer change pushed by change feed
func (s *Screen) ApplyCustomer(ev realtime.Event[model.Customer]) bool {
	return s.update(func() bool {
		return s.applyCustomer(ev)
	})
}

// ApplyWash merges wash change pushed by change feed
func (s *Screen) ApplyWash(ev realtime.Event[model.Wash]) bool {
	return s.update(func() bool {
		return s.applyWash(ev)
	})
}

// ApplyLocalCustomer merges customer returned by own request, e.g. ledger adjustment.
// Response is dropped if a later version of the customer has already been pushed.
func (s *Screen) ApplyLocalCustomer(c *model.Customer) bool {
	return s.update(func() bool {
		if s.holdsNewer(*c) {
			return false
		}
		if _, ok := s.customers.Get(c.ID); ok {
			return s.applyCustomer(realtime.Updated[model.Customer]{Row: *c})
		}
		return s.applyCustomer(realtime.Inserted[model.Customer]{Row: *c})
	})
}

// ApplyLocalWash merges recorded wash and customer state returned with it
func (s *Screen) ApplyLocalWash(receipt *model.WashReceipt) bool {
	return s.update(func() bool {
		changed := s.applyWash(realtime.Inserted[model.Wash]{Row: *receipt.Wash})
		if receipt.Customer != nil && !s.holdsNewer(*receipt.Customer) {
			if _, ok := s.customers.Get(receipt.Customer.ID); ok {
				changed = s.applyCustomer(realtime.Updated[model.Customer]{Row: *receipt.Customer}) || changed
			}
		}
		return changed
	})
}

// RemoveLocalCustomer merges deletion made by own request
func (s *Screen) RemoveLocalCustomer(id string) bool {
	return s.update(func() bool {
		c, ok := s.customers.Get(id)
		if !ok {
			c = model.Customer{ID: id}
		}
		return s.applyCustomer(realtime.Deleted[model.Customer]{Row: c})
	})
}

// Reset replaces collections with freshly loaded rows. Open detail view is refreshed or closed
// if its customer doesn't exist anymore.
func (s *Screen) Reset(customers []model.Customer, washes []model.Wash) {
	s.update(func() bool {
		s.customers = NewCollection(customers...)
		s.washes = NewCollection(washes...)
		s.latestWash = nil

		if s.detail != nil {
			if c, ok := s.customers.Get(s.detail.Customer.ID); ok {
				s.detail.Customer = c
			} else {
				s.detail = nil
			}
		}
		return true
	})
}

// ShowHistory replaces washes with history of open customer. History loaded for a customer
// which is not open anymore is ignored.
func (s *Screen) ShowHistory(customerID string, washes []model.Wash) bool {
	return s.update(func() bool {
		if s.detail == nil || s.detail.Customer.ID != customerID {
			return false
		}
		s.washes = NewCollection(washes...)
		s.latestWash = nil
		return true
	})
}

func (s *Screen) OpenDetail(id string) bool {
	return s.update(func() bool {
		c, ok := s.customers.Get(id)
		if !ok {
			return false
		}
		s.detail = &DetailView{Customer: c}
		return true
	})
}

func (s *Screen) CloseDetail() {
	s.update(func() bool {
		changed := s.detail != nil
		s.detail = nil
		return changed
	})
}

// BeginEdit stores pending profile edit of open customer
func (s *Screen) BeginEdit(profile model.CustomerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.detail == nil {
		return ErrNoDetailView
	}
	s.detail.Edit = &profile
	return nil
}

// Detail returns copy of open detail view
func (s *Screen) Detail() (DetailView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detail == nil {
		return DetailView{}, false
	}
	return *s.detail, true
}

func (s *Screen) Customers() []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customers.All()
}

// Washes returns washes newest first
func (s *Screen) Washes() []model.Wash {
	s.mu.Lock()
	defer s.mu.Unlock()

	washes := s.washes.All()
	sort.SliceStable(washes, func(i, j int) bool {
		return washes[i].PerformedAt.After(washes[j].PerformedAt)
	})
	return washes
}

// LatestWash returns the most recently inserted wash seen by screen
func (s *Screen) LatestWash() (model.Wash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latestWash == nil {
		return model.Wash{}, false
	}
	return *s.latestWash, true
}

// Close makes screen ignore any further change, late responses included
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.detail = nil
}

func (s *Screen) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Screen) update(fn func() bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}

	changed := fn()
	onChange := s.onChange
	s.mu.Unlock()

	if changed && onChange != nil {
		onChange()
	}
	return changed
}

// holdsNewer reports whether screen already shows a later version of customer, must be called with mu held
func (s *Screen) holdsNewer(c model.Customer) bool {
	if cur, ok := s.customers.Get(c.ID); ok && cur.UpdatedAt.After(c.UpdatedAt) {
		return true
	}
	return s.detail != nil && s.detail.Customer.ID == c.ID && s.detail.Customer.UpdatedAt.After(c.UpdatedAt)
}

// applyCustomer must be called with mu held
func (s *Screen) applyCustomer(ev realtime.Event[model.Customer]) bool {
	switch e := ev.(type) {
	case realtime.Inserted[model.Customer]:
		return s.customers.Insert(e.Row)
	case realtime.Updated[model.Customer]:
		replaced := s.customers.Replace(e.Row)
		if s.detail != nil && s.detail.Customer.ID == e.Row.ID {
			s.detail.Customer = e.Row
			return true
		}
		return replaced
	case realtime.Deleted[model.Customer]:
		removed := s.customers.Remove(e.Row.ID)
		if s.detail != nil && s.detail.Customer.ID == e.Row.ID {
			s.detail = nil
			return true
		}
		return removed
	}
	return false
}

// applyWash must be called with mu held
func (s *Screen) applyWash(ev realtime.Event[model.Wash]) bool {
	switch e := ev.(type) {
	case realtime.Inserted[model.Wash]:
		if !s.washes.Insert(e.Row) {
			return false
		}
		w := e.Row
		s.latestWash = &w
		return true
	case realtime.Updated[model.Wash]:
		return s.washes.Replace(e.Row)
	case realtime.Deleted[model.Wash]:
		if s.latestWash != nil && s.latestWash.ID == e.Row.ID {
			s.latestWash = nil
		}
		return s.washes.Remove(e.Row.ID)
	}
	return false
}
