package transport

import (
	"context"
	"errors"
	"io"
	"iter"
	"slices"
	"sync"
	"time"

	"buymesho/internal/domain"
	"buymesho/internal/repository"
)

// memStore backs the three repositories in memory and counts every call
// that reaches it.
type memStore struct {
	mu       sync.Mutex
	sellers  map[string]*domain.Seller
	listings map[int64]*domain.Listing
	reports  map[int64]*domain.Report
	nextID   int64
	calls    int
}

func newMemStore() *memStore {
	return &memStore{
		sellers:  make(map[string]*domain.Seller),
		listings: make(map[int64]*domain.Listing),
		reports:  make(map[int64]*domain.Report),
	}
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memStore) listing(id int64) (domain.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return domain.Listing{}, false
	}
	return *l, true
}

type memSellers struct{ *memStore }

func (r memSellers) Upsert(_ context.Context, seller *domain.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if existing, ok := r.sellers[seller.UID]; ok {
		seller.IsVerified = existing.IsVerified
		seller.JoinDate = existing.JoinDate
	} else {
		seller.JoinDate = time.Now()
	}
	cp := *seller
	r.sellers[seller.UID] = &cp
	return nil
}

func (r memSellers) FindByUID(_ context.Context, uid string) (*domain.Seller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	s, ok := r.sellers[uid]
	if !ok {
		return nil, repository.ErrSellerNotFound
	}
	cp := *s
	return &cp, nil
}

func (r memSellers) Exists(_ context.Context, uid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	_, ok := r.sellers[uid]
	return ok, nil
}

func (r memSellers) MarkVerified(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	s, ok := r.sellers[uid]
	if !ok {
		return repository.ErrSellerNotFound
	}
	s.IsVerified = true
	return nil
}

func (r memSellers) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	delete(r.sellers, uid)
	return nil
}

type memListings struct{ *memStore }

func (r memListings) Create(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.sellers[l.SellerUID]; !ok {
		return repository.ErrSellerNotFound
	}
	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = time.Now()
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r memListings) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.listings[l.ID]; !ok {
		return repository.ErrListingNotFound
	}
	cp := *l
	r.listings[l.ID] = &cp
	return nil
}

func (r memListings) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, rep := range r.reports {
		if rep.ListingID == id {
			return errors.New("fk_reports_listing violated")
		}
	}
	delete(r.listings, id)
	return nil
}

func (r memListings) FindByID(_ context.Context, id int64) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memListings) ListBySeller(_ context.Context, uid string) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := []*domain.Listing{}
	for _, l := range r.listings {
		if l.SellerUID == uid {
			cp := *l
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Listing) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r memListings) DeleteBySeller(_ context.Context, uid string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var n int64
	for id, l := range r.listings {
		if l.SellerUID == uid {
			delete(r.listings, id)
			n++
		}
	}
	return n, nil
}

func (r memListings) Query(_ context.Context, filter repository.ListingFilter) iter.Seq2[*domain.ListingView, error] {
	return func(yield func(*domain.ListingView, error) bool) {
		r.mu.Lock()
		r.calls++
		var views []*domain.ListingView
		for _, l := range r.listings {
			if filter.Category != "" && l.Category != filter.Category {
				continue
			}
			seller := r.sellers[l.SellerUID]
			views = append(views, &domain.ListingView{
				Listing:      *l,
				BusinessName: seller.BusinessName,
				BusinessLogo: seller.BusinessLogo,
				IsVerified:   seller.IsVerified,
			})
		}
		r.mu.Unlock()

		slices.SortFunc(views, func(a, b *domain.ListingView) int { return int(b.ID - a.ID) })
		for _, v := range views {
			if !yield(v, nil) {
				return
			}
		}
	}
}

type memReports struct{ *memStore }

func (r memReports) Create(_ context.Context, rep *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if _, ok := r.listings[rep.ListingID]; !ok {
		return repository.ErrListingNotFound
	}
	r.nextID++
	rep.ID = r.nextID
	cp := *rep
	r.reports[rep.ID] = &cp
	return nil
}

func (r memReports) DeleteByListingIDs(_ context.Context, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var n int64
	for id, rep := range r.reports {
		if slices.Contains(ids, rep.ListingID) {
			delete(r.reports, id)
			n++
		}
	}
	return n, nil
}

type stubHost struct {
	mu        sync.Mutex
	uploadErr error
	uploaded  []string
	destroyed []string
}

func (h *stubHost) Upload(_ context.Context, r io.Reader, filename string) (string, error) {
	if h.uploadErr != nil {
		return "", h.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.uploaded = append(h.uploaded, filename)
	return "https://res.cloudinary.com/demo/image/upload/v1700000000/buymesho/" + filename, nil
}

func (h *stubHost) Destroy(_ context.Context, publicID string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, publicID)
	return "ok", nil
}
