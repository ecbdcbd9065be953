package service

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

// store is an in-memory stand-in for the three repositories. It records
// every call so tests can assert which statements ran and in what order.
type store struct {
	mu       sync.Mutex
	sellers  map[string]*domain.Seller
	listings map[int64]*domain.Listing
	reports  map[int64]*domain.Report
	nextID   int64
	calls    []string
	failOn   map[string]error
}

func newStore() *store {
	return &store{
		sellers:  make(map[string]*domain.Seller),
		listings: make(map[int64]*domain.Listing),
		reports:  make(map[int64]*domain.Report),
		failOn:   make(map[string]error),
	}
}

func (s *store) record(call string) error {
	s.calls = append(s.calls, call)
	return s.failOn[call]
}

func (s *store) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *store) addSeller(uid, logo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sellers[uid] = &domain.Seller{UID: uid, BusinessName: "Shop " + uid, BusinessLogo: logo, JoinDate: time.Now()}
}

func (s *store) addListing(sellerUID string, photos ...string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listings[s.nextID] = &domain.Listing{
		ID:        s.nextID,
		SellerUID: sellerUID,
		Name:      "item",
		Photos:    photos,
		CreatedAt: time.Now(),
	}
	return s.nextID
}

func (s *store) addReport(listingID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.reports[s.nextID] = &domain.Report{ID: s.nextID, ListingID: listingID, Reason: "spam"}
}

func (s *store) reportsFor(listingID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reports {
		if r.ListingID == listingID {
			n++
		}
	}
	return n
}

type sellerRepo struct{ *store }

func (r sellerRepo) Upsert(_ context.Context, seller *domain.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("sellers.Upsert"); err != nil {
		return err
	}
	if existing, ok := r.sellers[seller.UID]; ok {
		seller.IsVerified = existing.IsVerified
		seller.JoinDate = existing.JoinDate
	} else {
		seller.IsVerified = false
		seller.JoinDate = time.Now()
	}
	cp := *seller
	r.sellers[seller.UID] = &cp
	return nil
}

func (r sellerRepo) FindByUID(_ context.Context, uid string) (*domain.Seller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("sellers.FindByUID"); err != nil {
		return nil, err
	}
	s, ok := r.sellers[uid]
	if !ok {
		return nil, repository.ErrSellerNotFound
	}
	cp := *s
	return &cp, nil
}

func (r sellerRepo) Exists(_ context.Context, uid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("sellers.Exists"); err != nil {
		return false, err
	}
	_, ok := r.sellers[uid]
	return ok, nil
}

func (r sellerRepo) MarkVerified(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("sellers.MarkVerified"); err != nil {
		return err
	}
	s, ok := r.sellers[uid]
	if !ok {
		return repository.ErrSellerNotFound
	}
	s.IsVerified = true
	return nil
}

func (r sellerRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("sellers.Delete"); err != nil {
		return err
	}
	delete(r.sellers, uid)
	return nil
}

type listingRepo struct{ *store }

func (r listingRepo) Create(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("listings.Create"); err != nil {
		return err
	}
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

func (r listingRepo) Update(_ context.Context, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("listings.Update"); err != nil {
		return err
	}
	existing, ok := r.listings[l.ID]
	if !ok {
		return repository.ErrListingNotFound
	}
	cp := *l
	cp.SellerUID = existing.SellerUID
	cp.CreatedAt = existing.CreatedAt
	r.listings[l.ID] = &cp
	return nil
}

func (r listingRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("listings.Delete"); err != nil {
		return err
	}
	if _, ok := r.listings[id]; !ok {
		return repository.ErrListingNotFound
	}
	for _, rep := range r.reports {
		if rep.ListingID == id {
			return errors.New("fk_reports_listing violated")
		}
	}
	delete(r.listings, id)
	return nil
}

func (r listingRepo) FindByID(_ context.Context, id int64) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("listings.FindByID"); err != nil {
		return nil, err
	}
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (r listingRepo) ListBySeller(_ context.Context, uid string) ([]*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("listings.ListBySeller"); err != nil {
		return nil, err
	}
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

func (r listingRepo) DeleteBySeller(_ context.Context, uid string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("listings.DeleteBySeller"); err != nil {
		return 0, err
	}
	var n int64
	for id, l := range r.listings {
		if l.SellerUID != uid {
			continue
		}
		for _, rep := range r.reports {
			if rep.ListingID == id {
				return 0, errors.New("fk_reports_listing violated")
			}
		}
		delete(r.listings, id)
		n++
	}
	return n, nil
}

func (r listingRepo) Query(_ context.Context, _ repository.ListingFilter) iter.Seq2[*domain.ListingView, error] {
	return func(yield func(*domain.ListingView, error) bool) {
		r.mu.Lock()
		err := r.record("listings.Query")
		var views []*domain.ListingView
		for _, l := range r.listings {
			views = append(views, &domain.ListingView{Listing: *l})
		}
		r.mu.Unlock()

		if err != nil {
			yield(nil, err)
			return
		}
		for _, v := range views {
			if !yield(v, nil) {
				return
			}
		}
	}
}

type reportRepo struct{ *store }

func (r reportRepo) Create(_ context.Context, rep *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("reports.Create"); err != nil {
		return err
	}
	if _, ok := r.listings[rep.ListingID]; !ok {
		return repository.ErrListingNotFound
	}
	r.nextID++
	rep.ID = r.nextID
	cp := *rep
	r.reports[rep.ID] = &cp
	return nil
}

func (r reportRepo) DeleteByListingIDs(_ context.Context, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("reports.DeleteByListingIDs"); err != nil {
		return 0, err
	}
	var n int64
	for id, rep := range r.reports {
		if slices.Contains(ids, rep.ListingID) {
			delete(r.reports, id)
			n++
		}
	}
	return n, nil
}

// fakeHost fails for every public id listed in failures.
type fakeHost struct {
	mu        sync.Mutex
	destroyed []string
	failures  map[string]error
}

func (h *fakeHost) Upload(_ context.Context, _ io.Reader, filename string) (string, error) {
	return "https://res.cloudinary.com/demo/image/upload/v1/buymesho/" + filename, nil
}

func (h *fakeHost) Destroy(_ context.Context, publicID string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, publicID)
	if err, ok := h.failures[publicID]; ok {
		return "", err
	}
	return "ok", nil
}

type countingObserver struct {
	mu     sync.Mutex
	ok     int
	failed int
}

func (o *countingObserver) MediaDeletion(_ string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed++
		return
	}
	o.ok++
}
