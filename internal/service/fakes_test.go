package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/media"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

var fixedNow = time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// ---- ratings ----

type memoryRatingRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.Rating
	// skipExists makes Exists always answer false, as if a concurrent
	// request inserted between the pre-check and the insert.
	skipExists bool
	failWith   error
}

func newMemoryRatingRepo() *memoryRatingRepo {
	return &memoryRatingRepo{items: map[uuid.UUID]domain.Rating{}}
}

func (r *memoryRatingRepo) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, existing := range r.items {
		if existing.ItemType == rating.ItemType && existing.ItemID == rating.ItemID && existing.DeviceID == rating.DeviceID {
			return nil, ports.ErrDuplicateKey
		}
	}
	r.items[rating.ID] = *rating
	stored := *rating
	return &stored, nil
}

func (r *memoryRatingRepo) Exists(ctx context.Context, itemType domain.ItemType, itemID, deviceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipExists {
		return false, nil
	}
	for _, existing := range r.items {
		if existing.ItemType == itemType && existing.ItemID == itemID && existing.DeviceID == deviceID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRatingRepo) sorted() []domain.Rating {
	out := make([]domain.Rating, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (r *memoryRatingRepo) ListByItem(ctx context.Context, itemType domain.ItemType, itemID string, includeHidden bool) ([]domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Rating{}
	for _, item := range r.sorted() {
		if item.ItemType != itemType || item.ItemID != itemID {
			continue
		}
		if !item.Visible && !includeHidden {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *memoryRatingRepo) ListAll(ctx context.Context) ([]domain.AdminRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.AdminRating{}
	for _, item := range r.sorted() {
		out = append(out, domain.AdminRating{Rating: item})
	}
	return out, nil
}

func (r *memoryRatingRepo) ToggleVisibility(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	item.Visible = !item.Visible
	r.items[id] = item
	return item.Visible, nil
}

func (r *memoryRatingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRatingRepo) CountVisibleByValue(ctx context.Context, itemType domain.ItemType, itemID string) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[int]int{}
	for _, item := range r.items {
		if item.ItemType == itemType && item.ItemID == itemID && item.Visible {
			counts[item.Rating]++
		}
	}
	return counts, nil
}

// ---- submissions ----

type memorySubmissionRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]domain.Submission
	promoted []domain.ContentItem
	// conflictOnWrite simulates another moderator winning the guarded update.
	conflictOnWrite bool
	failApprove     error
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{items: map[uuid.UUID]domain.Submission{}}
}

func (r *memorySubmissionRepo) Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = *s
	stored := *s
	return &stored, nil
}

func (r *memorySubmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (r *memorySubmissionRepo) ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Submission{}
	for _, item := range r.items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memorySubmissionRepo) transition(id uuid.UUID) (domain.Submission, error) {
	item, ok := r.items[id]
	if !ok {
		return domain.Submission{}, sql.ErrNoRows
	}
	if r.conflictOnWrite || item.Status != domain.SubmissionStatusPending {
		return domain.Submission{}, ports.ErrStateConflict
	}
	return item, nil
}

func (r *memorySubmissionRepo) Approve(ctx context.Context, id uuid.UUID, content domain.ContentItem, notes *string, at time.Time) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failApprove != nil {
		return nil, r.failApprove
	}
	item, err := r.transition(id)
	if err != nil {
		return nil, err
	}
	var promotedID uuid.UUID
	switch c := content.(type) {
	case *domain.Destination:
		promotedID = c.ID
	case *domain.Culinary:
		promotedID = c.ID
	}
	approvedAt := at
	item.Status = domain.SubmissionStatusApproved
	item.AdminNotes = notes
	item.PromotedItemID = &promotedID
	item.ApprovedAt = &approvedAt
	item.UpdatedAt = at
	r.items[id] = item
	r.promoted = append(r.promoted, content)
	return &item, nil
}

func (r *memorySubmissionRepo) Reject(ctx context.Context, id uuid.UUID, notes *string, at time.Time) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, err := r.transition(id)
	if err != nil {
		return nil, err
	}
	item.Status = domain.SubmissionStatusRejected
	item.AdminNotes = notes
	item.UpdatedAt = at
	r.items[id] = item
	return &item, nil
}

type countingThrottle struct {
	limit int
	hits  map[string]int
}

func (t *countingThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t.hits == nil {
		t.hits = map[string]int{}
	}
	t.hits[key]++
	return t.hits[key] <= t.limit, nil
}

// ---- categories & facilities ----

type memoryCategoryRepo struct {
	items      map[uuid.UUID]domain.Category
	contentCat []domain.Category
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{items: map[uuid.UUID]domain.Category{}}
}

func (r *memoryCategoryRepo) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	r.items[c.ID] = *c
	stored := *c
	return &stored, nil
}

func (r *memoryCategoryRepo) List(ctx context.Context, itemType *domain.ItemType) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range r.items {
		if itemType == nil || c.Type == *itemType {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memoryCategoryRepo) ListWithCounts(ctx context.Context, itemType domain.ItemType) ([]domain.CategoryCount, error) {
	list, _ := r.List(ctx, &itemType)
	out := make([]domain.CategoryCount, 0, len(list))
	for _, c := range list {
		out = append(out, domain.CategoryCount{Category: c})
	}
	return out, nil
}

func (r *memoryCategoryRepo) Rename(ctx context.Context, id uuid.UUID, name, slug string) (*domain.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.Name, c.Slug = name, slug
	r.items[id] = c
	return &c, nil
}

func (r *memoryCategoryRepo) Delete(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(r.items, id)
	return &c, nil
}

func (r *memoryCategoryRepo) SeedFromContent(ctx context.Context, at time.Time) (int, error) {
	if len(r.items) > 0 {
		return 0, nil
	}
	for _, c := range r.contentCat {
		c.ID = uuid.New()
		c.Slug = domain.Slugify(c.Name)
		c.CreatedAt = at
		r.items[c.ID] = c
	}
	return len(r.contentCat), nil
}

type memoryFacilityRepo struct {
	items map[uuid.UUID]domain.FacilityPreset
}

func newMemoryFacilityRepo() *memoryFacilityRepo {
	return &memoryFacilityRepo{items: map[uuid.UUID]domain.FacilityPreset{}}
}

func (r *memoryFacilityRepo) Create(ctx context.Context, p *domain.FacilityPreset) (*domain.FacilityPreset, error) {
	r.items[p.ID] = *p
	stored := *p
	return &stored, nil
}

func (r *memoryFacilityRepo) List(ctx context.Context, itemType domain.ItemType) ([]domain.FacilityPreset, error) {
	out := []domain.FacilityPreset{}
	for _, p := range r.items {
		if p.Type == itemType {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryFacilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

// ---- content ----

type memoryDestinationRepo struct {
	items map[uuid.UUID]domain.Destination
}

func newMemoryDestinationRepo() *memoryDestinationRepo {
	return &memoryDestinationRepo{items: map[uuid.UUID]domain.Destination{}}
}

func (r *memoryDestinationRepo) Create(ctx context.Context, d *domain.Destination) (*domain.Destination, error) {
	r.items[d.ID] = *d
	stored := *d
	return &stored, nil
}

func (r *memoryDestinationRepo) Update(ctx context.Context, d *domain.Destination) (*domain.Destination, error) {
	if _, ok := r.items[d.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	r.items[d.ID] = *d
	stored := *d
	return &stored, nil
}

func (r *memoryDestinationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memoryDestinationRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Destination, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (r *memoryDestinationRepo) List(ctx context.Context) ([]domain.Destination, error) {
	out := []domain.Destination{}
	for _, d := range r.items {
		out = append(out, d)
	}
	return out, nil
}

type memoryCulinaryRepo struct {
	items map[uuid.UUID]domain.Culinary
}

func newMemoryCulinaryRepo() *memoryCulinaryRepo {
	return &memoryCulinaryRepo{items: map[uuid.UUID]domain.Culinary{}}
}

func (r *memoryCulinaryRepo) Create(ctx context.Context, c *domain.Culinary) (*domain.Culinary, error) {
	r.items[c.ID] = *c
	stored := *c
	return &stored, nil
}

func (r *memoryCulinaryRepo) Update(ctx context.Context, c *domain.Culinary) (*domain.Culinary, error) {
	if _, ok := r.items[c.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	r.items[c.ID] = *c
	stored := *c
	return &stored, nil
}

func (r *memoryCulinaryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memoryCulinaryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Culinary, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r *memoryCulinaryRepo) List(ctx context.Context) ([]domain.Culinary, error) {
	out := []domain.Culinary{}
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

// ---- auth ----

type memoryAdminRepo struct {
	items map[uuid.UUID]domain.AdminUser
}

func newMemoryAdminRepo() *memoryAdminRepo {
	return &memoryAdminRepo{items: map[uuid.UUID]domain.AdminUser{}}
}

func (r *memoryAdminRepo) Create(ctx context.Context, u *domain.AdminUser) (*domain.AdminUser, error) {
	for _, existing := range r.items {
		if existing.Username == u.Username {
			return nil, ports.ErrDuplicateKey
		}
	}
	r.items[u.ID] = *u
	stored := *u
	return &stored, nil
}

func (r *memoryAdminRepo) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	for _, u := range r.items {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

type memorySessionRepo struct {
	items map[string]domain.AdminSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{items: map[string]domain.AdminSession{}}
}

func (r *memorySessionRepo) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.AdminSession, error) {
	s := domain.AdminSession{ID: uuid.New(), UserID: userID, Token: token, ExpiresAt: expiresAt, IsActive: true}
	r.items[token] = s
	return &s, nil
}

func (r *memorySessionRepo) Deactivate(ctx context.Context, token string) error {
	if s, ok := r.items[token]; ok {
		s.IsActive = false
		r.items[token] = s
	}
	return nil
}

func (r *memorySessionRepo) FindActive(ctx context.Context, token string) (*domain.AdminSession, error) {
	s, ok := r.items[token]
	if !ok || !s.IsActive {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

// ---- uploads ----

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if m.objects == nil {
		m.objects = map[string][]byte{}
		m.types = map[string]string{}
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[objectName] = data
	m.types[objectName] = contentType
	return "https://cdn.example.test/" + bucket + "/" + objectName, nil
}

type stubImageProcessor struct {
	output      []byte
	contentType string
	err         error

	calls   int
	lastMax int
}

func (s *stubImageProcessor) Process(ctx context.Context, upload media.Upload, maxDimension int) (*media.Result, error) {
	s.calls++
	s.lastMax = maxDimension
	if s.err != nil {
		return nil, s.err
	}
	out := s.output
	if out == nil {
		out, _ = io.ReadAll(upload.Reader)
	}
	ct := s.contentType
	if ct == "" {
		ct = upload.ContentType
	}
	return &media.Result{Bytes: bytes.Clone(out), ContentType: ct, Resized: s.output != nil}, nil
}

// ---- carousel ----

type memoryCarouselRepo struct {
	items map[uuid.UUID]domain.CarouselSlide
}

func newMemoryCarouselRepo() *memoryCarouselRepo {
	return &memoryCarouselRepo{items: map[uuid.UUID]domain.CarouselSlide{}}
}

func (r *memoryCarouselRepo) Create(ctx context.Context, s *domain.CarouselSlide) (*domain.CarouselSlide, error) {
	r.items[s.ID] = *s
	stored := *s
	return &stored, nil
}

func (r *memoryCarouselRepo) Update(ctx context.Context, s *domain.CarouselSlide) (*domain.CarouselSlide, error) {
	if _, ok := r.items[s.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	r.items[s.ID] = *s
	stored := *s
	return &stored, nil
}

func (r *memoryCarouselRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memoryCarouselRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.CarouselSlide, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r *memoryCarouselRepo) List(ctx context.Context, activeOnly bool) ([]domain.CarouselSlide, error) {
	out := []domain.CarouselSlide{}
	for _, s := range r.items {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlideOrder < out[j].SlideOrder })
	return out, nil
}
