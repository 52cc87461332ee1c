package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
)

var baseTime = time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "directory.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
	db, err := Open(ctx, Options{Driver: DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := Migrate(ctx, db)
	require.NoError(t, err)
	require.NotEmpty(t, applied)
	return db
}

func newRating(itemID, deviceID string, value int, at time.Time) *domain.Rating {
	return &domain.Rating{
		ID:        uuid.New(),
		ItemType:  domain.ItemTypeDestination,
		ItemID:    itemID,
		DeviceID:  deviceID,
		Rating:    value,
		Media:     domain.StringList{"https://cdn.example/a.jpg"},
		Visible:   true,
		CreatedAt: at,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	applied, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
}

func TestRatingRepository_UniqueConstraint(t *testing.T) {
	ctx := context.Background()
	repo := NewRatingRepo(newTestDB(t))

	_, err := repo.Create(ctx, newRating("X", "d1", 5, baseTime))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newRating("X", "d1", 3, baseTime.Add(time.Minute)))
	require.ErrorIs(t, err, ports.ErrDuplicateKey)

	other := newRating("X", "d1", 4, baseTime)
	other.ItemType = domain.ItemTypeCulinary
	_, err = repo.Create(ctx, other)
	require.NoError(t, err, "same device may rate a different item type")

	exists, err := repo.Exists(ctx, domain.ItemTypeDestination, "X", "d1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRatingRepository_ListToggleCount(t *testing.T) {
	ctx := context.Background()
	repo := NewRatingRepo(newTestDB(t))

	first, err := repo.Create(ctx, newRating("X", "d1", 5, baseTime))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newRating("X", "d2", 4, baseTime.Add(time.Minute)))
	require.NoError(t, err)
	hidden, err := repo.Create(ctx, newRating("X", "d3", 1, baseTime.Add(2*time.Minute)))
	require.NoError(t, err)

	visible, err := repo.ToggleVisibility(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, visible)

	public, err := repo.ListByItem(ctx, domain.ItemTypeDestination, "X", false)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, second.ID, public[0].ID)
	assert.Equal(t, first.ID, public[1].ID)
	assert.Equal(t, domain.StringList{"https://cdn.example/a.jpg"}, public[0].Media)

	all, err := repo.ListByItem(ctx, domain.ItemTypeDestination, "X", true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, hidden.ID, all[0].ID)

	counts, err := repo.CountVisibleByValue(ctx, domain.ItemTypeDestination, "X")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 1, 4: 1}, counts)

	visible, err = repo.ToggleVisibility(ctx, hidden.ID)
	require.NoError(t, err)
	assert.True(t, visible)

	_, err = repo.ToggleVisibility(ctx, uuid.New())
	require.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.Delete(ctx, first.ID))
	require.ErrorIs(t, repo.Delete(ctx, first.ID), sql.ErrNoRows)
}

func TestRatingRepository_ListAllJoinsItemName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ratings := NewRatingRepo(db)
	destinations := NewDestinationRepo(db)

	dest, err := destinations.Create(ctx, &domain.Destination{
		ID:        uuid.New(),
		Title:     "Curug Cigentis",
		Category:  "Nature",
		Rating:    domain.DefaultEditorialRating,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	})
	require.NoError(t, err)
	assert.Nil(t, dest.AvgRating, "unrated item has no average")
	assert.Equal(t, 0, dest.RatingsCount)

	_, err = ratings.Create(ctx, newRating(dest.ID.String(), "d1", 4, baseTime))
	require.NoError(t, err)
	_, err = ratings.Create(ctx, newRating("orphan", "d1", 2, baseTime.Add(time.Minute)))
	require.NoError(t, err)

	all, err := ratings.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Nil(t, all[0].ItemName)
	require.NotNil(t, all[1].ItemName)
	assert.Equal(t, "Curug Cigentis", *all[1].ItemName)

	loaded, err := destinations.FindByID(ctx, dest.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.RatingsCount)
	require.NotNil(t, loaded.AvgRating)
	assert.InDelta(t, 4.0, *loaded.AvgRating, 0.001)
	assert.Equal(t, domain.StringList{}, loaded.Facilities)
}

func TestSubmissionRepository_ApproveIsAtomicAndGuarded(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	subs := NewSubmissionRepo(db)
	destinations := NewDestinationRepo(db)

	created, err := subs.Create(ctx, &domain.Submission{
		ID:        uuid.New(),
		Submitter: domain.Submitter{Name: "Owner"},
		Payload: domain.DestinationPayload{
			Title:      "Pantai Tanjung Pakis",
			Facilities: domain.StringList{"Parking"},
		},
		Status:    domain.SubmissionStatusPending,
		CreatedAt: baseTime,
		UpdatedAt: baseTime,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTypeDestination, created.ItemType)

	loaded, err := subs.FindByID(ctx, created.ID)
	require.NoError(t, err)
	payload, ok := loaded.Payload.(domain.DestinationPayload)
	require.True(t, ok)
	assert.Equal(t, "Pantai Tanjung Pakis", payload.Title)

	dest := &domain.Destination{ID: uuid.New(), Title: payload.Title, Category: domain.DefaultCategory,
		Facilities: payload.Facilities, Rating: domain.DefaultEditorialRating, CreatedAt: baseTime, UpdatedAt: baseTime}
	notes := "looks good"
	approved, err := subs.Approve(ctx, created.ID, dest, &notes, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.PromotedItemID)
	assert.Equal(t, dest.ID, *approved.PromotedItemID)
	require.NotNil(t, approved.AdminNotes)
	assert.Equal(t, notes, *approved.AdminNotes)

	promoted, err := destinations.FindByID(ctx, dest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"Parking"}, promoted.Facilities)

	again := &domain.Destination{ID: uuid.New(), Title: "dup", Category: domain.DefaultCategory, CreatedAt: baseTime, UpdatedAt: baseTime}
	_, err = subs.Approve(ctx, created.ID, again, nil, baseTime.Add(2*time.Hour))
	require.ErrorIs(t, err, ports.ErrStateConflict)
	_, err = destinations.FindByID(ctx, again.ID)
	require.ErrorIs(t, err, sql.ErrNoRows, "losing approval must roll back its insert")

	_, err = subs.Reject(ctx, created.ID, nil, baseTime.Add(3*time.Hour))
	require.ErrorIs(t, err, ports.ErrStateConflict)

	_, err = subs.Approve(ctx, uuid.New(), &domain.Culinary{ID: uuid.New(), CreatedAt: baseTime, UpdatedAt: baseTime}, nil, baseTime)
	require.ErrorIs(t, err, sql.ErrNoRows)

	list, err := destinations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmissionRepository_RejectAndList(t *testing.T) {
	ctx := context.Background()
	subs := NewSubmissionRepo(newTestDB(t))

	for i, name := range []string{"first", "second"} {
		_, err := subs.Create(ctx, &domain.Submission{
			ID:        uuid.New(),
			Submitter: domain.Submitter{Name: name},
			Payload:   domain.CulinaryPayload{Restaurant: "Warung " + name, Specialties: domain.StringList{"Sate"}},
			Status:    domain.SubmissionStatusPending,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
			UpdatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	pending, err := subs.ListByStatus(ctx, domain.SubmissionStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "second", pending[0].Name)

	notes := "duplicate listing"
	rejected, err := subs.Reject(ctx, pending[1].ID, &notes, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)
	assert.True(t, rejected.UpdatedAt.Equal(baseTime.Add(time.Hour)))

	onlyRejected, err := subs.ListByStatus(ctx, domain.SubmissionStatusRejected)
	require.NoError(t, err)
	require.Len(t, onlyRejected, 1)
	_, ok := onlyRejected[0].Payload.(domain.CulinaryPayload)
	assert.True(t, ok)
}

func TestCategoryRepository_SeedAndCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewCategoryRepo(db)
	destinations := NewDestinationRepo(db)
	culinary := NewCulinaryRepo(db)

	for _, cat := range []string{"Nature", "Nature", "Beach"} {
		_, err := destinations.Create(ctx, &domain.Destination{ID: uuid.New(), Title: "t", Category: cat, CreatedAt: baseTime, UpdatedAt: baseTime})
		require.NoError(t, err)
	}
	_, err := culinary.Create(ctx, &domain.Culinary{ID: uuid.New(), Title: "t", Category: "Street Food", CreatedAt: baseTime, UpdatedAt: baseTime})
	require.NoError(t, err)

	inserted, err := categories.SeedFromContent(ctx, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = categories.SeedFromContent(ctx, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	destType := domain.ItemTypeDestination
	listed, err := categories.List(ctx, &destType)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Beach", listed[0].Name)

	all, err := categories.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ItemTypeCulinary, all[0].Type)
	assert.Equal(t, "street-food", all[0].Slug)

	counts, err := categories.ListWithCounts(ctx, domain.ItemTypeDestination)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, 2, counts[1].Count)

	renamed, err := categories.Rename(ctx, listed[0].ID, "Sandy Beach", "sandy-beach")
	require.NoError(t, err)
	assert.Equal(t, "sandy-beach", renamed.Slug)

	deleted, err := categories.Delete(ctx, listed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Sandy Beach", deleted.Name)
	_, err = categories.Delete(ctx, listed[0].ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFacilityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFacilityRepo(newTestDB(t))

	icon := "wifi"
	for _, name := range []string{"WiFi", "Parking"} {
		_, err := repo.Create(ctx, &domain.FacilityPreset{ID: uuid.New(), Type: domain.ItemTypeCulinary, Name: name, IconName: &icon, CreatedAt: baseTime})
		require.NoError(t, err)
	}
	presets, err := repo.List(ctx, domain.ItemTypeCulinary)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, "Parking", presets[0].Name)

	none, err := repo.List(ctx, domain.ItemTypeDestination)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.Delete(ctx, presets[0].ID))
	require.ErrorIs(t, repo.Delete(ctx, presets[0].ID), sql.ErrNoRows)
}

func TestNormalizeLegacyLists(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	destinations := NewDestinationRepo(db)

	id := uuid.New()
	_, err := db.ExecContext(ctx, `INSERT INTO destinations (id, title, facilities, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, "Legacy", "Parking, WiFi,", baseTime, baseTime)
	require.NoError(t, err)

	_, err = destinations.FindByID(ctx, id)
	require.Error(t, err, "csv values are rejected on read")

	rewritten, err := NormalizeLegacyLists(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, rewritten["destinations.facilities"])

	loaded, err := destinations.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"Parking", "WiFi"}, loaded.Facilities)

	rewritten, err = NormalizeLegacyLists(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, rewritten["destinations.facilities"])
}

func TestAdminUserAndSessionRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewAdminUserRepo(db)
	sessions := NewSessionRepo(db)

	user, err := users.Create(ctx, &domain.AdminUser{
		ID: uuid.New(), Username: "Admin", PasswordHash: []byte{1, 2}, PasswordSalt: []byte{3, 4},
		Role: domain.RoleAdmin, CreatedAt: baseTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	_, err = users.Create(ctx, &domain.AdminUser{ID: uuid.New(), Username: "admin", PasswordHash: []byte{1}, PasswordSalt: []byte{1}, Role: domain.RoleAdmin, CreatedAt: baseTime})
	require.ErrorIs(t, err, ports.ErrDuplicateKey)

	found, err := users.FindByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, found.PasswordHash)

	_, err = sessions.Create(ctx, user.ID, "token-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	active, err := sessions.FindActive(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, active.UserID)

	require.NoError(t, sessions.Deactivate(ctx, "token-1"))
	_, err = sessions.FindActive(ctx, "token-1")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCarouselRepository_OrdersAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewCarouselRepo(newTestDB(t))

	link := "/destinations"
	slide := func(title string, order int, active bool) *domain.CarouselSlide {
		return &domain.CarouselSlide{
			ID: uuid.New(), Title: title, SlideOrder: order, IsActive: active,
			CreatedAt: baseTime, UpdatedAt: baseTime,
		}
	}
	hero := slide("Hero", 2, true)
	hero.ButtonLink1 = &link
	created, err := repo.Create(ctx, hero)
	require.NoError(t, err)
	require.NotNil(t, created.ButtonLink1)
	assert.Equal(t, link, *created.ButtonLink1)
	assert.Nil(t, created.ButtonText1)

	_, err = repo.Create(ctx, slide("Hidden", 0, false))
	require.NoError(t, err)
	_, err = repo.Create(ctx, slide("Intro", 1, true))
	require.NoError(t, err)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Intro", active[0].Title)
	assert.Equal(t, "Hero", active[1].Title)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hidden", all[0].Title)

	created.IsActive = false
	created.UpdatedAt = baseTime.Add(time.Hour)
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.ErrorIs(t, repo.Delete(ctx, created.ID), sql.ErrNoRows)
	_, err = repo.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)
}
