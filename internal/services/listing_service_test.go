package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zattar/internal/domain/category"
	"zattar/internal/domain/listing"
	"zattar/internal/repository"
	zattar_errors "zattar/pkg/errors"
)

type fakeListingRepo struct {
	listings map[uuid.UUID]listing.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uuid.UUID]listing.Listing)}
}

func (f *fakeListingRepo) Create(_ context.Context, l *listing.Listing) error {
	f.listings[l.ID] = *l
	return nil
}

func (f *fakeListingRepo) GetByID(_ context.Context, id uuid.UUID) (listing.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return listing.Listing{}, zattar_errors.ErrNotFound
	}
	return l, nil
}

func (f *fakeListingRepo) Update(_ context.Context, l listing.Listing) error {
	if _, ok := f.listings[l.ID]; !ok {
		return zattar_errors.ErrNotFound
	}
	f.listings[l.ID] = l
	return nil
}

func (f *fakeListingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.listings[id]; !ok {
		return zattar_errors.ErrNotFound
	}
	delete(f.listings, id)
	return nil
}

func (f *fakeListingRepo) Search(_ context.Context, filter repository.ListingFilter) ([]listing.Listing, int64, error) {
	var out []listing.Listing
	for _, l := range f.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.CategoryID != uuid.Nil && l.CategoryID != filter.CategoryID {
			continue
		}
		if filter.City != "" && l.City != filter.City {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeListingRepo) GetBySeller(_ context.Context, sellerID uuid.UUID, _, _ int) ([]listing.Listing, error) {
	var out []listing.Listing
	for _, l := range f.listings {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]category.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]category.Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *category.Category) error {
	for _, existing := range f.categories {
		if existing.Slug == c.Slug || existing.Name == c.Name {
			return zattar_errors.ErrAlreadyExists
		}
	}
	f.categories[c.ID] = *c
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (category.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return category.Category{}, zattar_errors.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (category.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return category.Category{}, zattar_errors.ErrNotFound
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]category.Category, error) {
	var out []category.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) add(name, slug string) category.Category {
	c := category.Category{ID: uuid.New(), Name: name, Slug: slug}
	f.categories[c.ID] = c
	return c
}

type listingFixture struct {
	repo       *fakeListingRepo
	categories *fakeCategoryRepo
	svc        *ListingService
	category   category.Category
}

func newListingFixture(at time.Time) *listingFixture {
	repo := newFakeListingRepo()
	categories := newFakeCategoryRepo()
	svc := NewListingService(repo, categories, nil)
	svc.now = func() time.Time { return at }
	return &listingFixture{
		repo:       repo,
		categories: categories,
		svc:        svc,
		category:   categories.add("Electronics", "electronics"),
	}
}

func TestListingCreate(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("defaults condition and activates", func(t *testing.T) {
		fx := newListingFixture(now)

		l, err := fx.svc.Create(ctx, CreateListingInput{
			SellerID:   uuid.New(),
			CategoryID: fx.category.ID,
			Title:      "iPhone 13, almost new",
			Price:      180000,
			Currency:   "KZT",
			City:       "Almaty",
		})
		require.NoError(t, err)
		assert.Equal(t, listing.ConditionUsed, l.Condition)
		assert.Equal(t, listing.StatusActive, l.Status)
		assert.Equal(t, fx.category.ID, l.CategoryID)
	})

	t.Run("rejects missing title or bad price", func(t *testing.T) {
		fx := newListingFixture(now)

		_, err := fx.svc.Create(ctx, CreateListingInput{SellerID: uuid.New(), CategoryID: fx.category.ID, Price: 100})
		assert.ErrorIs(t, err, zattar_errors.ErrInvalidInput)

		_, err = fx.svc.Create(ctx, CreateListingInput{SellerID: uuid.New(), CategoryID: fx.category.ID, Title: "x", Price: 0})
		assert.ErrorIs(t, err, zattar_errors.ErrInvalidInput)
	})

	t.Run("requires an existing category", func(t *testing.T) {
		fx := newListingFixture(now)

		_, err := fx.svc.Create(ctx, CreateListingInput{SellerID: uuid.New(), Title: "Lamp", Price: 5000})
		assert.ErrorIs(t, err, zattar_errors.ErrInvalidInput)

		_, err = fx.svc.Create(ctx, CreateListingInput{SellerID: uuid.New(), CategoryID: uuid.New(), Title: "Lamp", Price: 5000})
		require.ErrorIs(t, err, zattar_errors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "unknown category")
	})
}

func TestListingSellerOnlyOperations(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	fx := newListingFixture(now)
	svc := fx.svc

	seller := uuid.New()
	stranger := uuid.New()

	l, err := svc.Create(ctx, CreateListingInput{SellerID: seller, CategoryID: fx.category.ID, Title: "Bike", Price: 40000})
	require.NoError(t, err)

	_, err = svc.Update(ctx, l.ID, stranger, UpdateListingInput{Title: "Stolen bike"})
	assert.ErrorIs(t, err, zattar_errors.ErrForbidden)

	err = svc.Delete(ctx, l.ID, stranger)
	assert.ErrorIs(t, err, zattar_errors.ErrForbidden)

	_, err = svc.MarkSold(ctx, l.ID, stranger)
	assert.ErrorIs(t, err, zattar_errors.ErrForbidden)

	updated, err := svc.Update(ctx, l.ID, seller, UpdateListingInput{Price: 35000})
	require.NoError(t, err)
	assert.Equal(t, float64(35000), updated.Price)
	assert.Equal(t, "Bike", updated.Title)

	sold, err := svc.MarkSold(ctx, l.ID, seller)
	require.NoError(t, err)
	assert.Equal(t, listing.StatusSold, sold.Status)

	require.NoError(t, svc.Delete(ctx, l.ID, seller))
	_, err = svc.Get(ctx, l.ID)
	assert.ErrorIs(t, err, zattar_errors.ErrNotFound)
}

func TestListingSearchDefaultsToActive(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	fx := newListingFixture(now)
	svc := fx.svc

	seller := uuid.New()
	active, err := svc.Create(ctx, CreateListingInput{SellerID: seller, CategoryID: fx.category.ID, Title: "Sofa", Price: 20000})
	require.NoError(t, err)
	soldListing, err := svc.Create(ctx, CreateListingInput{SellerID: seller, CategoryID: fx.category.ID, Title: "Table", Price: 10000})
	require.NoError(t, err)
	_, err = svc.MarkSold(ctx, soldListing.ID, seller)
	require.NoError(t, err)

	results, total, err := svc.Search(ctx, repository.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, active.ID, results[0].ID)
}

func TestListingSearchByCategory(t *testing.T) {
	now := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()

	fx := newListingFixture(now)
	furniture := fx.categories.add("Home & Furniture", "home-furniture")

	seller := uuid.New()
	phone, err := fx.svc.Create(ctx, CreateListingInput{SellerID: seller, CategoryID: fx.category.ID, Title: "Phone", Price: 90000})
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, CreateListingInput{SellerID: seller, CategoryID: furniture.ID, Title: "Chair", Price: 8000})
	require.NoError(t, err)

	results, total, err := fx.svc.Search(ctx, repository.ListingFilter{CategoryID: fx.category.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, phone.ID, results[0].ID)
}
