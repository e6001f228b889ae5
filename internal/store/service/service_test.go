package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	categoryrepo "github.com/khasm-app/khasm/internal/category/repository"
	categoryservice "github.com/khasm-app/khasm/internal/category/service"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
	placerepo "github.com/khasm-app/khasm/internal/place/repository"
	placeservice "github.com/khasm-app/khasm/internal/place/service"
	"github.com/khasm-app/khasm/internal/store/domain"
	"github.com/khasm-app/khasm/internal/store/repository"
	"github.com/khasm-app/khasm/pkg/db"
)

type fixture struct {
	stores     domain.Service
	places     placedomain.Service
	categories categorydomain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&placedomain.Place{}, &categorydomain.Category{}, &domain.Store{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	places := placeservice.New(placeservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  placerepo.Provide(),
	})
	categories := categoryservice.New(categoryservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  categoryrepo.Provide(),
	})
	stores := New(Params{
		DB:         dbConn,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		Places:     places,
		Categories: categories,
	})

	return fixture{stores: stores, places: places, categories: categories}
}

func (f fixture) seed(t *testing.T, placeName, storeName string, discount float64) domain.Store {
	t.Helper()

	place, err := f.places.Create(context.Background(), placedomain.CreatePlaceRequest{Name: placeName})
	if err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	category, err := f.categories.Create(context.Background(), categorydomain.CreateCategoryRequest{
		Name:   storeName + " category",
		Letter: "c",
	})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	store, err := f.stores.Create(context.Background(), domain.CreateStoreRequest{
		Name:       storeName,
		PlaceID:    place.ID.String(),
		CategoryID: category.ID.String(),
		Discount:   discount,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestCreateStoreUnknownPlace(t *testing.T) {
	f := newFixture(t)

	category, err := f.categories.Create(context.Background(), categorydomain.CreateCategoryRequest{
		Name:   "Food",
		Letter: "F",
	})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	_, err = f.stores.Create(context.Background(), domain.CreateStoreRequest{
		Name:       "Orphan",
		PlaceID:    "123456789",
		CategoryID: category.ID.String(),
		Discount:   10,
	})
	if err != domain.ErrInvalidPlace {
		t.Fatalf("expected ErrInvalidPlace, got %v", err)
	}
}

func TestCreateStoreDiscountBounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.stores.Create(context.Background(), domain.CreateStoreRequest{
		Name:     "Too Generous",
		Discount: 150,
	})
	if err != domain.ErrInvalidDiscount {
		t.Fatalf("expected ErrInvalidDiscount, got %v", err)
	}
}

func TestGroupedByPlace(t *testing.T) {
	f := newFixture(t)

	first := f.seed(t, "Mall A", "Coffee House", 15)
	f.seed(t, "Mall B", "Book Shop", 20)

	// second store in Mall A
	category, err := f.categories.Create(context.Background(), categorydomain.CreateCategoryRequest{
		Name:   "Bakeries",
		Letter: "B",
	})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	if _, err := f.stores.Create(context.Background(), domain.CreateStoreRequest{
		Name:       "Bakery",
		PlaceID:    first.PlaceID.String(),
		CategoryID: category.ID.String(),
		Discount:   5,
	}); err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	groups, err := f.stores.GroupedByPlace(context.Background())
	if err != nil {
		t.Fatalf("failed to group: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	total := 0
	for _, group := range groups {
		total += len(group.Stores)
		if group.Place.Name == "Mall A" && len(group.Stores) != 2 {
			t.Fatalf("expected 2 stores in Mall A, got %d", len(group.Stores))
		}
	}
	if total != 3 {
		t.Fatalf("expected 3 stores across groups, got %d", total)
	}
}

func TestGroupedByPlaceSkipsInactive(t *testing.T) {
	f := newFixture(t)

	store := f.seed(t, "Mall C", "Closing Down", 30)

	inactive := false
	if _, err := f.stores.Update(context.Background(), domain.UpdateStoreRequest{
		ID:       store.ID.String(),
		IsActive: &inactive,
	}); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	groups, err := f.stores.GroupedByPlace(context.Background())
	if err != nil {
		t.Fatalf("failed to group: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}
