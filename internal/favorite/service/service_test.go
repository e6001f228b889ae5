package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	categoryrepo "github.com/khasm-app/khasm/internal/category/repository"
	categoryservice "github.com/khasm-app/khasm/internal/category/service"
	"github.com/khasm-app/khasm/internal/favorite/domain"
	"github.com/khasm-app/khasm/internal/favorite/repository"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
	placerepo "github.com/khasm-app/khasm/internal/place/repository"
	placeservice "github.com/khasm-app/khasm/internal/place/service"
	storedomain "github.com/khasm-app/khasm/internal/store/domain"
	storerepo "github.com/khasm-app/khasm/internal/store/repository"
	storeservice "github.com/khasm-app/khasm/internal/store/service"
	"github.com/khasm-app/khasm/pkg/db"
)

func newTestService(t *testing.T) (domain.Service, storedomain.Store, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&placedomain.Place{},
		&categorydomain.Category{},
		&storedomain.Store{},
		&domain.Favorite{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	places := placeservice.New(placeservice.Params{
		DB: dbConn, Log: zap.NewNop(), GenID: node, Repo: placerepo.Provide(),
	})
	categories := categoryservice.New(categoryservice.Params{
		DB: dbConn, Log: zap.NewNop(), GenID: node, Repo: categoryrepo.Provide(),
	})
	stores := storeservice.New(storeservice.Params{
		DB: dbConn, Log: zap.NewNop(), GenID: node, Repo: storerepo.Provide(),
		Places: places, Categories: categories,
	})

	place, err := places.Create(context.Background(), placedomain.CreatePlaceRequest{Name: "Mall"})
	if err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	category, err := categories.Create(context.Background(), categorydomain.CreateCategoryRequest{
		Name: "Food", Letter: "F",
	})
	if err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	store, err := stores.Create(context.Background(), storedomain.CreateStoreRequest{
		Name:       "Coffee House",
		PlaceID:    place.ID.String(),
		CategoryID: category.ID.String(),
		Discount:   10,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	svc := New(Params{
		DB: dbConn, Log: zap.NewNop(), GenID: node, Repo: repository.Provide(),
		Stores: stores,
	})

	return svc, store, node
}

func TestToggleAddsAndRemoves(t *testing.T) {
	svc, store, node := newTestService(t)
	userID := node.Generate().String()

	result, err := svc.Toggle(context.Background(), domain.ToggleRequest{
		UserID:  userID,
		StoreID: store.ID.String(),
	})
	if err != nil {
		t.Fatalf("failed to toggle on: %v", err)
	}
	if !result.Favorited {
		t.Fatal("expected store to be favorited")
	}

	favorites, err := svc.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(favorites) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favorites))
	}

	result, err = svc.Toggle(context.Background(), domain.ToggleRequest{
		UserID:  userID,
		StoreID: store.ID.String(),
	})
	if err != nil {
		t.Fatalf("failed to toggle off: %v", err)
	}
	if result.Favorited {
		t.Fatal("expected store to be unfavorited")
	}

	favorites, err = svc.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(favorites) != 0 {
		t.Fatalf("expected no favorites, got %d", len(favorites))
	}
}

func TestToggleUnknownStore(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Toggle(context.Background(), domain.ToggleRequest{
		UserID:  node.Generate().String(),
		StoreID: "999999999",
	})
	if err != domain.ErrInvalidStore {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
}
