package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/khasm-app/khasm/internal/place/domain"
	"github.com/khasm-app/khasm/internal/place/repository"
	"github.com/khasm-app/khasm/pkg/db"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Place{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreatePlaceSlug(t *testing.T) {
	svc := newTestService(t)

	place, err := svc.Create(context.Background(), domain.CreatePlaceRequest{Name: "Down Town Mall"})
	if err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	if place.Slug != "down-town-mall" {
		t.Fatalf("expected slug down-town-mall, got %s", place.Slug)
	}
	if !place.IsActive {
		t.Fatal("expected new place to be active")
	}
}

func TestCreatePlaceDuplicateName(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Create(context.Background(), domain.CreatePlaceRequest{Name: "City Center"}); err != nil {
		t.Fatalf("failed to create place: %v", err)
	}

	_, err := svc.Create(context.Background(), domain.CreatePlaceRequest{Name: "City Center"})
	if err != domain.ErrNameExists {
		t.Fatalf("expected ErrNameExists, got %v", err)
	}
}

func TestListActivePlacesOnly(t *testing.T) {
	svc := newTestService(t)

	active, err := svc.Create(context.Background(), domain.CreatePlaceRequest{Name: "Active Mall"})
	if err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	hidden, err := svc.Create(context.Background(), domain.CreatePlaceRequest{Name: "Hidden Mall"})
	if err != nil {
		t.Fatalf("failed to create place: %v", err)
	}

	inactive := false
	if _, err := svc.Update(context.Background(), domain.UpdatePlaceRequest{
		ID:       hidden.ID.String(),
		IsActive: &inactive,
	}); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	places, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(places) != 1 || places[0].ID != active.ID {
		t.Fatalf("expected only the active place, got %d entries", len(places))
	}
}
