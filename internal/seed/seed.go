package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tailorstudio/internal/domain"
	familysvc "tailorstudio/internal/service/family"
	individualsvc "tailorstudio/internal/service/individual"
)

type adminEnsurer interface {
	EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error)
}

type individualCreator interface {
	Create(ctx context.Context, in individualsvc.Input) (*domain.Individual, error)
}

type familyCreator interface {
	Create(ctx context.Context, in familysvc.Input) (*domain.FamilyDetail, error)
}

// Admin creates the admin account, or resets its password if it exists.
// Running it again is safe.
func Admin(ctx context.Context, auth adminEnsurer, username, password string) (*domain.User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("admin password is required")
	}
	u, err := auth.EnsureAdmin(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("ensure admin %q: %w", username, err)
	}
	return u, nil
}

// DemoOrders inserts one standalone order and one family order for manual
// testing. Unlike Admin it is not idempotent.
func DemoOrders(ctx context.Context, individuals individualCreator, families familyCreator) error {
	total := 1500.0
	if _, err := individuals.Create(ctx, individualsvc.Input{
		FirstName:    "Abebe",
		LastName:     "Kebede",
		Sex:          domain.SexMale,
		Phone:        "0911000001",
		DeliveryDate: "2026-12-01",
		ClothDetails: individualsvc.ClothInput{
			ShirtLength: 74,
			Shoulder:    46,
			Male:        &domain.MaleMeasurements{Chest: 100, ClothType: "Traditional", Netela: "Yes"},
			Colors:      []string{"#ffffff", "#c9a227"},
		},
		Payment: &domain.Payment{Total: total, FirstHalf: domain.HalfPayment{Paid: true}},
	}); err != nil {
		return fmt.Errorf("seed individual: %w", err)
	}

	if _, err := families.Create(ctx, familysvc.Input{
		FamilyName:   "Tesfaye",
		Phone:        "0911000002",
		DeliveryDate: "2026-12-15",
		Members: []familysvc.MemberInput{
			{Input: individualsvc.Input{FirstName: "Almaz", LastName: "Tesfaye", Sex: domain.SexFemale,
				ClothDetails: individualsvc.ClothInput{Female: &domain.FemaleMeasurements{DressLength: 140, SleeveStyle: "Long"}}}},
			{Input: individualsvc.Input{FirstName: "Dawit", LastName: "Tesfaye", Sex: domain.SexMale,
				ClothDetails: individualsvc.ClothInput{Male: &domain.MaleMeasurements{Chest: 94, ClothType: "Shirt"}}}},
		},
		Payment: &domain.Payment{Total: 4000},
	}); err != nil {
		return fmt.Errorf("seed family: %w", err)
	}
	return nil
}
