package validation

import (
	"testing"

	"tailorstudio/internal/domain"
)

func TestStruct_ReportsJSONFieldPaths(t *testing.T) {
	in := domain.Individual{
		FirstName: "Abebe",
		Sex:       "Other",
		ClothDetails: domain.ClothDetails{
			Female: &domain.FemaleMeasurements{SleeveStyle: "Puffy"},
		},
		DeliveryDate: "16/10/2026",
	}
	verr := Struct(in)
	if verr == nil {
		t.Fatalf("expected validation error")
	}
	for _, field := range []string{"lastName", "sex", "clothDetails.female.sleeveStyle", "deliveryDate"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected field %q in %v", field, verr.Fields)
		}
	}
	if verr.Fields["lastName"] != "is required" {
		t.Fatalf("unexpected message %q", verr.Fields["lastName"])
	}
}

func TestStruct_ValidIndividual(t *testing.T) {
	in := domain.Individual{
		FirstName:    "Abebe",
		LastName:     "Kebede",
		Sex:          domain.SexMale,
		DeliveryDate: "2026-10-20",
		ClothDetails: domain.ClothDetails{
			Male: &domain.MaleMeasurements{Netela: "Yes", ClothType: "Traditional"},
		},
	}
	if verr := Struct(in); verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
}
