package extractors

import (
	"reflect"
	"testing"

	"github.com/agritrust/batchcert/internal/entity"
)

func extractPackaging(t *testing.T, text string) *Packaging {
	t.Helper()
	return NewPackaging(entity.NewExtractor()).Extract(text).(*Packaging)
}

func TestPackagingLabelDirectedDates(t *testing.T) {
	// Expiry appears before the manufacturing date; label-directed
	// extraction must not be confused by positional order.
	rec := extractPackaging(t, "Best Before: 2026-01-10\nMFG: 2025-01-10")

	if rec.ManufacturingDate == nil || rec.ManufacturingDate.ISO != "2025-01-10" {
		t.Errorf("manufacturing date = %+v, want 2025-01-10", rec.ManufacturingDate)
	}
	if rec.ExpiryDate == nil || rec.ExpiryDate.ISO != "2026-01-10" {
		t.Errorf("expiry date = %+v, want 2026-01-10", rec.ExpiryDate)
	}
}

func TestPackagingFullLabel(t *testing.T) {
	text := `Product: Premium Trail Mix
Net Weight: 500 g
Ingredients: almonds, raisins; dried cranberries, a-very-long-ingredient-name-that-goes-on-and-on-beyond-fifty-chars
Storage: Keep in a cool dry place
Batch #: PKG-88
USDA Organic
ISO 22000`

	rec := extractPackaging(t, text)

	if rec.ProductName != "Premium Trail Mix" {
		t.Errorf("product name = %q", rec.ProductName)
	}
	if rec.NetWeight == nil || rec.NetWeight.Value != 500 || rec.NetWeight.Unit != "g" {
		t.Errorf("net weight = %+v, want 500 g", rec.NetWeight)
	}
	wantIngredients := []string{"almonds", "raisins", "dried cranberries"}
	if !reflect.DeepEqual(rec.Ingredients, wantIngredients) {
		t.Errorf("ingredients = %v, want %v (oversized token dropped)", rec.Ingredients, wantIngredients)
	}
	if rec.StorageInstructions != "Keep in a cool dry place" {
		t.Errorf("storage = %q", rec.StorageInstructions)
	}
	if rec.BatchNumber != "PKG-88" {
		t.Errorf("batch = %q", rec.BatchNumber)
	}
	if rec.OrganicCertified == nil || !*rec.OrganicCertified {
		t.Errorf("organic certified = %v, want true", rec.OrganicCertified)
	}
	if !reflect.DeepEqual(rec.CertificationLogos, []string{"USDA Organic"}) {
		t.Errorf("logos = %v", rec.CertificationLogos)
	}
	if !reflect.DeepEqual(rec.ISOCodes, []string{"ISO 22000"}) {
		t.Errorf("iso codes = %v", rec.ISOCodes)
	}
	if rec.Confidence <= 0.7 {
		t.Errorf("confidence = %v, want > 0.7 for a dense label", rec.Confidence)
	}

	cols := rec.Columns()
	if cols.OrganicStatus == nil || !*cols.OrganicStatus {
		t.Errorf("organic column = %v", cols.OrganicStatus)
	}
	if cols.BatchNumber == nil || *cols.BatchNumber != "PKG-88" {
		t.Errorf("batch column = %v", cols.BatchNumber)
	}
	if cols.ExpiryDate != nil {
		t.Errorf("expiry column = %v, want nil", cols.ExpiryDate)
	}
}

func TestPackagingOrganicUnknownIsNil(t *testing.T) {
	rec := extractPackaging(t, "Plain crackers label")
	if rec.OrganicCertified != nil {
		t.Errorf("organic certified = %v, want nil when nothing is stated", rec.OrganicCertified)
	}
}

func TestPackagingProductNameFromCapitalizedLine(t *testing.T) {
	rec := extractPackaging(t, "Golden Basmati Rice\nbatch: PKG1234")
	if rec.ProductName != "Golden Basmati Rice" {
		t.Errorf("product name = %q, want first capitalized line", rec.ProductName)
	}
}

func TestPackagingConfidenceBoost(t *testing.T) {
	// ISO code alone: 1/6 plus the certification boost.
	rec := extractPackaging(t, "iso 9001")
	want := 1.0/6 + 0.1
	if rec.Confidence != want {
		t.Errorf("confidence = %v, want %v", rec.Confidence, want)
	}
}
