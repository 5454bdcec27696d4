package entity

import "testing"

func TestMoistureLevelBasic(t *testing.T) {
	e := NewExtractor()
	got := e.moistureLevel("Moisture Level: 12.5%")
	if got == nil {
		t.Fatal("expected a moisture match")
	}
	if got.Value != 12.5 || got.Unit != "%" {
		t.Errorf("got %v %s, want 12.5 %%", got.Value, got.Unit)
	}
}

func TestMoistureLevelRange(t *testing.T) {
	e := NewExtractor()

	for _, tc := range []struct {
		text string
		want *float64
	}{
		{"Moisture: 0%", f(0)},       // lower boundary included
		{"Moisture: 100%", f(100)},   // upper boundary included
		{"Moisture: -0.1%", nil},     // below range rejected
		{"Moisture: 100.1%", nil},    // above range rejected
		{"Water content: 8.2%", f(8.2)},
	} {
		got := e.moistureLevel(tc.text)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("%q: got %v, want nil", tc.text, got.Value)
		case tc.want != nil && got == nil:
			t.Errorf("%q: got nil, want %v", tc.text, *tc.want)
		case tc.want != nil && got.Value != *tc.want:
			t.Errorf("%q: got %v, want %v", tc.text, got.Value, *tc.want)
		}
	}
}

func f(v float64) *float64 { return &v }

func TestPesticideContent(t *testing.T) {
	e := NewExtractor()
	got := e.pesticideContent("Pesticide Residue: 0.8 ppm")
	if got == nil {
		t.Fatal("expected a pesticide match")
	}
	if got.Value != 0.8 || got.Unit != "ppm" {
		t.Errorf("got %v %s, want 0.8 ppm", got.Value, got.Unit)
	}
}

func TestPesticideContentUnitVariants(t *testing.T) {
	e := NewExtractor()
	got := e.pesticideContent("residue: 1.5 mg/kg")
	if got == nil || got.Unit != "mg/kg" {
		t.Fatalf("got %+v, want mg/kg match", got)
	}
}

func TestOrganicStatus(t *testing.T) {
	e := NewExtractor()

	for _, tc := range []struct {
		text       string
		wantValue  bool
		wantConf   float64
		wantAbsent bool
	}{
		{text: "Product is Certified Organic by USDA", wantValue: true, wantConf: 0.9},
		{text: "Grown using conventional methods", wantValue: false, wantConf: 0.9},
		{text: "made with organic wheat", wantValue: true, wantConf: 0.6},
		{text: "nothing relevant here", wantAbsent: true},
	} {
		got := e.organicStatus(tc.text)
		if tc.wantAbsent {
			if got != nil {
				t.Errorf("%q: got %+v, want nil", tc.text, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%q: got nil", tc.text)
			continue
		}
		if got.Value != tc.wantValue || got.Confidence != tc.wantConf {
			t.Errorf("%q: got (%v, %v), want (%v, %v)", tc.text, got.Value, got.Confidence, tc.wantValue, tc.wantConf)
		}
	}
}

func TestISOCodes(t *testing.T) {
	e := NewExtractor()
	codes := e.isoCodes("Certified under ISO 22000 and ISO 9001:2015.")
	if len(codes) != 2 {
		t.Fatalf("got %d codes, want 2", len(codes))
	}
	if codes[0].Code != "ISO 22000" {
		t.Errorf("codes[0] = %q, want ISO 22000", codes[0].Code)
	}
	if codes[1].Code != "ISO 9001:2015" {
		t.Errorf("codes[1] = %q, want ISO 9001:2015", codes[1].Code)
	}
}

func TestDatesMultipleCandidates(t *testing.T) {
	e := NewExtractor()
	dates := e.dates("Issued 2025-01-10, valid through 12/31/2026.\nTest Date: Jan 5, 2025")
	if len(dates) < 3 {
		t.Fatalf("got %d dates, want >= 3: %+v", len(dates), dates)
	}

	var labeled *DateMention
	for i := range dates {
		if dates[i].Type == DateTypeTest {
			labeled = &dates[i]
		}
	}
	if labeled == nil {
		t.Fatal("expected a label-directed test_date mention")
	}
	if labeled.Raw != "Jan 5, 2025" {
		t.Errorf("test_date raw = %q, want %q", labeled.Raw, "Jan 5, 2025")
	}
	if labeled.Confidence != 0.85 {
		t.Errorf("test_date confidence = %v, want 0.85", labeled.Confidence)
	}
}

func TestBatchNumberPriorityOrder(t *testing.T) {
	e := NewExtractor()

	// Batch label outranks lot label regardless of position in the text.
	got := e.batchNumber("Lot No: L-9\nBatch No: B-2201")
	if got == nil || got.Number != "B-2201" {
		t.Fatalf("got %+v, want B-2201", got)
	}

	got = e.batchNumber("Lot #: L-77")
	if got == nil || got.Number != "L-77" {
		t.Fatalf("got %+v, want L-77", got)
	}
}

func TestCertificateNumber(t *testing.T) {
	e := NewExtractor()
	got := e.certificateNumber("Certificate No: CERT-2024/118")
	if got == nil || got.Number != "CERT-2024/118" {
		t.Fatalf("got %+v, want CERT-2024/118", got)
	}
}

func TestOrganizationsMultiple(t *testing.T) {
	e := NewExtractor()
	orgs := e.organizations("Analyzed at Greenfield Testing. Issued by: Global Standards Bureau")
	if len(orgs) < 2 {
		t.Fatalf("got %d orgs, want >= 2: %+v", len(orgs), orgs)
	}
}

func TestNumbersWithUnits(t *testing.T) {
	e := NewExtractor()
	nums := e.numbersWithUnits("Net weight 500 g, pesticide 0.5 ppm")
	if len(nums) < 2 {
		t.Fatalf("got %d numbers, want >= 2", len(nums))
	}
	if nums[0].Value != 500 || nums[0].Unit != "g" {
		t.Errorf("nums[0] = %+v, want 500 g", nums[0])
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor()
	got := e.Extract("   ")
	if got == nil {
		t.Fatal("expected empty bag, got nil")
	}
	if got.MoistureLevel != nil || got.Dates != nil || got.Organizations != nil {
		t.Errorf("expected empty bag, got %+v", got)
	}
}

func TestExtractCombinedBag(t *testing.T) {
	e := NewExtractor()
	text := "Laboratory Test Report\nMoisture: 11.2%\nPesticide residue: 0.5 ppm\nOrganic Certified\nBatch No: B-2201"
	bag := e.Extract(text)
	if bag.MoistureLevel == nil || bag.MoistureLevel.Value != 11.2 {
		t.Errorf("moisture = %+v, want 11.2", bag.MoistureLevel)
	}
	if bag.PesticideContent == nil || bag.PesticideContent.Value != 0.5 {
		t.Errorf("pesticide = %+v, want 0.5", bag.PesticideContent)
	}
	if bag.OrganicStatus == nil || !bag.OrganicStatus.Value {
		t.Errorf("organic = %+v, want true", bag.OrganicStatus)
	}
	if bag.BatchNumber == nil || bag.BatchNumber.Number != "B-2201" {
		t.Errorf("batch = %+v, want B-2201", bag.BatchNumber)
	}
}
