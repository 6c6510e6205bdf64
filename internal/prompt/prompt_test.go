package prompt

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testVehicle() *Vehicle {
	return &Vehicle{
		Make:       "Toyota",
		Model:      "Premio",
		ModelYear:  2012,
		EngineType: strPtr("1.8L petrol"),
		MileageKM:  intPtr(145000),
		Notes:      strPtr("Rattles when idling"),
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		code string
		want Language
	}{
		{"en", LanguageEnglish},
		{"sw", LanguageSwahili},
		{"", LanguageEnglish},
		{"fr", LanguageEnglish},
		{"EN", LanguageEnglish},
	}

	for _, tt := range tests {
		if got := ParseLanguage(tt.code); got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestSystemLanguageIsExclusive(t *testing.T) {
	en := System(LanguageEnglish, testVehicle())
	if !strings.Contains(en, "Vehicle Details:") {
		t.Error("English prompt missing English vehicle header")
	}
	if strings.Contains(en, "Taarifa za Gari") {
		t.Error("English prompt contains Swahili vehicle header")
	}
	if strings.Contains(en, "NAMNA 1") {
		t.Error("English prompt contains Swahili mode labels")
	}

	sw := System(LanguageSwahili, testVehicle())
	if !strings.Contains(sw, "Taarifa za Gari:") {
		t.Error("Swahili prompt missing Swahili vehicle header")
	}
	if strings.Contains(sw, "Vehicle Details") {
		t.Error("Swahili prompt contains English vehicle header")
	}
	if strings.Contains(sw, "MODE 1 - DIAGNOSTIC") {
		t.Error("Swahili prompt contains English mode labels")
	}
}

func TestSystemContainsHeaderLineInBothLanguages(t *testing.T) {
	for _, lang := range []Language{LanguageEnglish, LanguageSwahili} {
		if !strings.Contains(System(lang, nil), HeaderLine) {
			t.Errorf("%s prompt does not pin the header line", lang)
		}
	}
}

func TestSystemOmitsVehicleBlockWhenNoVehicle(t *testing.T) {
	got := System(LanguageEnglish, nil)
	if strings.Contains(got, "Vehicle Details:") {
		t.Error("prompt without a vehicle should not render the vehicle block")
	}

	got = System(LanguageSwahili, nil)
	if strings.Contains(got, "Taarifa za Gari:") {
		t.Error("Swahili prompt without a vehicle should not render the vehicle block")
	}
}

func TestSystemIsDeterministic(t *testing.T) {
	v := testVehicle()
	first := System(LanguageSwahili, v)
	for i := 0; i < 5; i++ {
		if System(LanguageSwahili, v) != first {
			t.Fatal("same input produced different prompts")
		}
	}
}

func TestVehicleBlockPlaceholders(t *testing.T) {
	bare := &Vehicle{Make: "Nissan", Model: "Note", ModelYear: 2015}

	en := VehicleBlock(LanguageEnglish, bare)
	for _, want := range []string{"- Engine: Standard", "- Mileage: Unknown", "- Notes: None"} {
		if !strings.Contains(en, want) {
			t.Errorf("English block missing %q:\n%s", want, en)
		}
	}

	sw := VehicleBlock(LanguageSwahili, bare)
	for _, want := range []string{"- Injini: Kawaida", "- Kilomita: Haijulikani", "- Maelezo: Hakuna"} {
		if !strings.Contains(sw, want) {
			t.Errorf("Swahili block missing %q:\n%s", want, sw)
		}
	}
}

func TestVehicleBlockRendersKnownFields(t *testing.T) {
	block := VehicleBlock(LanguageEnglish, testVehicle())
	for _, want := range []string{
		"- Make: Toyota",
		"- Model: Premio",
		"- Year: 2012",
		"- Engine: 1.8L petrol",
		"- Mileage: 145000 km",
		"- Notes: Rattles when idling",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("block missing %q:\n%s", want, block)
		}
	}
	if strings.Contains(block, "Nickname") {
		t.Error("nickname line rendered for a vehicle without a nickname")
	}
}

func TestVehicleBlockNicknameLine(t *testing.T) {
	v := testVehicle()
	v.Nickname = strPtr("Shujaa")

	if !strings.Contains(VehicleBlock(LanguageEnglish, v), "- Nickname: Shujaa") {
		t.Error("English block missing nickname line")
	}
	if !strings.Contains(VehicleBlock(LanguageSwahili, v), "- Jina la utani: Shujaa") {
		t.Error("Swahili block missing nickname line")
	}
}

func TestExplainCodeUser(t *testing.T) {
	if got := ExplainCodeUser("P0300", nil); got != "Explain error code P0300." {
		t.Errorf("without vehicle: got %q", got)
	}

	got := ExplainCodeUser("P0300", testVehicle())
	want := "Explain error code P0300. For a 2012 Toyota Premio (1.8L petrol)."
	if got != want {
		t.Errorf("with vehicle: got %q, want %q", got, want)
	}

	v := testVehicle()
	v.EngineType = nil
	got = ExplainCodeUser("P0420", v)
	want = "Explain error code P0420. For a 2012 Toyota Premio."
	if got != want {
		t.Errorf("without engine: got %q, want %q", got, want)
	}
}

func TestExplainCodeSystemHasSections(t *testing.T) {
	sys := ExplainCodeSystem()
	for _, want := range []string{"Meaning", "Common Causes", "Urgency", "Estimated Cost (KES)"} {
		if !strings.Contains(sys, want) {
			t.Errorf("explain-code system prompt missing %q", want)
		}
	}
}
