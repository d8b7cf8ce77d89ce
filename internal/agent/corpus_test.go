package agent

import (
	"strings"
	"testing"
)

func loadTestCorpus(t *testing.T) []KnowledgeDocument {
	t.Helper()
	card, err := LoadCardData("testdata/card_data.json")
	if err != nil {
		t.Fatalf("LoadCardData: %v", err)
	}
	return BuildCorpus(card)
}

func sectionsOf(docs []KnowledgeDocument) map[string]string {
	m := make(map[string]string, len(docs))
	for _, d := range docs {
		m[d.Section] = d.Content
	}
	return m
}

func TestLoadCardDataMissingFile(t *testing.T) {
	if _, err := LoadCardData("testdata/does_not_exist.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildCorpusSections(t *testing.T) {
	docs := loadTestCorpus(t)
	sections := sectionsOf(docs)

	for _, want := range []string{
		"general_info",
		"shopping_cashback",
		"travel_cashback",
		"jupiter_flights_cashback",
		"other_cashback",
		"rewards",
		"upi_features",
		"emi_features",
		"application_process",
		"application_step_pan_verification",
		"eligibility",
		"fees_and_charges",
		"card_limits",
		"billing_and_repayment",
		"compliance_and_reporting",
		"faq_0",
	} {
		if _, ok := sections[want]; !ok {
			t.Errorf("missing section %q", want)
		}
	}
}

func TestBuildCorpusContent(t *testing.T) {
	docs := loadTestCorpus(t)
	sections := sectionsOf(docs)

	if !strings.Contains(sections["shopping_cashback"], "10%") {
		t.Error("shopping cashback passage should carry the 10% rate")
	}
	if !strings.Contains(sections["shopping_cashback"], "Amazon") {
		t.Error("shopping cashback passage should list merchants")
	}
	if !strings.Contains(sections["upi_features"], "Jupiter App") {
		t.Error("upi passage should carry the Jupiter App reward condition")
	}
	if !strings.Contains(sections["eligibility"], "21-60") {
		t.Error("eligibility passage should carry the age range")
	}
	if !strings.Contains(sections["application_step_pan_verification"], "PAN number") {
		t.Error("pan step passage should mention the PAN number requirement")
	}
}

func TestBuildCorpusDeterministicOrder(t *testing.T) {
	card, err := LoadCardData("testdata/card_data.json")
	if err != nil {
		t.Fatalf("LoadCardData: %v", err)
	}

	first := BuildCorpus(card)
	second := BuildCorpus(card)

	if len(first) != len(second) {
		t.Fatalf("corpus size differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Section != second[i].Section {
			t.Fatalf("corpus order differs at %d: %s vs %s", i, first[i].Section, second[i].Section)
		}
	}
}
