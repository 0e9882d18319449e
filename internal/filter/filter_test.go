package filter

import (
	"strings"
	"testing"

	"github.com/hiredeck/ingest/internal/model"
)

func sampleJob(id string) model.ScrapedJob {
	return model.ScrapedJob{
		ExternalID:  id,
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: strings.Repeat("We build infrastructure for payments. ", 5),
		Source:      "remotive",
	}
}

func TestApply_DropsSeenIDs(t *testing.T) {
	f := New(nil)
	jobs := []model.ScrapedJob{sampleJob("remotive-1"), sampleJob("remotive-2")}
	existing := map[string]struct{}{"remotive-1": {}}

	kept := f.Apply(jobs, existing)
	if len(kept) != 1 {
		t.Fatalf("expected 1 kept job, got %d", len(kept))
	}
	if kept[0].ExternalID != "remotive-2" {
		t.Errorf("kept wrong job: %s", kept[0].ExternalID)
	}
}

func TestApply_QualityChecks(t *testing.T) {
	f := New(nil)

	noTitle := sampleJob("a")
	noTitle.Title = "   "

	longTitle := sampleJob("b")
	longTitle.Title = strings.Repeat("x", model.MaxTitleLen+1)

	noCompany := sampleJob("c")
	noCompany.Company = ""

	thinDescription := sampleJob("d")
	thinDescription.Description = "short"

	jobs := []model.ScrapedJob{noTitle, longTitle, noCompany, thinDescription, sampleJob("e")}
	kept := f.Apply(jobs, map[string]struct{}{})
	if len(kept) != 1 || kept[0].ExternalID != "e" {
		t.Fatalf("expected only the valid job to survive, got %d", len(kept))
	}
}

func TestApply_LengthBoundsCountRunes(t *testing.T) {
	f := New(nil)

	// Exactly MaxTitleLen runes, but multibyte, so the byte length is over.
	multibyte := sampleJob("a")
	multibyte.Title = strings.Repeat("é", model.MaxTitleLen)
	multibyte.Company = strings.Repeat("ü", model.MaxCompanyLen)

	tooLong := sampleJob("b")
	tooLong.Title = strings.Repeat("é", model.MaxTitleLen+1)

	kept := f.Apply([]model.ScrapedJob{multibyte, tooLong}, map[string]struct{}{})
	if len(kept) != 1 || kept[0].ExternalID != "a" {
		t.Fatalf("expected only the in-bounds job to survive, got %d", len(kept))
	}
}

func TestApply_ExcludeKeywords(t *testing.T) {
	f := New([]string{"Crypto", "  unpaid  "})

	inTitle := sampleJob("a")
	inTitle.Title = "Senior CRYPTO Engineer"

	inDescription := sampleJob("b")
	inDescription.Description = strings.Repeat("This is an unpaid internship position with us. ", 3)

	clean := sampleJob("c")

	kept := f.Apply([]model.ScrapedJob{inTitle, inDescription, clean}, map[string]struct{}{})
	if len(kept) != 1 || kept[0].ExternalID != "c" {
		t.Fatalf("keyword filter kept %d jobs", len(kept))
	}
}

func TestApply_Idempotent(t *testing.T) {
	f := New([]string{"crypto"})
	jobs := []model.ScrapedJob{sampleJob("a"), sampleJob("b")}
	existing := map[string]struct{}{}

	once := f.Apply(jobs, existing)
	twice := f.Apply(once, existing)
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d then %d", len(once), len(twice))
	}
}
