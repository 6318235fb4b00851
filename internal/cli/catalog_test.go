package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stellarmap/pkg/catalog"
	"github.com/matzehuels/stellarmap/pkg/errors"
	"github.com/matzehuels/stellarmap/pkg/star"
)

func testStars() []star.Record {
	return []star.Record{
		{ID: "3", Name: "Sirius A", X: -1.61, Y: 8.08, Z: -2.47, Spectral: "A1V"},
		{ID: "1", Name: "Sol", Spectral: "G2V"},
		{ID: "2", Name: "Proxima Centauri", X: -1.55, Spectral: "M5.5Ve"},
	}
}

func TestFindStar(t *testing.T) {
	r := catalog.NewMemory(testStars())
	ctx := context.Background()

	s, err := findStar(ctx, r, "Sol")
	if err != nil || s.ID != "1" {
		t.Errorf("exact lookup = %+v, %v", s, err)
	}

	s, err = findStar(ctx, r, "sirius a")
	if err != nil || s.ID != "3" {
		t.Errorf("case-insensitive lookup = %+v, %v", s, err)
	}

	_, err = findStar(ctx, r, "Vega")
	if !errors.Is(err, errors.ErrCodeReferenceNotFound) {
		t.Fatalf("missing star error = %v", err)
	}
	if !strings.Contains(err.Error(), "Proxima Centauri, Sirius A, Sol") {
		t.Errorf("error should list names alphabetically: %v", err)
	}
}

func TestFirstByName(t *testing.T) {
	stars := testStars()
	got := firstByName(stars, 2)
	if len(got) != 2 || got[0].Name != "Proxima Centauri" || got[1].Name != "Sirius A" {
		t.Errorf("firstByName(2) = %v", got)
	}
	if all := firstByName(stars, 0); len(all) != 3 {
		t.Errorf("firstByName(0) returned %d stars", len(all))
	}
	if stars[0].Name != "Sirius A" {
		t.Error("input must not be reordered")
	}
}

func TestStarTable(t *testing.T) {
	out := starTable(testStars())
	for _, want := range []string{"Name", "Spectral", "Sirius A", "-1.61", "8.08", "M5.5Ve"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestCatalogCommands(t *testing.T) {
	dir := isolate(t)
	cat := writeCatalog(t, dir)

	if err := run(t, "catalog", "list", "-c", cat, "-n", "2"); err != nil {
		t.Errorf("catalog list: %v", err)
	}
	if err := run(t, "catalog", "show", "proxima centauri", "-c", cat); err != nil {
		t.Errorf("catalog show: %v", err)
	}
	if err := run(t, "catalog", "show", "Vega", "-c", cat); !errors.Is(err, errors.ErrCodeReferenceNotFound) {
		t.Errorf("catalog show missing star error = %v", err)
	}
}

func TestCatalogImportReadOnlyTarget(t *testing.T) {
	dir := isolate(t)
	cat := writeCatalog(t, dir)
	target := filepath.Join(dir, "other.csv")
	if err := run(t, "catalog", "import", cat, "-c", target); err == nil {
		t.Error("import into a missing file target should fail")
	}
	if err := run(t, "catalog", "import", cat, "-c", cat); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("import into a file catalog error = %v, want INVALID_INPUT", err)
	}
}
