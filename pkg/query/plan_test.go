package query

import "testing"

func TestBuildPlanKeywordsAndFilters(t *testing.T) {
	p, err := Parse("ext:pdf invoice size:>1mb")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	plan := BuildPlan(p)
	if plan.Where == "" {
		t.Fatal("expected a non-empty WHERE clause")
	}
	if len(plan.Args) != 3 {
		t.Fatalf("expected 3 bind args (keyword, extension, size), got %d: %v", len(plan.Args), plan.Args)
	}
}

func TestBuildFilterPlanOmitsKeywords(t *testing.T) {
	p, err := Parse("ext:pdf invoice march")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	plan := BuildFilterPlan(p)
	if len(plan.Args) != 1 {
		t.Fatalf("expected only the extension arg, got %v", plan.Args)
	}
}

func TestBuildPlanEmptyQueryHasNoClauses(t *testing.T) {
	p, err := Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	plan := BuildPlan(p)
	if plan.Where != "" || len(plan.Args) != 0 {
		t.Errorf("expected an empty plan, got where=%q args=%v", plan.Where, plan.Args)
	}
}

func TestEscapeLikeEscapesWildcards(t *testing.T) {
	got := escapeLike("100%_done")
	want := `100\%\_done`
	if got != want {
		t.Errorf("escapeLike(%q) = %q, want %q", "100%_done", got, want)
	}
}
