package repository

import (
	"context"
	"testing"

	"github.com/dentexpo/expo-manager/internal/model"
)

func TestProductStats(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepo(db)
	stats := NewStatsRepo(db)

	mustProduct(t, products, "T2-CS", "Chair A", "white")
	mustProduct(t, products, "T2-CS", "Chair B", "white")
	mustProduct(t, products, "K3-Pro", "Autoclave", "gray")

	got, err := stats.ProductStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 3 {
		t.Errorf("total = %d, want 3", got.Total)
	}
	if got.MostPopularModel != "T2-CS" {
		t.Errorf("most popular model = %q", got.MostPopularModel)
	}
	if got.MostUsedColor != "white" {
		t.Errorf("most used color = %q", got.MostUsedColor)
	}
	if len(got.ModelDistribution) != 2 || got.ModelDistribution[0].Count != 2 {
		t.Errorf("model distribution: %+v", got.ModelDistribution)
	}
}

func TestProductStatsEmpty(t *testing.T) {
	stats := NewStatsRepo(newTestDB(t))
	got, err := stats.ProductStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 0 || got.MostPopularModel != "" {
		t.Errorf("empty catalog stats: %+v", got)
	}
}

func TestExhibitionStats(t *testing.T) {
	db := newTestDB(t)
	exhibitions := NewExhibitionRepo(db)
	stats := NewStatsRepo(db)

	mustExhibition(t, exhibitions, "Past", day(2026, 1, 5), day(2026, 1, 8))
	mustExhibition(t, exhibitions, "Current", day(2026, 6, 1), day(2026, 6, 30))
	mustExhibition(t, exhibitions, "JuneToo", day(2026, 6, 20), day(2026, 6, 22))
	mustExhibition(t, exhibitions, "Future", day(2026, 12, 1), day(2026, 12, 3))

	got, err := stats.ExhibitionStats(context.Background(), day(2026, 6, 15))
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 4 {
		t.Errorf("total = %d, want 4", got.Total)
	}
	if got.Upcoming != 2 || got.Ongoing != 1 || got.Ended != 1 {
		t.Errorf("schedule counts = %d/%d/%d, want 2/1/1", got.Upcoming, got.Ongoing, got.Ended)
	}

	months := map[string]int{}
	for _, item := range got.MonthlyDistribution {
		months[item.Label] = item.Count
	}
	if months["2026-06"] != 2 || months["2026-01"] != 1 || months["2026-12"] != 1 {
		t.Errorf("monthly distribution: %+v", got.MonthlyDistribution)
	}
}

func TestStatusSummary(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepo(db)
	exhibitions := NewExhibitionRepo(db)
	records := NewRecordRepo(db)
	stats := NewStatsRepo(db)

	p := mustProduct(t, products, "T2-CS", "Dental Chair", "white")
	e := mustExhibition(t, exhibitions, "IDS Cologne", day(2026, 3, 10), day(2026, 3, 14))
	mustRecord(t, records, p.ID, e.ID, model.StatusPending)
	mustRecord(t, records, p.ID, e.ID, model.StatusPending)
	mustRecord(t, records, p.ID, e.ID, model.StatusEnded)

	got, err := stats.StatusSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, item := range got {
		counts[item.Label] = item.Count
	}
	if counts["pending"] != 2 || counts["ended"] != 1 {
		t.Errorf("status summary: %+v", got)
	}
}

func TestParticipationByExhibition(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepo(db)
	exhibitions := NewExhibitionRepo(db)
	records := NewRecordRepo(db)
	stats := NewStatsRepo(db)

	p1 := mustProduct(t, products, "T2-CS", "Dental Chair", "white")
	p2 := mustProduct(t, products, "K3-Pro", "Autoclave", "gray")
	busy := mustExhibition(t, exhibitions, "Busy", day(2026, 3, 10), day(2026, 3, 14))
	mustExhibition(t, exhibitions, "Quiet", day(2026, 6, 1), day(2026, 6, 5))
	mustRecord(t, records, p1.ID, busy.ID, "")
	mustRecord(t, records, p2.ID, busy.ID, "")

	got, err := stats.ParticipationByExhibition(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if got[0].Label != "Busy" || got[0].Count != 2 {
		t.Errorf("busiest first: %+v", got)
	}
	if got[1].Label != "Quiet" || got[1].Count != 0 {
		t.Errorf("exhibitions without records should appear with zero: %+v", got)
	}
}
