package maintenance

import (
	"testing"
	"time"

	"github.com/jhaeusler/sessionbot/core/model"
)

func TestExpired(t *testing.T) {
	today := model.NewDay(2026, time.June, 10)
	sessions := []model.Session{
		{Campaign: "old", Date: model.NewDay(2026, time.June, 1)},
		{Campaign: "edge", Date: model.NewDay(2026, time.June, 3)},
		{Campaign: "fresh", Date: model.NewDay(2026, time.June, 8)},
		{Campaign: "future", Date: model.NewDay(2026, time.June, 20)},
		{Campaign: "dateless"},
	}
	expired := Expired(sessions, today, 7)
	if len(expired) != 2 {
		t.Fatalf("expected 2 expired sessions got %d", len(expired))
	}
	if expired[0].Campaign != "old" || expired[1].Campaign != "edge" {
		t.Fatalf("unexpected selection %v", expired)
	}
}

func TestExpiredZeroRetentionIncludesToday(t *testing.T) {
	today := model.NewDay(2026, time.June, 10)
	sessions := []model.Session{{Campaign: "today", Date: today}}
	if got := Expired(sessions, today, 0); len(got) != 1 {
		t.Fatalf("retention 0 must include today's sessions, got %v", got)
	}
	if got := Expired(sessions, today, 1); len(got) != 0 {
		t.Fatalf("retention 1 must skip today's sessions, got %v", got)
	}
}
