package logbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/logbook/logbooktest"
)

func TestMemoryStore(t *testing.T) {
	logbooktest.Run(t, func(*testing.T) logbook.Logbook { return logbook.NewMemoryStore() })
}

func TestMemoryStore_LoadAllReturnsCopy(t *testing.T) {
	s := logbook.NewMemoryStore()
	ctx := context.Background()
	if err := s.Append(ctx, logbooktest.Session("a", "car", time.Now())); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, _ := s.LoadAll(ctx, "")
	got[0].EnergyKWh = 999
	again, _ := s.LoadAll(ctx, "")
	if again[0].EnergyKWh == 999 {
		t.Fatalf("store mutated through returned slice")
	}
}

func TestChangeKindString(t *testing.T) {
	if logbook.SessionDeleted.String() != "deleted" {
		t.Fatalf("unexpected %s", logbook.SessionDeleted)
	}
}
