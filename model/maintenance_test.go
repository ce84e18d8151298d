package model

import (
	"testing"
	"time"
)

func TestNextPreventiveDueDate(t *testing.T) {
	scheduled := NewDate(2025, time.February, 20)
	next := NextPreventiveDueDate(scheduled)
	if next.String() != "2025-08-20" {
		t.Errorf("expected 2025-08-20, got %s", next.String())
	}

	yearWrap := NextPreventiveDueDate(NewDate(2025, time.September, 15))
	if yearWrap.String() != "2026-03-15" {
		t.Errorf("expected 2026-03-15, got %s", yearWrap.String())
	}
}

func TestMaintenanceIsOverdue(t *testing.T) {
	today := NewDate(2025, time.June, 15)

	tests := []struct {
		name      string
		scheduled Date
		status    string
		want      bool
	}{
		{"scheduled in the past", NewDate(2025, time.June, 1), MaintenanceScheduled, true},
		{"scheduled today", today, MaintenanceScheduled, false},
		{"scheduled in the future", NewDate(2025, time.July, 1), MaintenanceScheduled, false},
		{"completed in the past", NewDate(2025, time.June, 1), MaintenanceCompleted, false},
		{"cancelled in the past", NewDate(2025, time.June, 1), MaintenanceCancelled, false},
		{"in progress in the past", NewDate(2025, time.June, 1), MaintenanceInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MaintenanceRecord{ScheduledDate: tt.scheduled, Status: tt.status}
			if got := m.IsOverdue(today); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidMaintenanceEnums(t *testing.T) {
	if !ValidMaintenanceType("preventivo") || ValidMaintenanceType("preventive") {
		t.Error("maintenance types are the Spanish names")
	}
	if !ValidMaintenanceStatus("in_progress") || ValidMaintenanceStatus("done") {
		t.Error("unexpected maintenance status validity")
	}
	if !ValidPriority("critical") || ValidPriority("urgent") {
		t.Error("unexpected priority validity")
	}
}
