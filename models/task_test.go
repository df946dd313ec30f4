package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validTask() Task {
	now := time.Now().UTC()
	return Task{
		ID:        uuid.New().String(),
		Title:     "Valid Task Title",
		DueDate:   DateOf(now),
		Category:  CategoryWork,
		Priority:  PriorityMedium,
		Status:    StatusTodo,
		CreatedBy: "owner-1",
		UserID:    "owner-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTask_ValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{
			name:    "valid task",
			mutate:  func(task *Task) {},
			wantErr: false,
		},
		{
			name:    "empty title",
			mutate:  func(task *Task) { task.Title = "" },
			wantErr: true,
		},
		{
			name:    "description at limit",
			mutate:  func(task *Task) { task.Description = strings.Repeat("a", 300) },
			wantErr: false,
		},
		{
			name:    "description over limit",
			mutate:  func(task *Task) { task.Description = strings.Repeat("a", 301) },
			wantErr: true,
		},
		{
			name:    "missing due date",
			mutate:  func(task *Task) { task.DueDate = time.Time{} },
			wantErr: true,
		},
		{
			name:    "invalid status",
			mutate:  func(task *Task) { task.Status = "invalid-status" },
			wantErr: true,
		},
		{
			name:    "invalid priority",
			mutate:  func(task *Task) { task.Priority = "invalid-priority" },
			wantErr: true,
		},
		{
			name:    "invalid category",
			mutate:  func(task *Task) { task.Category = "hobby" },
			wantErr: true,
		},
		{
			name:    "invalid UUID",
			mutate:  func(task *Task) { task.ID = "not-a-uuid" },
			wantErr: true,
		},
		{
			name:    "owner mismatch",
			mutate:  func(task *Task) { task.UserID = "someone-else" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := ValidateStruct(task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"To-Do", StatusTodo, false},
		{"in-progress", StatusInProgress, false},
		{"inprogress", StatusInProgress, false},
		{"doing", StatusInProgress, false},
		{"completed", StatusCompleted, false},
		{"DONE", StatusCompleted, false},
		{" done ", StatusCompleted, false},
		{"archived", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestActivityForTransition(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		want     ActivityKind
		changed  bool
	}{
		{StatusTodo, StatusInProgress, ActivityStarted, true},
		{StatusTodo, StatusCompleted, ActivityCompleted, true},
		{StatusInProgress, StatusCompleted, ActivityCompleted, true},
		{StatusInProgress, StatusTodo, ActivityReopened, true},
		{StatusCompleted, StatusTodo, ActivityReopened, true},
		{StatusCompleted, StatusInProgress, ActivityStarted, true},
		{StatusTodo, StatusTodo, "", false},
		{StatusCompleted, StatusCompleted, "", false},
	}

	for _, tt := range tests {
		kind, changed := ActivityForTransition(tt.from, tt.to)
		if changed != tt.changed || kind != tt.want {
			t.Errorf("ActivityForTransition(%s, %s) = (%q, %v), want (%q, %v)",
				tt.from, tt.to, kind, changed, tt.want, tt.changed)
		}
	}
}

func TestNewTask_Defaults(t *testing.T) {
	due := time.Date(2026, 9, 15, 17, 30, 0, 0, time.Local)
	draft := NewTask("Write report", due, "owner-1")

	if draft.ID != "" {
		t.Errorf("draft ID should be empty, got %q", draft.ID)
	}
	if draft.Status != StatusTodo {
		t.Errorf("new tasks should start in todo, got %q", draft.Status)
	}
	if draft.Priority != PriorityMedium || draft.Category != CategoryPersonal {
		t.Errorf("unexpected defaults: priority=%q category=%q", draft.Priority, draft.Category)
	}
	if draft.CreatedBy != "owner-1" || draft.UserID != "owner-1" {
		t.Errorf("owner fields not stamped: createdBy=%q userId=%q", draft.CreatedBy, draft.UserID)
	}
	wantDue := DateOf(due)
	if !draft.DueDate.Equal(wantDue) {
		t.Errorf("due date not truncated: got %v, want %v", draft.DueDate, wantDue)
	}
}
