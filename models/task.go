package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the lifecycle stage of a task. Status is the sole
// field that partitions tasks into board sections.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// AllStatuses returns the three statuses in board order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus resolves a user-supplied status name, accepting a few common
// spellings ("inprogress", "done") beside the canonical ones.
func ParseStatus(v string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "todo", "to-do":
		return StatusTodo, nil
	case "in-progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown status %q (want todo, in-progress or completed)", v)
}

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// TaskCategory groups tasks by area of life.
type TaskCategory string

const (
	CategoryWork     TaskCategory = "work"
	CategoryPersonal TaskCategory = "personal"
)

// ActivityKind classifies entries in a task's history log.
type ActivityKind string

const (
	ActivityCreated   ActivityKind = "created"
	ActivityStarted   ActivityKind = "started"
	ActivityCompleted ActivityKind = "completed"
	ActivityReopened  ActivityKind = "reopened"
)

// Activity is one entry in a task's append-only history log. Entries are
// never truncated or reordered.
type Activity struct {
	Kind ActivityKind `json:"kind" validate:"required"`
	Date time.Time    `json:"date" validate:"required"`
	By   string       `json:"by,omitempty"`
}

// Attachment references an uploaded file. The upload itself happens outside
// this system; tasks only carry the reference.
type Attachment struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
	Size int64  `json:"size,omitempty"`
}

// Task represents a unit of work on the board.
type Task struct {
	ID          string       `json:"id" validate:"required,uuid4"`
	Title       string       `json:"title" validate:"required,max=255"`
	Description string       `json:"description,omitempty" validate:"max=300"`
	DueDate     time.Time    `json:"dueDate" validate:"required"`
	Category    TaskCategory `json:"category" validate:"required,oneof=work personal"`
	Priority    TaskPriority `json:"priority" validate:"required,oneof=low medium high"`
	Status      TaskStatus   `json:"status" validate:"required,oneof=todo in-progress completed"`
	Activities  []Activity   `json:"activities,omitempty" validate:"dive"`
	Attachment  *Attachment  `json:"attachment,omitempty"`
	// CreatedBy always equals UserID: tasks are never transferred.
	CreatedBy string    `json:"createdBy" validate:"required"`
	UserID    string    `json:"userId" validate:"required,eqfield=CreatedBy"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}

// TaskList represents a collection of tasks as persisted by the file
// repository.
type TaskList struct {
	Tasks      []Task `json:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// DateOf truncates t to a calendar date in UTC. Due dates carry no
// time-of-day semantics.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewTask builds a task draft with defaults filled in. The ID is left empty
// for the repository to assign.
func NewTask(title string, due time.Time, owner string) *Task {
	now := time.Now().UTC()
	return &Task{
		Title:     title,
		DueDate:   DateOf(due),
		Category:  CategoryPersonal,
		Priority:  PriorityMedium,
		Status:    StatusTodo,
		CreatedBy: owner,
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ActivityForTransition maps a status change to the history entry it should
// record. Moving to in-progress records "started", to completed records
// "completed", back to todo records "reopened".
func ActivityForTransition(from, to TaskStatus) (ActivityKind, bool) {
	if from == to {
		return "", false
	}
	switch to {
	case StatusInProgress:
		return ActivityStarted, true
	case StatusCompleted:
		return ActivityCompleted, true
	case StatusTodo:
		return ActivityReopened, true
	}
	return "", false
}
