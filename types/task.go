package types

import "time"

// TaskStatus is the kanban column a task sits in.
type TaskStatus string

// Supported task statuses.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// TaskPriority ranks tasks within a column.
type TaskPriority string

// Supported task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the known task priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// TaskCategory labels the kind of work a task represents.
type TaskCategory string

// Supported task categories.
const (
	TaskCategoryDesign   TaskCategory = "design"
	TaskCategoryFrontend TaskCategory = "frontend"
	TaskCategoryBackend  TaskCategory = "backend"
	TaskCategoryDocs     TaskCategory = "docs"
)

// Valid reports whether c is one of the known task categories.
func (c TaskCategory) Valid() bool {
	switch c {
	case TaskCategoryDesign, TaskCategoryFrontend, TaskCategoryBackend, TaskCategoryDocs:
		return true
	default:
		return false
	}
}

// Task represents a kanban card.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"id"`

	// Title is the short summary shown on the card.
	Title string `json:"title" db:"title"`

	// Description is optional free text; null when absent.
	Description *string `json:"description" db:"description"`

	// Status is the kanban column of the task.
	Status TaskStatus `json:"status" db:"status"`

	// Priority ranks the task.
	Priority TaskPriority `json:"priority" db:"priority"`

	// Category labels the kind of work.
	Category TaskCategory `json:"category" db:"category"`

	// AssigneeID optionally references the assignee. It is not checked
	// against the user table.
	AssigneeID *int `json:"assigneeId" db:"assignee_id"`

	// AssigneeName is the optional display name of the assignee.
	AssigneeName *string `json:"assigneeName" db:"assignee_name"`

	// AssigneeAvatar is an optional image URL for the assignee.
	AssigneeAvatar *string `json:"assigneeAvatar" db:"assignee_avatar"`

	// Progress is the completion percentage, 0 to 100.
	Progress int `json:"progress" db:"progress"`

	// CreatedAt is stamped by the store on creation and never changes.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewTask holds the caller-supplied fields for creating a task.
type NewTask struct {
	Title          string       `json:"title" yaml:"title"`
	Description    *string      `json:"description,omitempty" yaml:"description,omitempty"`
	Status         TaskStatus   `json:"status" yaml:"status"`
	Priority       TaskPriority `json:"priority" yaml:"priority"`
	Category       TaskCategory `json:"category" yaml:"category"`
	AssigneeID     *int         `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	AssigneeName   *string      `json:"assigneeName,omitempty" yaml:"assigneeName,omitempty"`
	AssigneeAvatar *string      `json:"assigneeAvatar,omitempty" yaml:"assigneeAvatar,omitempty"`
	Progress       *int         `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Build returns the task record described by n with the given identity.
func (n NewTask) Build(id int, createdAt time.Time) Task {
	task := Task{
		ID:             id,
		Title:          n.Title,
		Description:    nonEmpty(n.Description),
		Status:         n.Status,
		Priority:       n.Priority,
		Category:       n.Category,
		AssigneeID:     cloneInt(n.AssigneeID),
		AssigneeName:   nonEmpty(n.AssigneeName),
		AssigneeAvatar: nonEmpty(n.AssigneeAvatar),
		CreatedAt:      createdAt,
	}
	if n.Progress != nil {
		task.Progress = *n.Progress
	}
	return task
}

// TaskPatch lists the task fields an update may change. Nil fields are
// left untouched.
type TaskPatch struct {
	Title          *string       `json:"title,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Status         *TaskStatus   `json:"status,omitempty"`
	Priority       *TaskPriority `json:"priority,omitempty"`
	Category       *TaskCategory `json:"category,omitempty"`
	AssigneeID     *int          `json:"assigneeId,omitempty"`
	AssigneeName   *string       `json:"assigneeName,omitempty"`
	AssigneeAvatar *string       `json:"assigneeAvatar,omitempty"`
	Progress       *int          `json:"progress,omitempty"`
}

// Apply returns a copy of t with the patch fields overwritten.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = cloneString(p.Description)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.AssigneeID != nil {
		t.AssigneeID = cloneInt(p.AssigneeID)
	}
	if p.AssigneeName != nil {
		t.AssigneeName = cloneString(p.AssigneeName)
	}
	if p.AssigneeAvatar != nil {
		t.AssigneeAvatar = cloneString(p.AssigneeAvatar)
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	return t
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.Description = cloneString(t.Description)
	t.AssigneeID = cloneInt(t.AssigneeID)
	t.AssigneeName = cloneString(t.AssigneeName)
	t.AssigneeAvatar = cloneString(t.AssigneeAvatar)
	return t
}
