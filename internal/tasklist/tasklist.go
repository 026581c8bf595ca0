// Package tasklist derives task and section progress for an application
// from its recorded answers and the form graph.
package tasklist

import (
	"fmt"

	"github.com/HendryAvila/apply-wizard/internal/application"
	"github.com/HendryAvila/apply-wizard/internal/form"
)

// Status is the progress of one task.
type Status string

const (
	StatusCannotStartYet Status = "cannot_start"
	StatusNotStarted     Status = "not_started"
	StatusCompleted      Status = "completed"
)

// Label is the human text shown next to a task.
func (s Status) Label() string {
	switch s {
	case StatusCannotStartYet:
		return "Cannot start yet"
	case StatusNotStarted:
		return "Not started"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// IsCompleted reports whether any page of the task has been saved. An
// empty task object does not count.
func IsCompleted(data application.Data, task string) bool {
	return data.PageCount(task) > 0
}

// TaskStatus computes the status of one task. The first task of the form
// can always be started; every other task needs its predecessor done.
func TaskStatus(def *form.Definition, data application.Data, task string) (Status, error) {
	if _, err := def.Task(task); err != nil {
		return "", err
	}
	if IsCompleted(data, task) {
		return StatusCompleted, nil
	}
	prev, ok := def.PreviousTask(task)
	if !ok || IsCompleted(data, prev.Slug) {
		return StatusNotStarted, nil
	}
	return StatusCannotStartYet, nil
}

// Task is one row of the task list.
type Task struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Status    Status `json:"status"`
	FirstPage string `json:"firstPage"`
}

// Section is one group of the task list.
type Section struct {
	Title     string `json:"title"`
	Tasks     []Task `json:"tasks"`
	Completed bool   `json:"completed"`
}

// List is the whole task list for an application.
type List struct {
	Sections          []Section `json:"sections"`
	CompletedSections int       `json:"completedSections"`
	TotalSections     int       `json:"totalSections"`
}

// Build computes every task status and the section completion count.
func Build(def *form.Definition, data application.Data) List {
	list := List{TotalSections: len(def.Sections)}
	for _, section := range def.Sections {
		out := Section{Title: section.Title, Completed: true}
		for _, task := range section.Tasks {
			// Tasks come from def itself, so lookup cannot fail.
			status, _ := TaskStatus(def, data, task.Slug)
			if status != StatusCompleted {
				out.Completed = false
			}
			out.Tasks = append(out.Tasks, Task{
				Slug:      task.Slug,
				Title:     task.Title,
				Status:    status,
				FirstPage: task.FirstPage(),
			})
		}
		if out.Completed {
			list.CompletedSections++
		}
		list.Sections = append(list.Sections, out)
	}
	return list
}

// Summary renders "You have completed 2 of 5 sections".
func (l List) Summary() string {
	return fmt.Sprintf("You have completed %d of %d sections", l.CompletedSections, l.TotalSections)
}

// ReadyForReview reports whether every task before the review task is
// completed.
func ReadyForReview(def *form.Definition, data application.Data) bool {
	review := def.ReviewTask().Slug
	for _, ref := range def.Tasks() {
		if ref.Slug != review && !IsCompleted(data, ref.Slug) {
			return false
		}
	}
	return true
}
