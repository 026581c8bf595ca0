package form

import (
	"errors"
	"fmt"
)

// Task is a named, ordered group of pages. Its slug is unique in a form.
type Task struct {
	Slug  string
	Title string
	Pages []Descriptor
}

// FirstPage returns the slug of the task's entry page.
func (t Task) FirstPage() string {
	if len(t.Pages) == 0 {
		return ""
	}
	return t.Pages[0].Slug
}

// Section is a named, ordered group of tasks.
type Section struct {
	Title string
	Tasks []Task
}

// TaskRef is a task together with its position in the form.
type TaskRef struct {
	Task
	Section      string
	SectionIndex int
	Index        int
}

type pageKey struct {
	task string
	page string
}

// Definition is the static, read-only section → task → page graph of one
// form. The final section's final task is the review task. A Definition
// is safe for concurrent reads.
type Definition struct {
	Name     string
	Sections []Section

	tasks  []TaskRef
	byTask map[string]int
	pages  map[pageKey]Descriptor
}

// Define builds a Definition and indexes it. It rejects empty forms,
// duplicate task slugs, duplicate page slugs within a task and pages
// without a constructor.
func Define(name string, sections ...Section) (*Definition, error) {
	d := &Definition{
		Name:     name,
		Sections: sections,
		byTask:   map[string]int{},
		pages:    map[pageKey]Descriptor{},
	}

	for si, section := range sections {
		for _, task := range section.Tasks {
			if _, dup := d.byTask[task.Slug]; dup {
				return nil, fmt.Errorf("%s form: duplicate task %q", name, task.Slug)
			}
			if len(task.Pages) == 0 {
				return nil, fmt.Errorf("%s form: task %q has no pages", name, task.Slug)
			}
			d.byTask[task.Slug] = len(d.tasks)
			d.tasks = append(d.tasks, TaskRef{
				Task:         task,
				Section:      section.Title,
				SectionIndex: si,
				Index:        len(d.tasks),
			})
			for _, page := range task.Pages {
				key := pageKey{task.Slug, page.Slug}
				if _, dup := d.pages[key]; dup {
					return nil, fmt.Errorf("%s form: duplicate page %q in task %q", name, page.Slug, task.Slug)
				}
				if page.New == nil {
					return nil, fmt.Errorf("%s form: page %s/%s has no constructor", name, task.Slug, page.Slug)
				}
				d.pages[key] = page
			}
		}
	}

	if len(d.tasks) == 0 {
		return nil, fmt.Errorf("%s form: no tasks declared", name)
	}
	return d, nil
}

// MustDefine is Define for package-level form tables.
func MustDefine(name string, sections ...Section) *Definition {
	d, err := Define(name, sections...)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup resolves a page descriptor or fails with *UnknownPageError.
func (d *Definition) Lookup(task, page string) (Descriptor, error) {
	desc, ok := d.pages[pageKey{task, page}]
	if !ok {
		return Descriptor{}, &UnknownPageError{Form: d.Name, Task: task, Page: page}
	}
	return desc, nil
}

// Task resolves a task by slug or fails with *UnknownPageError.
func (d *Definition) Task(slug string) (TaskRef, error) {
	i, ok := d.byTask[slug]
	if !ok {
		return TaskRef{}, &UnknownPageError{Form: d.Name, Task: slug}
	}
	return d.tasks[i], nil
}

// Tasks returns every task in document order.
func (d *Definition) Tasks() []TaskRef {
	out := make([]TaskRef, len(d.tasks))
	copy(out, d.tasks)
	return out
}

// ReviewTask is the last declared task: the terminal check-your-answers step.
func (d *Definition) ReviewTask() TaskRef {
	return d.tasks[len(d.tasks)-1]
}

// IsReviewTask reports whether slug names the terminal review task.
func (d *Definition) IsReviewTask(slug string) bool {
	return d.ReviewTask().Slug == slug
}

// PreviousTask returns the task declared immediately before slug, across
// section boundaries. The first task has none.
func (d *Definition) PreviousTask(slug string) (TaskRef, bool) {
	i, ok := d.byTask[slug]
	if !ok || i == 0 {
		return TaskRef{}, false
	}
	return d.tasks[i-1], true
}

// CheckLinks verifies every declared Links target exists within the same
// task. It reports every dangling link, not just the first.
func (d *Definition) CheckLinks() error {
	var errs []error
	for _, ref := range d.tasks {
		for _, page := range ref.Pages {
			for _, link := range page.Links {
				if link == "" {
					continue
				}
				if _, ok := d.pages[pageKey{ref.Slug, link}]; !ok {
					errs = append(errs, fmt.Errorf("%s/%s links to missing page %q", ref.Slug, page.Slug, link))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// HasLink reports whether target is "" or one of the page's declared links.
func (desc Descriptor) HasLink(target string) bool {
	if target == "" {
		return true
	}
	for _, l := range desc.Links {
		if l == target {
			return true
		}
	}
	return false
}
