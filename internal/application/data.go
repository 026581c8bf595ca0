package application

import "sort"

// Body is the validated output of one page, as stored in Data. It stays
// weakly typed because it is the persisted wire shape.
type Body = map[string]any

// Data is the nested task slug → page slug → body store. A page counts as
// completed iff its key is present; an empty task object is legal and
// distinct from an absent task key.
type Data map[string]map[string]Body

// Get returns the stored body for a page and whether it exists.
func (d Data) Get(task, page string) (Body, bool) {
	pages, ok := d[task]
	if !ok {
		return nil, false
	}
	body, ok := pages[page]
	return body, ok
}

// Set stores a page body, creating the task entry when missing.
func (d Data) Set(task, page string, body Body) {
	pages, ok := d[task]
	if !ok || pages == nil {
		pages = map[string]Body{}
		d[task] = pages
	}
	if body == nil {
		body = Body{}
	}
	pages[page] = body
}

// Remove drops every page recorded under a task.
func (d Data) Remove(task string) {
	delete(d, task)
}

// HasTask reports whether the task key is present at all, even if empty.
func (d Data) HasTask(task string) bool {
	_, ok := d[task]
	return ok
}

// PageCount returns the number of pages recorded under a task.
func (d Data) PageCount(task string) int {
	return len(d[task])
}

// Tasks returns the recorded task slugs, sorted. Iteration order of the
// map carries no meaning.
func (d Data) Tasks() []string {
	tasks := make([]string, 0, len(d))
	for t := range d {
		tasks = append(tasks, t)
	}
	sort.Strings(tasks)
	return tasks
}

// Clone returns a deep copy of the task and page maps. Bodies are shared;
// pages never mutate a stored body in place.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for task, pages := range d {
		cp := make(map[string]Body, len(pages))
		for page, body := range pages {
			cp[page] = body
		}
		out[task] = cp
	}
	return out
}
