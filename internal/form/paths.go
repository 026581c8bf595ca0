package form

import "fmt"

// PagePath is the route of one page of an application.
func PagePath(applicationID, task, page string) string {
	return fmt.Sprintf("/applications/%s/tasks/%s/pages/%s", applicationID, task, page)
}

// TaskListPath is the route of an application's task list.
func TaskListPath(applicationID string) string {
	return fmt.Sprintf("/applications/%s", applicationID)
}

// ConfirmationPath is where a request for more information lands.
func ConfirmationPath(applicationID string) string {
	return fmt.Sprintf("/applications/%s/information-request/confirmation", applicationID)
}

// SubmittedPath is the read-only view of a submitted application.
func SubmittedPath(applicationID string) string {
	return fmt.Sprintf("/applications/%s/submitted", applicationID)
}
