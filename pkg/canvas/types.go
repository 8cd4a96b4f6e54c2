package canvas

import (
	"context"
	"fmt"
	"net/url"
)

// perPage is the page size requested on list endpoints. Canvas caps it at
// 100; the cursor chain covers the rest.
const perPage = 100

// User is a course enrollment as returned by the list-users endpoint. The
// SIS id joins remote users to local sheet rows; it is absent for users
// the SIS never provisioned (test students, observers).
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortName  string `json:"sortable_name"`
	SISUserID string `json:"sis_user_id"`
	LoginID   string `json:"login_id"`
}

// Assignment is one gradable column of the course.
type Assignment struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	PointsPossible *float64 `json:"points_possible"`
	Published      bool     `json:"published"`
}

// Submission is one (student, assignment) grade cell. A nil Score covers
// both an ungraded submission and an explicitly null grade; either way the
// local cell is cleared rather than zeroed.
type Submission struct {
	ID            int64    `json:"id"`
	UserID        int64    `json:"user_id"`
	AssignmentID  int64    `json:"assignment_id"`
	Score         *float64 `json:"score"`
	Grade         string   `json:"grade"`
	WorkflowState string   `json:"workflow_state"`
}

// UsersURL builds the seed URL for the course roster.
func (c *Client) UsersURL(courseID string) string {
	return fmt.Sprintf("%s/api/v1/courses/%s/users?enrollment_type[]=student&per_page=%d",
		c.config.BaseURL, url.PathEscape(courseID), perPage)
}

// AssignmentsURL builds the seed URL for the course assignment list.
func (c *Client) AssignmentsURL(courseID string) string {
	return fmt.Sprintf("%s/api/v1/courses/%s/assignments?per_page=%d",
		c.config.BaseURL, url.PathEscape(courseID), perPage)
}

// SubmissionsURL builds the seed URL for one assignment's submissions.
func (c *Client) SubmissionsURL(courseID, assignmentID string) string {
	return fmt.Sprintf("%s/api/v1/courses/%s/assignments/%s/submissions?per_page=%d",
		c.config.BaseURL, url.PathEscape(courseID), url.PathEscape(assignmentID), perPage)
}

// FetchUsers pulls the full student roster for a course.
func (c *Client) FetchUsers(ctx context.Context, courseID string, onProgress ProgressFunc) ([]User, error) {
	return FetchAs[User](ctx, c, c.UsersURL(courseID), onProgress)
}

// FetchAssignments pulls all assignments for a course.
func (c *Client) FetchAssignments(ctx context.Context, courseID string, onProgress ProgressFunc) ([]Assignment, error) {
	return FetchAs[Assignment](ctx, c, c.AssignmentsURL(courseID), onProgress)
}

// FetchSubmissions pulls all submissions for one assignment.
func (c *Client) FetchSubmissions(ctx context.Context, courseID, assignmentID string, onProgress ProgressFunc) ([]Submission, error) {
	return FetchAs[Submission](ctx, c, c.SubmissionsURL(courseID, assignmentID), onProgress)
}
