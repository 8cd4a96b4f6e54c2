package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradesync_submissions_total",
		Help: "Grade submissions by result",
	}, []string{"result"}, // "success", "unauthorized", "not_found", "invalid", "conflict", "error", "transport"
	)
)

// Outcome is the result of one grade submission attempt. Failures carry a
// human-readable reason; nothing is ever silently dropped.
type Outcome struct {
	StudentKey string
	Success    bool
	Message    string
}

// submissionBody is the Canvas grade write shape.
type submissionBody struct {
	Submission struct {
		PostedGrade string `json:"posted_grade"`
	} `json:"submission"`
}

// apiErrorBody is the Canvas 400 response shape.
type apiErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// SubmitGrade posts one grade for one student, addressed by SIS id. It
// never returns an error: every failure, transport included, becomes an
// unsuccessful Outcome so one student's problem cannot abort a batch.
func (c *Client) SubmitGrade(ctx context.Context, courseID, assignmentID, sisUserID string, value GradeValue) Outcome {
	target := fmt.Sprintf("%s/api/v1/courses/%s/assignments/%s/submissions/sis_user_id:%s",
		c.config.BaseURL, url.PathEscape(courseID), url.PathEscape(assignmentID), url.PathEscape(sisUserID))

	var body submissionBody
	body.Submission.PostedGrade = value.PostedGrade()
	payload, err := json.Marshal(body)
	if err != nil {
		// Cannot happen for this shape, but an Outcome is still owed.
		submissionsTotal.WithLabelValues("error").Inc()
		return Outcome{StudentKey: sisUserID, Message: fmt.Sprintf("encode grade: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(payload))
	if err != nil {
		submissionsTotal.WithLabelValues("error").Inc()
		return Outcome{StudentKey: sisUserID, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		submissionsTotal.WithLabelValues("transport").Inc()
		return Outcome{StudentKey: sisUserID, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		submissionsTotal.WithLabelValues("transport").Inc()
		return Outcome{StudentKey: sisUserID, Message: fmt.Sprintf("read response: %v", err)}
	}

	return c.classifySubmission(resp.StatusCode, respBody, sisUserID)
}

// classifySubmission maps a submission response status to an Outcome.
func (c *Client) classifySubmission(status int, body []byte, sisUserID string) Outcome {
	switch {
	case status >= 200 && status < 300:
		submissionsTotal.WithLabelValues("success").Inc()
		return Outcome{StudentKey: sisUserID, Success: true, Message: "ok"}

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		submissionsTotal.WithLabelValues("unauthorized").Inc()
		return Outcome{StudentKey: sisUserID,
			Message: fmt.Sprintf("not authorized (status %d): check the access token and its grading permission", status)}

	case status == http.StatusNotFound:
		submissionsTotal.WithLabelValues("not_found").Inc()
		return Outcome{StudentKey: sisUserID,
			Message: fmt.Sprintf("student or assignment not found (status %d): SIS id %q may not exist in this course", status, sisUserID)}

	case status == http.StatusBadRequest:
		submissionsTotal.WithLabelValues("invalid").Inc()
		return Outcome{StudentKey: sisUserID,
			Message: fmt.Sprintf("rejected as invalid (status %d): %s", status, validationReason(body))}

	case status == http.StatusConflict:
		submissionsTotal.WithLabelValues("conflict").Inc()
		return Outcome{StudentKey: sisUserID,
			Message: fmt.Sprintf("conflict (status %d): the grade changed remotely during this run", status)}

	default:
		submissionsTotal.WithLabelValues("error").Inc()
		return Outcome{StudentKey: sisUserID,
			Message: fmt.Sprintf("submission failed (status %d): %s", status, excerpt(body))}
	}
}

// validationReason joins the structured error messages of a Canvas 400
// body, falling back to a raw excerpt when the body is not that shape.
func validationReason(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		msgs := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return excerpt(body)
}
