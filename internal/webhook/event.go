package webhook

import (
	"encoding/json"
	"fmt"
)

// Trigger is the distilled form of a webhook event that can start a run.
type Trigger struct {
	Owner       string
	Repo        string
	Number      int
	IsPR        bool
	CommentBody string
	Actor       string
}

type eventPayload struct {
	Action     string `json:"action"`
	Repository struct {
		FullName string `json:"full_name"`
		Owner    struct {
			Login string `json:"login"`
		} `json:"owner"`
		Name string `json:"name"`
	} `json:"repository"`
	Sender struct {
		Login string `json:"login"`
	} `json:"sender"`
	Issue struct {
		Number      int `json:"number"`
		PullRequest *struct {
		} `json:"pull_request"`
	} `json:"issue"`
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// ParseTrigger parses an issue_comment event payload. Both dialects ship the
// same shape for this event. Non-comment events and non-created actions return
// a nil Trigger.
func ParseTrigger(eventType string, payload []byte) (*Trigger, error) {
	if eventType != "issue_comment" {
		return nil, nil
	}

	var event eventPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if event.Action != "created" {
		return nil, nil
	}
	if event.Repository.Owner.Login == "" || event.Repository.Name == "" {
		return nil, fmt.Errorf("payload missing repository identity")
	}

	return &Trigger{
		Owner:       event.Repository.Owner.Login,
		Repo:        event.Repository.Name,
		Number:      event.Issue.Number,
		IsPR:        event.Issue.PullRequest != nil,
		CommentBody: event.Comment.Body,
		Actor:       event.Sender.Login,
	}, nil
}
