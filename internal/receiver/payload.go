package receiver

import (
	"errors"

	"sentry_telegram/internal/model"
)

type projectPayload struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Team string `json:"team"`
}

type groupPayload struct {
	ID           int64  `json:"id"`
	Culprit      string `json:"culprit"`
	URL          string `json:"url"`
	Organization string `json:"organization"`
}

type eventPayload struct {
	Message string      `json:"message"`
	Tags    [][2]string `json:"tags"`
}

type rulePayload struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// notificationPayload is the JSON body accepted by POST /notify.
type notificationPayload struct {
	Project projectPayload `json:"project"`
	Group   groupPayload   `json:"group"`
	Event   eventPayload   `json:"event"`
	Rules   []rulePayload  `json:"rules"`
}

func (p *notificationPayload) toModel() (*model.Notification, error) {
	if p.Project.Slug == "" {
		return nil, errors.New("project.slug is required")
	}

	tags := make([]model.Tag, 0, len(p.Event.Tags))
	for _, t := range p.Event.Tags {
		tags = append(tags, model.Tag{Key: t[0], Value: t[1]})
	}
	rules := make([]model.Rule, 0, len(p.Rules))
	for _, r := range p.Rules {
		rules = append(rules, model.Rule{ID: r.ID, Label: r.Label})
	}

	return &model.Notification{
		Event: model.Event{
			Message: p.Event.Message,
			Tags:    tags,
			Group: model.Group{
				ID:           p.Group.ID,
				Culprit:      p.Group.Culprit,
				URL:          p.Group.URL,
				Organization: p.Group.Organization,
			},
			Project: model.Project{
				Slug: p.Project.Slug,
				Name: p.Project.Name,
				Team: p.Project.Team,
			},
		},
		Rules: rules,
	}, nil
}

type notifyResponse struct {
	Sent bool `json:"sent"`
	OK   bool `json:"ok"`
}

type labelValuePayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// labelsPayload is the JSON body accepted by PUT /projects/{slug}/labels.
type labelsPayload struct {
	Keys   map[string]string   `json:"keys"`
	Values []labelValuePayload `json:"values"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}
