// Package model defines the domain types used across the application.
package model

import "strings"

// Tag is a single event tag. It is comparable so it can key label maps.
type Tag struct {
	Key   string
	Value string
}

// Project is the monitored project an event belongs to.
type Project struct {
	Slug string
	Name string
	Team string
}

// FullName returns the team-qualified project name, without repeating the
// team when the project name already contains it.
func (p Project) FullName() string {
	if p.Team == "" || strings.Contains(p.Name, p.Team) {
		return p.Name
	}
	return p.Team + " " + p.Name
}

// Group is the issue an event was grouped into.
type Group struct {
	ID           int64
	Culprit      string
	URL          string
	Organization string
}

// Event is a single error event reported by the monitoring platform.
type Event struct {
	Message string
	Tags    []Tag
	Group   Group
	Project Project
}

// Tag returns the value of the first tag with the given key, or "".
func (e *Event) Tag(key string) string {
	for _, t := range e.Tags {
		if t.Key == key {
			return t.Value
		}
	}
	return ""
}

// Rule is an alert rule that triggered a notification.
type Rule struct {
	ID    int64
	Label string
}

// Notification is the unit of work handed over by the host.
type Notification struct {
	Event Event
	Rules []Rule
}
