// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the feedback board's core types: feedback items,
// comments, the closed category and status sets, and the error taxonomy
// shared by the store, query and handler layers.
package models

import (
	"strings"
	"time"
)

// Category classifies a feedback item. The set is closed.
type Category string

const (
	CategoryFeature Category = "Feature"
	CategoryBug     Category = "Bug"
	CategoryUI      Category = "UI"
	CategoryOther   Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryFeature, CategoryBug, CategoryUI, CategoryOther}

// Valid reports whether c is a member of the category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input to a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", Invalidf("Invalid category provided. Allowed categories: %s", joinCategories())
	}
	return c, nil
}

// Status is the workflow label of a feedback item. Any status may move to
// any other status, including itself.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusOpen, StatusPlanned, StatusInProgress, StatusDone}

// Valid reports whether s is a member of the status set.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", Invalidf("Invalid or missing status provided. Allowed statuses: %s", JoinStatuses())
	}
	return st, nil
}

// JoinStatuses renders the status set as a comma separated list.
func JoinStatuses() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func joinCategories() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Feedback is a single user-submitted suggestion, bug report or request.
// Only Status and Upvotes change after creation.
type Feedback struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	Upvotes     int       `json:"upvotes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewFeedback carries the caller-supplied fields of a feedback item.
type NewFeedback struct {
	Title       string
	Description string
	Category    Category
}

// Normalize trims surrounding whitespace and checks that every field is
// present and the category is a member of the closed set.
func (n *NewFeedback) Normalize() error {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	if n.Title == "" || n.Description == "" || n.Category == "" {
		return Invalidf("Title, description, and category are required.")
	}
	if !n.Category.Valid() {
		_, err := ParseCategory(string(n.Category))
		return err
	}
	return nil
}
