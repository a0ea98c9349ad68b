// Package view holds the navigation state of a workspace.
package view

import "strings"

// Tab is a screen of the application.
type Tab string

const (
	TabOnboarding Tab = "ONBOARDING"
	TabFridge     Tab = "FRIDGE"
	TabRecipes    Tab = "RECIPES"
	TabPlanner    Tab = "PLANNER"
	TabChat       Tab = "CHAT"
)

var tabs = []Tab{TabOnboarding, TabFridge, TabRecipes, TabPlanner, TabChat}

// ParseTab resolves a tab name case-insensitively. Unknown names fall back
// to the fridge.
func ParseTab(name string) (Tab, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, t := range tabs {
		if string(t) == name {
			return t, true
		}
	}
	return TabFridge, false
}

// InitialTab opens onboarding until preferences have at least one tag.
func InitialTab(hasTags bool) Tab {
	if hasTags {
		return TabFridge
	}
	return TabOnboarding
}

// PlannerStatus is the derived state of the planner screen.
type PlannerStatus string

const (
	// PlannerEmpty means there are no ingredients to plan with. It takes
	// precedence over every other status.
	PlannerEmpty   PlannerStatus = "empty"
	PlannerIdle    PlannerStatus = "idle"
	PlannerLoading PlannerStatus = "loading"
	PlannerError   PlannerStatus = "error"
	PlannerReady   PlannerStatus = "ready"
)
