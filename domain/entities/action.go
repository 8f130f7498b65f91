package entities

// ActionType represents the type of action a scenario step performs
type ActionType string

const (
	ActionNavigate         ActionType = "navigate"
	ActionClick            ActionType = "click"
	ActionJSClick          ActionType = "js_click"
	ActionWaitAndClick     ActionType = "wait_click"
	ActionTypeText         ActionType = "type"
	ActionAppendText       ActionType = "append"
	ActionSelectValue      ActionType = "select_value"
	ActionSelectText       ActionType = "select_text"
	ActionSelectIndex      ActionType = "select_index"
	ActionHover            ActionType = "hover"
	ActionDragAndDrop      ActionType = "drag"
	ActionPressKeys        ActionType = "press"
	ActionMoveByOffset     ActionType = "move"
	ActionScroll           ActionType = "scroll"
	ActionUpload           ActionType = "upload"
	ActionDropFile         ActionType = "drop_file"
	ActionWaitVisible      ActionType = "wait_visible"
	ActionWaitInvisible    ActionType = "wait_invisible"
	ActionWaitClickable    ActionType = "wait_clickable"
	ActionWaitAlert        ActionType = "wait_alert"
	ActionAcceptAlert      ActionType = "accept_alert"
	ActionDismissAlert     ActionType = "dismiss_alert"
	ActionSwitchWindow     ActionType = "switch_window"
	ActionCloseWindow      ActionType = "close_window"
	ActionScreenshot       ActionType = "screenshot"
	ActionAssertText       ActionType = "assert_text"
	ActionStoreCoordinates ActionType = "store_coordinates"
	ActionClickCoordinates ActionType = "click_coordinates"
	ActionSleep            ActionType = "sleep"
)

// Action represents a single step of a scenario file
type Action struct {
	Type        ActionType `json:"type"`
	Locator     *Locator   `json:"locator,omitempty"`
	Target      *Locator   `json:"target,omitempty"`
	Text        string     `json:"text,omitempty"`
	URL         string     `json:"url,omitempty"`
	File        string     `json:"file,omitempty"`
	Keys        []Key      `json:"keys,omitempty"`
	Index       int        `json:"index,omitempty"`
	X           int        `json:"x,omitempty"`
	Y           int        `json:"y,omitempty"`
	// Timeout is in milliseconds; 0 uses the configured default
	Timeout     int        `json:"timeout,omitempty"`
	Description string     `json:"description"`
}

// Name returns the label used for logs and report steps
func (a Action) Name() string {
	if a.Description != "" {
		return a.Description
	}
	return string(a.Type)
}

// ActionResult represents the result of an action
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
