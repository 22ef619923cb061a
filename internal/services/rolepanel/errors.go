package rolepanel

import "errors"

// Define errors
var (
	// ErrPanelNotFound is returned for unknown panel IDs
	ErrPanelNotFound = errors.New("role panel not found")

	// ErrPanelFull is returned when a panel already carries the maximum
	// number of roles
	ErrPanelFull = errors.New("role panel is full")

	// ErrRoleAlreadyOnPanel is returned when the role is already on the panel
	ErrRoleAlreadyOnPanel = errors.New("role is already on the panel")

	// ErrRoleNotOnPanel is returned when the role is not on the panel
	ErrRoleNotOnPanel = errors.New("role is not on the panel")
)
