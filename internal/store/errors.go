// Package store implements the persistence layer for users, groups,
// memberships and dashboards on top of gorm.
package store

import "errors"

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrGroupNotFound is returned when a group does not exist.
	ErrGroupNotFound = errors.New("group not found")
	// ErrDashboardNotFound is returned when a dashboard does not exist.
	ErrDashboardNotFound = errors.New("dashboard not found")
	// ErrDuplicateEmail signals that the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateName signals a group name conflict.
	ErrDuplicateName = errors.New("group name already exists")
	// ErrAlreadyMember signals that the user already belongs to the group.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrNotMember signals that the user does not belong to the group.
	ErrNotMember = errors.New("user is not a member of this group")
)
