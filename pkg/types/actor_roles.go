package types

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// ActorRoleOwner represents the hatchery owner with unrestricted access
	// inside the hatchery.
	ActorRoleOwner = "owner"
	// ActorRoleManager represents senior staff who supervise multiple farms.
	ActorRoleManager = "manager"
	// ActorRoleTechnician represents lab/field technicians recording activity.
	ActorRoleTechnician = "technician"
	// ActorRoleWorker represents general farm workers limited to granted farms.
	ActorRoleWorker = "worker"
)

// StaffRoles lists the assignable roles in seniority order.
func StaffRoles() []string {
	return []string{ActorRoleOwner, ActorRoleManager, ActorRoleTechnician, ActorRoleWorker}
}

// KnownStaffRole reports whether the role belongs to the closed set.
func KnownStaffRole(role string) bool {
	switch normalizeRole(role) {
	case ActorRoleOwner, ActorRoleManager, ActorRoleTechnician, ActorRoleWorker:
		return true
	}
	return false
}

// ActorRef identifies who is initiating a command or query.
type ActorRef struct {
	ID   uuid.UUID
	Type string
}

// RoleName normalizes the actor role for comparisons.
func (a ActorRef) RoleName() string {
	return normalizeRole(a.Type)
}

// IsRole reports whether the actor matches the provided role.
func (a ActorRef) IsRole(role string) bool {
	role = normalizeRole(role)
	if role == "" {
		return a.RoleName() == ""
	}
	return a.RoleName() == role
}

// IsOwner reports whether the actor owns the hatchery.
func (a ActorRef) IsOwner() bool {
	return a.IsRole(ActorRoleOwner)
}

// IsManager reports whether the actor is a farm manager.
func (a ActorRef) IsManager() bool {
	return a.IsRole(ActorRoleManager)
}

// CanManageStaff reports whether the actor may provision staff and edit farm
// grants. Only owners administer staff; managers supervise operations only.
func (a ActorRef) CanManageStaff() bool {
	return a.IsOwner()
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
