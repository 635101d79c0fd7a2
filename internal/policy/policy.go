// Package policy holds the pure authorization decisions. Every function is
// side-effect free and fails closed: unknown roles and zero values deny.
package policy

import "metalya/internal/entity"

func isAdmin(role entity.UserRole) bool {
	return role == entity.RoleAdmin || role == entity.RoleSuperAdmin
}

func isStaff(role entity.UserRole) bool {
	return role == entity.RoleRedacteur || isAdmin(role)
}

// CanChangePostStatus: moving a post into or out of any status is reserved
// to ADMIN and SUPER_ADMIN. Authors submit/withdraw through
// CanSubmitForReview instead.
func CanChangePostStatus(role entity.UserRole) bool {
	return isAdmin(role)
}

// CanSubmitForReview covers the author-driven DRAFT<->PENDING transitions
// on their own post.
func CanSubmitForReview(role entity.UserRole, isAuthor bool) bool {
	if role == "" {
		return false
	}
	return isAuthor || isAdmin(role)
}

// CanDeletePost: authors may remove their own work while it is not
// published; once published only an admin can take it down.
func CanDeletePost(role entity.UserRole, isAuthor bool, status entity.PostStatus) bool {
	if isAdmin(role) {
		return true
	}
	if status == entity.StatusPublished {
		return false
	}
	return isAuthor
}

func CanDeleteComment(role entity.UserRole) bool {
	return isAdmin(role)
}

// CanComment: any authenticated user.
func CanComment(role entity.UserRole) bool {
	return role != ""
}

func CanEditProfile(callerID, targetID string) bool {
	return callerID != "" && callerID == targetID
}

func CanChangeRole(role entity.UserRole) bool {
	return role == entity.RoleSuperAdmin
}

// CanSendBlast: ADMIN is the newsletter-sending role; SUPER_ADMIN inherits
// it through the privilege order. REDACTEUR does not.
func CanSendBlast(role entity.UserRole) bool {
	return isAdmin(role)
}

// CanAccessCampaign gates viewing/editing an admin newsletter campaign
// draft. A SENT campaign is immutable and closed to everyone.
func CanAccessCampaign(role entity.UserRole, isAuthor bool, status entity.NewsletterStatus) bool {
	if status == entity.NewsletterSent {
		return false
	}
	return isAuthor || isAdmin(role)
}

func CanViewAdminArea(role entity.UserRole) bool {
	return isStaff(role)
}
