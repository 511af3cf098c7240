package services

import "github.com/avatarctic/realestate-crm/internal/core/domain/user"

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

func normalizePage(skip, limit int) user.ListParams {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return user.ListParams{Skip: skip, Limit: limit}
}
