package repository

const (
	defaultLimit = 25
	maxLimit     = 1000
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
