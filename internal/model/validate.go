package model

// IsValidRating reports whether r is unrated (nil) or an integer in [1,5].
func IsValidRating(r *int) bool {
	return r == nil || (*r >= 1 && *r <= 5)
}

// IsValidStatus reports whether s is one of the known statuses.
func IsValidStatus(s Status) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}
