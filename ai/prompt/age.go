package prompt

import "time"

// Age derives the user's age from an ISO calendar date ("2006-01-02").
// The second return value is false when the date is absent or does not
// parse; callers then omit the age clause entirely.
func Age(birthDate string, now time.Time) (int, bool) {
	if birthDate == "" {
		return 0, false
	}
	birth, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0, false
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}
