package ldap

import "time"

// GeneralizedTime layout used for directory timestamps (RFC 4517
// Section 3.3.13), e.g. "20260218103000Z".
const generalizedTimeLayout = "20060102150405Z"

// Now returns the current UTC time in GeneralizedTime form. This is the
// value stamped into createTimestamp and modifyTimestamp.
func Now() string {
	return FormatTime(time.Now())
}

// FormatTime formats a time.Time as a GeneralizedTime string.
func FormatTime(t time.Time) string {
	return t.UTC().Format(generalizedTimeLayout)
}

// ParseTime parses a GeneralizedTime string. Returns the zero time if
// parsing fails.
func ParseTime(s string) time.Time {
	t, err := time.Parse(generalizedTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
