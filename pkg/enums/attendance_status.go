package enums

import "fmt"

// AttendanceStatus tracks whether an invited member attended an event.
type AttendanceStatus string

const (
	AttendanceStatusPending   AttendanceStatus = "pending"
	AttendanceStatusPresent   AttendanceStatus = "present"
	AttendanceStatusAbsent    AttendanceStatus = "absent"
	AttendanceStatusJustified AttendanceStatus = "justified"
)

var validAttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPending,
	AttendanceStatusPresent,
	AttendanceStatusAbsent,
	AttendanceStatusJustified,
}

// String implements fmt.Stringer.
func (a AttendanceStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttendanceStatus.
func (a AttendanceStatus) IsValid() bool {
	for _, candidate := range validAttendanceStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttendanceStatus converts raw input into a AttendanceStatus.
func ParseAttendanceStatus(value string) (AttendanceStatus, error) {
	for _, candidate := range validAttendanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attendance status %q", value)
}
