package email

const (
	subjectRepairAssignedFmt       = "New repair order #%s: %s"
	subjectRepairAssignedUrgentFmt = "URGENT repair order #%s: %s"
)
