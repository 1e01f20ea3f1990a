package model

// Setting holds one configuration section and its free-form properties.
// Known sections: system, notifications, rules.
type Setting struct {
	ID         int64          `json:"id"`
	Section    string         `json:"section"`
	Properties map[string]any `json:"properties"`
}

const (
	SectionSystem        = "system"
	SectionNotifications = "notifications"
	SectionRules         = "rules"
)

// SystemRules are the lending-policy knobs from the system section.
// Zero values mean "unlimited" / "no deadline extension".
type SystemRules struct {
	MaxLoanDays  int
	MaxLoanBooks int
}

// NotificationRules govern the overdue sweep's mail fan-out.
type NotificationRules struct {
	Email       string
	LastDay     bool
	DaysAdvance int
}

// UpdateSettingsReq maps section name to its replacement properties.
type UpdateSettingsReq map[string]map[string]any
