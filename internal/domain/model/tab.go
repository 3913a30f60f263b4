package model

// Tab selects which partition the driver page shows.
type Tab string

const (
	TabPending  Tab = "pending"
	TabAccepted Tab = "accepted"
)

// ParseTab converts a raw value into a Tab.
func ParseTab(raw string) (Tab, bool) {
	switch Tab(raw) {
	case TabPending:
		return TabPending, true
	case TabAccepted:
		return TabAccepted, true
	default:
		return "", false
	}
}
