package model

// LaunchKind tags how an offerwall is presented.
type LaunchKind string

const (
	// LaunchURL is rendered inside the embedded frame.
	LaunchURL LaunchKind = "url"
	// LaunchSideEffect is opened by the client in a separate window.
	LaunchSideEffect LaunchKind = "sideEffect"
)

// Offerwall describes a third-party task provider.
type Offerwall struct {
	ID          string
	Name        string
	Category    string
	Description string
	Logo        string
	Badge       string
	Template    string
	Kind        LaunchKind
	// Tracked offerwalls count towards the daily click requirement.
	Tracked bool
}

// OfferwallLaunch is the tagged result of building an offerwall URL.
type OfferwallLaunch struct {
	Kind LaunchKind
	URL  string
}
