package domain

// URLEquivalence reports whether two URLs point at the same page.
type URLEquivalence func(a, b string) bool

type TargetChangeReason string

const (
	TargetChangeNone         TargetChangeReason = "none"
	TargetChangeAppRefreshed TargetChangeReason = "app_refreshed"
	TargetChangeTabChanged   TargetChangeReason = "tab_changed"
	TargetChangeURLChanged   TargetChangeReason = "url_changed"
)

// ShouldWarnOfTargetChange decides whether the user must confirm before the
// assessment recorded on previous continues on current. A nil or empty
// previous means no assessment is running.
func ShouldWarnOfTargetChange(previous *PersistedTab, current Tab, urlsEqual URLEquivalence) bool {
	return ClassifyTargetChange(previous, current, urlsEqual) != TargetChangeNone
}

// ClassifyTargetChange applies the same rule as ShouldWarnOfTargetChange and
// reports which signal fired first. A refresh wins over identity and url.
func ClassifyTargetChange(previous *PersistedTab, current Tab, urlsEqual URLEquivalence) TargetChangeReason {
	if previous.IsEmpty() {
		return TargetChangeNone
	}

	if previous.AppRefreshed {
		return TargetChangeAppRefreshed
	}

	if previous.ID != current.ID {
		return TargetChangeTabChanged
	}

	if previous.URL != "" && !equivalent(urlsEqual, previous.URL, current.URL) {
		return TargetChangeURLChanged
	}

	return TargetChangeNone
}

func equivalent(urlsEqual URLEquivalence, a, b string) bool {
	if urlsEqual == nil {
		return a == b
	}

	return urlsEqual(a, b)
}
