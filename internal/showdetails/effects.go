package showdetails

// Effect is a one-shot notification, distinct from persisted state: it is
// delivered at most once per subscriber and never replayed to late ones.
type Effect interface {
	isEffect()
}

// ShowErrorEffect asks the UI to surface a failed operation.
type ShowErrorEffect struct {
	Err error
}

// ClearErrorEffect asks the UI to dismiss the currently shown error.
type ClearErrorEffect struct{}

func (ShowErrorEffect) isEffect()  {}
func (ClearErrorEffect) isEffect() {}
