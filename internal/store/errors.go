package store

// ValidationError is a user-facing rejection of a mutation. The collection is
// left unchanged whenever one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation failures, matched with errors.Is.
var (
	ErrTitleRequired  = &ValidationError{Msg: "Title is required"}
	ErrDuplicateTitle = &ValidationError{Msg: "Duplicate title"}
	ErrInvalidRating  = &ValidationError{Msg: "Invalid rating"}
	ErrInvalidStatus  = &ValidationError{Msg: "Invalid status"}
)

// Notifier receives the user-facing message of every rejected mutation.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }
