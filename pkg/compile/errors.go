package compile

// ResourceError reports an underlying filesystem failure while reading
// the input or writing an artifact. A failure partway through a run may
// leave earlier artifacts written; nothing is retracted.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return "cannot " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
