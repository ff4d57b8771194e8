// Package kernel contains the types shared by every early boot package.
package kernel

// Error describes a kernel error. No allocator exists while the kernel boots,
// so errors.New and fmt.Errorf cannot be used. Instead, every error is
// declared once as a package-level pointer to an Error value and callers
// compare errors by identity.
type Error struct {
	// The module that reported the error.
	Module string

	// The error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
