package trim

import "github.com/pkg/errors"

var (
	// ErrEmptySelection is returned by Commit when no point of the model
	// falls inside the box. The model is left untouched.
	ErrEmptySelection = errors.New("selection contains no points")

	// ErrNotReady is returned when Show or Commit is called before a
	// point cloud is attached.
	ErrNotReady = errors.New("no point cloud loaded")
)
