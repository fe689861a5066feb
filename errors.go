package reveal

import "errors"

var (
	// ErrDecode reports that an image source could not produce pixel data.
	// The session is left untouched; choosing another source is up to the
	// caller.
	ErrDecode = errors.New("reveal: cannot decode image")

	// ErrSurfaceUnavailable reports that the output surface or colour
	// source cannot be drawn to. The load is aborted and the previous
	// session state is kept.
	ErrSurfaceUnavailable = errors.New("reveal: surface unavailable")

	// ErrNoImage is returned when loading a nil or empty image.
	ErrNoImage = errors.New("reveal: no image")
)
