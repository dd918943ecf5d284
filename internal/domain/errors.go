package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidName        = errors.New("invalid repository name")
	ErrUntrustedURL       = errors.New("untrusted manifest url")
	ErrInvalidManifest    = errors.New("invalid manifest format")
	ErrOfficialRepository = errors.New("official repository cannot be deleted")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrAlreadyInstalled   = errors.New("app already installed")
)
