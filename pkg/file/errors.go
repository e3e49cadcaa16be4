package file

import "errors"

var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidLocation = errors.New("invalid storage location")

	ErrFileNotFound       = errors.New("file not found")
	ErrIsDirectory        = errors.New("path is a directory")
	ErrFailedToOpenFile   = errors.New("failed to open file")
	ErrFailedToWriteFile  = errors.New("failed to write file")
	ErrFailedToCreateFile = errors.New("failed to create file")

	// S3-specific errors for proper error classification
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	ErrOperationTimeout  = errors.New("operation timed out")
	ErrOperationCanceled = errors.New("operation canceled")

	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
