// Package file abstracts where the password list is read from and where
// accepted passwords are written to.
//
// Two Storage implementations are provided: LocalStorage for the local
// filesystem and S3Storage for Amazon S3 and compatible services. Both
// replace the destination atomically, so an interrupted run never leaves a
// half-written output behind.
//
// Resolver picks the implementation from the address:
//
//	r := file.NewResolver(nil, file.S3Config{Region: "eu-central-1"})
//	store, path, err := r.Resolve(ctx, "s3://audits/passwords.txt")
//	rc, err := store.Open(ctx, path)
//
// Errors wrap the sentinels in errors.go (ErrFileNotFound, ErrAccessDenied,
// ErrBucketNotFound, ...) so callers can classify them with errors.Is.
package file
