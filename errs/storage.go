package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Object-storage specific errors
var (
	ErrBucketMissing = errors.New("storage bucket does not exist")
	ErrUploadFailed  = errors.New("image upload failed")
	ErrObjectDelete  = errors.New("object delete failed")
)

// NewBucketMissingError reports that the backing bucket is absent. Kept
// distinct from generic upload failures so the frontend can show setup
// instructions instead of a generic error message.
func NewBucketMissingError(bucket string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrBucketMissing,
		Details:    fmt.Sprintf("Bucket %q does not exist; create it in the storage console before uploading images", bucket),
		Field:      "bucket",
		Cause:      cause,
	}
}

func NewUploadError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUploadFailed,
		Details:    "Failed to write image to object storage",
		Cause:      cause,
	}
}

func NewObjectDeleteError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrObjectDelete,
		Details:    fmt.Sprintf("Failed to delete object %q", key),
		Cause:      cause,
	}
}

func IsBucketMissing(err error) bool {
	return errors.Is(err, ErrBucketMissing)
}

func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}
