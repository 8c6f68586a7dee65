package media

import "context"

// Uploader moves a locally staged file to media storage.
type Uploader interface {
	// Upload returns the public URL of the stored object. The local file is
	// removed whether or not the upload succeeds.
	Upload(ctx context.Context, localPath string) (string, error)

	// Remove deletes an object previously returned by Upload.
	Remove(ctx context.Context, url string) error
}
