package service

import (
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// Check is one stage of the validation filter. It returns nil to accept.
type Check func(part domain.UploadPart) *domain.UploadError

// ValidationFilter decides accept/reject for a part before any byte reaches
// disk. It trusts the client-declared name and content type; content
// sniffing can be added as another Check without changing callers.
type ValidationFilter struct {
	maxSize int64
	checks  []Check
}

// NewValidationFilter builds the default extension, content type and declared size checks
func NewValidationFilter(maxSize int64, extra ...Check) *ValidationFilter {
	f := &ValidationFilter{maxSize: maxSize}
	f.checks = append([]Check{checkExtension, checkMimeType, f.checkDeclaredSize}, extra...)
	return f
}

// MaxSize is the per-file cap the disk writer must enforce on the stream
func (f *ValidationFilter) MaxSize() int64 {
	return f.maxSize
}

// Validate runs every check in order and returns the first rejection
func (f *ValidationFilter) Validate(part domain.UploadPart) *domain.UploadError {
	for _, check := range f.checks {
		if err := check(part); err != nil {
			return err
		}
	}
	return nil
}

func checkExtension(part domain.UploadPart) *domain.UploadError {
	if !domain.IsAllowedExtension(domain.Extension(part.OriginalName)) {
		return domain.NewInvalidFileType(part.OriginalName, part.DeclaredMimeType)
	}
	return nil
}

func checkMimeType(part domain.UploadPart) *domain.UploadError {
	if !domain.IsAllowedMimeType(part.DeclaredMimeType) {
		return domain.NewInvalidFileType(part.OriginalName, part.DeclaredMimeType)
	}
	return nil
}

// checkDeclaredSize rejects early when the transport already knows the part
// is too big. The stream is still capped while writing.
func (f *ValidationFilter) checkDeclaredSize(part domain.UploadPart) *domain.UploadError {
	if part.DeclaredSize > f.maxSize {
		return domain.NewSizeExceeded(f.maxSize)
	}
	return nil
}
