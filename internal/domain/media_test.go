package domain

import "testing"

func TestIsAllowedExtension(t *testing.T) {
	tests := []struct {
		name string
		file string
		want bool
	}{
		{name: "lowercase jpg", file: "house.jpg", want: true},
		{name: "uppercase JPEG", file: "HOUSE.JPEG", want: true},
		{name: "mixed case png", file: "plan.PnG", want: true},
		{name: "gif", file: "loop.gif", want: true},
		{name: "webp", file: "front.webp", want: true},
		{name: "executable", file: "setup.exe", want: false},
		{name: "double extension", file: "photo.jpg.exe", want: false},
		{name: "no extension", file: "photo", want: false},
		{name: "svg is not allowed", file: "logo.svg", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllowedExtension(Extension(tt.file)); got != tt.want {
				t.Errorf("IsAllowedExtension(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestIsAllowedMimeType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/jpg", true},
		{"IMAGE/PNG", true},
		{"image/webp; charset=binary", true},
		{"image/gif", true},
		{"image/svg+xml", false},
		{"application/octet-stream", false},
		{"application/x-msdownload", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAllowedMimeType(tt.contentType); got != tt.want {
			t.Errorf("IsAllowedMimeType(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestUploadErrorStatus(t *testing.T) {
	clientErrs := []*UploadError{
		NewNoFileProvided(),
		NewInvalidFileType("a.exe", "application/x-msdownload"),
		NewSizeExceeded(10),
		NewBatchCountExceeded(11, MaxBatchFiles),
	}
	for _, e := range clientErrs {
		if e.HTTPStatus() != 400 {
			t.Errorf("%s: status = %d, want 400", e.Kind, e.HTTPStatus())
		}
	}

	if got := NewWriteFailure(ErrNotFound).HTTPStatus(); got != 500 {
		t.Errorf("write failure status = %d, want 500", got)
	}
}

func TestPartStateTerminal(t *testing.T) {
	terminal := map[PartState]bool{
		StateReceived:    false,
		StateValidating:  false,
		StateAccepted:    false,
		StateWriting:     false,
		StateRejected:    true,
		StateStored:      true,
		StateWriteFailed: true,
	}
	for state, want := range terminal {
		if state.Terminal() != want {
			t.Errorf("%s.Terminal() = %v, want %v", state, !want, want)
		}
	}
}
