package service

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storedNamePattern = regexp.MustCompile(`^property-\d{13}-[0-9a-f]{20}(\.[a-z]+)?$`)

func TestStorageNamerFormat(t *testing.T) {
	namer := NewStorageNamer()

	tests := []struct {
		original string
		wantExt  string
	}{
		{"living-room.JPG", ".jpg"},
		{"plan.png", ".png"},
		{"../../etc/passwd.webp", ".webp"},
		{`..\..\windows\evil.GIF`, ".gif"},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			name, err := namer.Name(tt.original)
			require.NoError(t, err)

			assert.Regexp(t, storedNamePattern, name)
			assert.True(t, strings.HasSuffix(name, tt.wantExt) || tt.wantExt == "")
			assert.NotContains(t, name, "/")
			assert.NotContains(t, name, `\`)
			assert.NotContains(t, name, "..")
		})
	}
}

func TestStorageNamerTimestamp(t *testing.T) {
	fixed := time.UnixMilli(1700000000123)
	namer := NewStorageNamer()
	namer.now = func() time.Time { return fixed }

	name, err := namer.Name("a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "property-1700000000123-"), name)
}

func TestStorageNamerUniqueUnderConcurrency(t *testing.T) {
	namer := NewStorageNamer()
	// Same millisecond for every call, so only the random part can differ
	fixed := time.Now()
	namer.now = func() time.Time { return fixed }

	const n = 1000
	names := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := namer.Name("photo.jpeg")
			if err == nil {
				names[i] = name
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, name := range names {
		require.NotEmpty(t, name)
		_, dup := seen[name]
		require.False(t, dup, "duplicate stored name %s", name)
		seen[name] = struct{}{}
	}
}
