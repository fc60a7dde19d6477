package storage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectURL(t *testing.T) {
	u, _ := url.Parse("https://minio.local:9000")
	base := defaultBaseURL(u, "siren")
	assert.Equal(t, "https://minio.local:9000/siren", base)
	assert.Equal(t, "https://minio.local:9000/siren/cases/2023-10-27/a.png", objectURL(base, "/cases/2023-10-27/a.png"))
	assert.Equal(t, "https://cdn.example.com/cases/x.jpg", objectURL("https://cdn.example.com", "cases/x.jpg"))
}
