package util

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
)

func TestParseAbsoluteURL(t *testing.T) {
	assert := assert_.New(t)

	u, err := ParseAbsoluteURL("https://host.example.com/path/index.m3u8?a=1")
	assert.NoError(err)
	assert.Equal("host.example.com", u.Hostname())

	for _, s := range []string{
		"relative/path.ts",
		"//host.example.com/schemeless",
		"ftp://host.example.com/file",
		"https://",
	} {
		_, err := ParseAbsoluteURL(s)
		assert.ErrorIs(err, ErrNotAbsoluteURL, s)
	}

	_, err = ParseAbsoluteURL("http://[::1")
	assert.Error(err)
}

func TestHostHasSuffix(t *testing.T) {
	assert := assert_.New(t)

	u, err := ParseAbsoluteURL("https://r4---sn-abc.GoogleVideo.com:443/seg.ts")
	assert.NoError(err)
	assert.True(HostHasSuffix(u, ".googlevideo.com"))
	assert.False(HostHasSuffix(u, ".example.com"))
	assert.False(HostHasSuffix(u, ""))

	// The apex host matches a dotted suffix too.
	apex, err := ParseAbsoluteURL("https://googlevideo.com/seg.ts")
	assert.NoError(err)
	assert.True(HostHasSuffix(apex, ".googlevideo.com"))

	evil, err := ParseAbsoluteURL("https://googlevideo.com.evil.example.com/seg.ts")
	assert.NoError(err)
	assert.False(HostHasSuffix(evil, ".googlevideo.com"))
}
