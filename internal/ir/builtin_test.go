package ir

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateISOString(t *testing.T) {
	d := NewDate(time.Date(2024, 1, 2, 3, 4, 5, 6_700_000, time.UTC))
	assert.Equal(t, "2024-01-02T03:04:05.006Z", d.ISOString())

	far := NewDate(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "+010000-01-01T00:00:00.000Z", far.ISOString())
}

func TestParseDate(t *testing.T) {
	for _, src := range []string{
		"2024-01-02T03:04:05.006Z",
		"+010000-01-01T00:00:00.000Z",
		"1970-01-01T00:00:00.000Z",
	} {
		t.Run(src, func(t *testing.T) {
			d, err := ParseDate(src)
			require.NoError(t, err)
			assert.Equal(t, src, d.ISOString())
		})
	}

	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T00:00:00.000Z", d.ISOString())

	d, err = ParseDate("2024-06-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T10:00:00.000Z", d.ISOString())

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestRegExpCompile(t *testing.T) {
	re, err := NewRegExp("^ab+c$", "gi").Compile()
	require.NoError(t, err)
	assert.True(t, re.MatchString("ABBC"))

	_, err = NewRegExp("(", "").Compile()
	assert.Error(t, err)
}

func TestParseURL(t *testing.T) {
	u, err := ParseURL("https://Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", u.String())

	u, err = ParseURL("https://example.com/a/b?q=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a/b?q=1#frag", u.String())

	_, err = ParseURL("/relative/path")
	assert.Error(t, err)
}

func TestURLSearchParams(t *testing.T) {
	p := ParseURLSearchParams("?a=1&b=two+words&a=3")
	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "two words"}, {"a", "3"}}, p.Pairs())

	v, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	assert.Equal(t, "a=1&b=two+words&a=3", p.String())
}

func TestFromGoErrorFollowsChain(t *testing.T) {
	root := errors.New("disk full")
	wrapped := fmt.Errorf("write failed: %w", root)

	e := FromGoError(wrapped)
	assert.Equal(t, "Error", e.Name)
	assert.Equal(t, "write failed: disk full", e.Message)

	cause, ok := e.Cause.(*Error)
	require.True(t, ok)
	assert.Equal(t, "disk full", cause.Message)
	assert.Nil(t, cause.Cause)

	assert.ErrorIs(t, e, cause)
}

func TestErrorString(t *testing.T) {
	e := NewError("boom")
	e.Name = "TypeError"
	assert.Equal(t, "TypeError: boom", e.Error())
}
