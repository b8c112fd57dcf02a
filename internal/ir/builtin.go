package ir

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RegExp is a regular expression kept as source and flags.
type RegExp struct {
	Source string
	Flags  string
}

// NewRegExp creates a RegExp.
func NewRegExp(source, flags string) *RegExp {
	return &RegExp{Source: source, Flags: flags}
}

// Compile builds a Go regexp. The i, m and s flags map to inline flags;
// g, y, u, d and v only affect matching iteration and are ignored.
func (r *RegExp) Compile() (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range r.Flags {
		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		}
	}
	if inline.Len() == 0 {
		return regexp.Compile(r.Source)
	}
	return regexp.Compile("(?" + inline.String() + ")" + r.Source)
}

// isoLayout is the ISO-8601 instant layout with millisecond precision.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Date is an instant with millisecond precision, always held in UTC.
type Date struct {
	Time time.Time
}

// NewDate creates a Date, truncating t to milliseconds.
func NewDate(t time.Time) *Date {
	return &Date{Time: t.UTC().Truncate(time.Millisecond)}
}

// ISOString renders the date as YYYY-MM-DDTHH:mm:ss.sssZ. Years outside
// 0..9999 use the expanded ±YYYYYY form.
func (d *Date) ISOString() string {
	t := d.Time.UTC()
	year := t.Year()
	if year >= 0 && year <= 9999 {
		return t.Format(isoLayout)
	}
	sign := "+"
	if year < 0 {
		sign = "-"
		year = -year
	}
	return fmt.Sprintf("%s%06d%s", sign, year, t.Format("-01-02T15:04:05.000Z"))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses the ISO-8601 forms produced by ISOString and the common
// date-only and offset variants. Forms without an offset are read as UTC.
func ParseDate(s string) (*Date, error) {
	src := strings.TrimSpace(s)
	if len(src) > 7 && (src[0] == '+' || src[0] == '-') && src[7] == '-' {
		return parseExpandedYear(src)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, src); err == nil {
			return NewDate(t), nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func parseExpandedYear(src string) (*Date, error) {
	year, err := strconv.Atoi(src[1:7])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", src)
	}
	if src[0] == '-' {
		year = -year
	}
	t, err := time.Parse(time.RFC3339Nano, "2000"+src[7:])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", src)
	}
	t = t.AddDate(year-2000, 0, 0)
	return NewDate(t), nil
}

// specialSchemes get a "/" path when none is given, as URL parsers do for
// hierarchical web schemes.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true, "file": true,
}

// URL is an absolute URL.
type URL struct {
	u *url.URL
}

// ParseURL parses an absolute URL.
func ParseURL(s string) (*URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", s, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("invalid URL %q: missing scheme", s)
	}
	if specialSchemes[u.Scheme] {
		u.Host = strings.ToLower(u.Host)
		if u.Path == "" && u.Opaque == "" {
			u.Path = "/"
		}
	}
	return &URL{u: u}, nil
}

// URLFrom wraps a net/url URL.
func URLFrom(u *url.URL) (*URL, error) {
	return ParseURL(u.String())
}

// String returns the serialized URL.
func (u *URL) String() string {
	return u.u.String()
}

// URL returns a copy of the parsed net/url value.
func (u *URL) URL() *url.URL {
	c := *u.u
	return &c
}

// URLSearchParams is an ordered list of query name/value pairs.
type URLSearchParams struct {
	pairs [][2]string
}

// ParseURLSearchParams parses an application/x-www-form-urlencoded string.
// A leading '?' is ignored. Malformed percent escapes are kept verbatim.
func ParseURLSearchParams(s string) *URLSearchParams {
	p := &URLSearchParams{}
	s = strings.TrimPrefix(s, "?")
	for _, part := range strings.Split(s, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		p.Append(unescapeQuery(name), unescapeQuery(value))
	}
	return p
}

func unescapeQuery(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return out
}

// Append adds a name/value pair.
func (p *URLSearchParams) Append(name, value string) {
	p.pairs = append(p.pairs, [2]string{name, value})
}

// Get returns the first value for name.
func (p *URLSearchParams) Get(name string) (string, bool) {
	for _, kv := range p.pairs {
		if kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

// Pairs returns the name/value pairs in order.
func (p *URLSearchParams) Pairs() [][2]string {
	out := make([][2]string, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// String serializes the pairs as a query string without the leading '?'.
func (p *URLSearchParams) String() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

// Error is an error value with a name, message, optional stack text,
// optional cause and additional own properties.
//
// A nil Cause means no cause; use Null{} for an explicit null cause.
type Error struct {
	Name    string
	Message string
	Stack   string
	Cause   any
	Props   *Object
}

// NewError creates an Error named "Error".
func NewError(message string) *Error {
	return &Error{Name: "Error", Message: message, Props: NewObject()}
}

// FromGoError converts a Go error and its Unwrap chain into Error values.
func FromGoError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	out := NewError(err.Error())
	if cause := errors.Unwrap(err); cause != nil {
		out.Cause = FromGoError(cause)
	}
	return out
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

// Unwrap returns the cause when it is itself an error.
func (e *Error) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// ReservedErrorKeys are the error fields that are not stored in Props.
var ReservedErrorKeys = map[string]bool{
	"name": true, "message": true, "stack": true, "cause": true,
}
