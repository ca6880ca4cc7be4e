package notes

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/notekit/pkg/validator"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json", "csv" and the empty string (json).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", errors.Join(ErrUnsupportedFormat, validator.ValidationErrors{
		{Field: "format", Message: "Format must be json or csv"},
	})
}

// Export is the result of an export request.
type Export struct {
	Format Format
	Notes  []Note
}

const csvHeader = "ID,Title,Content,Tags,Private,Created At,Updated At"

const csvTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// CSV encodes notes with one header row. Title, content and tags are always
// quoted with inner quotes doubled; tags are joined by ", ". Rows are
// separated by newlines without a trailing one.
func CSV(notes []Note) []byte {
	var b strings.Builder
	b.WriteString(csvHeader)
	for _, n := range notes {
		b.WriteByte('\n')
		b.WriteString(n.ID.String())
		b.WriteByte(',')
		b.WriteString(quote(n.Title))
		b.WriteByte(',')
		b.WriteString(quote(n.Content))
		b.WriteByte(',')
		b.WriteString(quote(strings.Join(n.Tags, ", ")))
		b.WriteByte(',')
		b.WriteString(strconv.FormatBool(n.IsPrivate))
		b.WriteByte(',')
		b.WriteString(formatTime(n.CreatedAt))
		b.WriteByte(',')
		b.WriteString(formatTime(n.UpdatedAt))
	}
	return []byte(b.String())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(csvTimeLayout)
}
