package backup

import (
	"bytes"
	"context"
	"strings"
	"time"
)

var accountingHeader = []string{"First Name", "Last Name", "School", "Email"}

func (c *codec) ExportCheckedInCSV(ctx context.Context) ([]byte, error) {
	start := time.Now()

	participants, _, checkins, err := c.repo.Snapshot(ctx)
	c.observe("export_checkins", err, start)
	if err != nil {
		c.logger.Errorw("Failed to read roster for check-in export", "error", err)
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(accountingHeader, ","))

	rows := 0
	for _, p := range participants {
		if _, ok := checkins[p.ID]; !ok {
			continue
		}
		first, last := splitName(p.Name)
		buf.WriteByte('\n')
		buf.WriteString(strings.Join([]string{
			quoteField(first),
			quoteField(last),
			quoteField(p.College),
			quoteField(p.Email),
		}, ","))
		rows++
	}

	c.logger.Infow("Check-in report exported", "rows", rows)
	return buf.Bytes(), nil
}

// splitName splits on the first space; the last name keeps any further
// spaces.
func splitName(name string) (string, string) {
	first, last, _ := strings.Cut(name, " ")
	return first, last
}

// quoteField wraps s in quotes, doubling inner quotes, when it contains a
// comma, quote, line break or space.
func quoteField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n ") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
