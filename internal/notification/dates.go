package notification

import (
	"strconv"

	"caseflow/internal/zgw/models"
)

var dutchMonths = [...]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// FormatDate renders d the way the mail templates show dates, "1 maart 2024".
// The zero date renders empty.
func FormatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return strconv.Itoa(d.Day()) + " " + dutchMonths[d.Month()-1] + " " + strconv.Itoa(d.Year())
}
