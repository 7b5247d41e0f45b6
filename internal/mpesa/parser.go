// Package mpesa extracts contribution fields from mobile-money payment
// notification text. Notification templates vary in surrounding wording
// across operators, so extraction anchors on the stable landmark tokens
// ("Ksh", "from", "on", "at") rather than fixed offsets or delimiters.
package mpesa

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidReference = errors.New("invalid or missing payment reference")
	ErrInvalidAmount    = errors.New("invalid or missing amount")
	ErrInvalidName      = errors.New("invalid or missing contributor name")
	ErrInvalidPhone     = errors.New("invalid or missing phone number")
	ErrInvalidDate      = errors.New("invalid or missing date")
	ErrInvalidTime      = errors.New("invalid or missing time")
)

var (
	// Standalone run of exactly 10 uppercase alphanumerics.
	referencePattern = regexp.MustCompile(`\b[A-Z0-9]{10}\b`)
	// Numerals with optional thousands separators immediately before the
	// literal decimal point, after the "Ksh" landmark.
	amountPattern = regexp.MustCompile(`Ksh\s*([0-9][0-9,]*)\.`)
	// Uppercase letters and spaces between "from" and the next digit.
	namePattern = regexp.MustCompile(`\bfrom\s+([A-Z][A-Z ]*?)\s*[0-9]`)
	// Digit run immediately before the word "on".
	phonePattern = regexp.MustCompile(`\b([0-9]+)\s+on\b`)
	// D/M/YY or DD/MM/YY between "on" and "at".
	datePattern = regexp.MustCompile(`\bon\s+([0-9]{1,2}/[0-9]{1,2}/[0-9]{2})\s+at\b`)
	// H:MM or HH:MM with an AM/PM suffix, after "at".
	timePattern = regexp.MustCompile(`\bat\s+([0-9]{1,2}:[0-9]{2})\s*(AM|PM)\b`)
)

// Fields is the normalized result of parsing one notification message.
type Fields struct {
	Reference       string
	Amount          decimal.Decimal
	ContributorName string
	PhoneNumber     string
	// Date is the contribution date at midnight UTC.
	Date time.Time
	// Time is the 24-hour wall-clock time, formatted HH:MM:SS.
	Time string
}

// DateISO returns the contribution date formatted YYYY-MM-DD.
func (f *Fields) DateISO() string {
	return f.Date.Format("2006-01-02")
}

// Parse extracts the six contribution fields from a raw notification
// message. Extraction is fail-fast: the first field that cannot be matched
// aborts the parse and its error is returned; later fields are not checked.
func Parse(message string) (*Fields, error) {
	reference := referencePattern.FindString(message)
	if reference == "" {
		return nil, fmt.Errorf("%w: no 10-character reference in message", ErrInvalidReference)
	}

	amountMatch := amountPattern.FindStringSubmatch(message)
	if amountMatch == nil {
		return nil, fmt.Errorf("%w: no amount after Ksh", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(amountMatch[1], ",", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not numeric", ErrInvalidAmount, amountMatch[1])
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	nameMatch := namePattern.FindStringSubmatch(message)
	if nameMatch == nil {
		return nil, fmt.Errorf("%w: no name between from and phone", ErrInvalidName)
	}
	name := strings.TrimSpace(nameMatch[1])
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	phoneMatch := phonePattern.FindStringSubmatch(message)
	if phoneMatch == nil {
		return nil, fmt.Errorf("%w: no phone number before on", ErrInvalidPhone)
	}

	dateMatch := datePattern.FindStringSubmatch(message)
	if dateMatch == nil {
		return nil, fmt.Errorf("%w: no date between on and at", ErrInvalidDate)
	}
	date, err := time.ParseInLocation("2/1/06", dateMatch[1], time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid D/M/YY date", ErrInvalidDate, dateMatch[1])
	}

	timeMatch := timePattern.FindStringSubmatch(message)
	if timeMatch == nil {
		return nil, fmt.Errorf("%w: no time after at", ErrInvalidTime)
	}
	clock, err := time.Parse("3:04 PM", timeMatch[1]+" "+timeMatch[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid clock time", ErrInvalidTime, timeMatch[1])
	}

	return &Fields{
		Reference:       reference,
		Amount:          amount,
		ContributorName: name,
		PhoneNumber:     phoneMatch[1],
		Date:            date,
		Time:            clock.Format("15:04:05"),
	}, nil
}

// FieldName maps a parse error to the name of the field that failed, for
// error reporting. Unknown errors map to the empty string.
func FieldName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidReference):
		return "reference"
	case errors.Is(err, ErrInvalidAmount):
		return "amount"
	case errors.Is(err, ErrInvalidName):
		return "contributor_name"
	case errors.Is(err, ErrInvalidPhone):
		return "phone_number"
	case errors.Is(err, ErrInvalidDate):
		return "contribution_date"
	case errors.Is(err, ErrInvalidTime):
		return "contribution_time"
	}
	return ""
}
