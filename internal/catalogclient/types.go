package catalogclient

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the catalog's wire format for dates.
const DateLayout = "2006-01-02"

// Date is a calendar date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || !strings.HasPrefix(s, `"`) || !strings.HasSuffix(s, `"`) {
		return fmt.Errorf("date must be a string, got %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Media struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	ReleaseDate   Date    `json:"releaseDate"`
	AverageRating float64 `json:"averageRating"`
	Type          string  `json:"type"`
	// UserIDs is only populated by GetMedia.
	UserIDs []int64 `json:"userIds,omitempty"`
}

type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type UserMedia struct {
	ID      int64 `json:"id"`
	UserID  int64 `json:"userId"`
	MediaID int64 `json:"mediaId"`
}
