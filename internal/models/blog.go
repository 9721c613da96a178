package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

type BlogState string

const (
	StateDraft     BlogState = "draft"
	StatePublished BlogState = "published"
	StateDeleted   BlogState = "deleted"
)

func (s BlogState) Valid() bool {
	switch s {
	case StateDraft, StatePublished, StateDeleted:
		return true
	}
	return false
}

type Blog struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       BlogState `json:"state"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"body,omitempty"`
	AuthorID    string    `json:"author_id"`
	Author      string    `json:"author"`
	ReadCount   int64     `json:"read_count"`
	ReadingTime string    `json:"reading_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b *Blog) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(b.Body) == "" {
		return errors.New("body is required")
	}
	if b.State == "" {
		b.State = StateDraft
	}
	if !b.State.Valid() {
		return errors.New("state must be draft, published or deleted")
	}
	return nil
}

// ReadingTime is the derived display value recomputed on every public read:
// word count at 250 words per minute, rounded up.
const WordsPerMinute = 250

func ComputeReadingTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return strconv.Itoa(minutes) + " min(s)"
}
