package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"gridcode/internal/models"
)

// Content length bounds per post type. Job and event posts get a larger
// allowance because the free-text body accompanies a structured payload.
const (
	generalContentMin = 5
	generalContentMax = 500
	typedContentMax   = 2000
	descriptionMin    = 20
	descriptionMax    = 1000
)

// JobDetails is the structured payload carried by job posts.
type JobDetails struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	JobType     string `json:"jobType"`
	Experience  string `json:"experience"`
	Salary      string `json:"salary,omitempty"`
	Description string `json:"description"`
}

// EventDetails is the structured payload carried by event posts.
type EventDetails struct {
	EventName   string `json:"eventName"`
	EventType   string `json:"eventType"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Capacity    string `json:"capacity,omitempty"`
	TicketPrice string `json:"ticketPrice,omitempty"`
	Description string `json:"description"`
}

// ValidatePost checks a post's content, hashtag, type, and structured payload.
// The hashtag is expected to already be normalized with models.NormalizeHashtag.
func ValidatePost(postType, content, hashtag string, structuredData json.RawMessage) error {
	if !models.IsValidPostType(postType) {
		return fmt.Errorf("post type must be one of general, job, event")
	}

	contentLen := utf8.RuneCountInString(strings.TrimSpace(content))
	if contentLen < generalContentMin {
		return fmt.Errorf("content must be at least %d characters", generalContentMin)
	}
	maxLen := generalContentMax
	if postType != models.PostTypeGeneral {
		maxLen = typedContentMax
	}
	if contentLen > maxLen {
		return fmt.Errorf("content must not exceed %d characters", maxLen)
	}

	if hashtag == "" || hashtag == "#" {
		return fmt.Errorf("hashtag is required")
	}
	if !strings.HasPrefix(hashtag, "#") {
		return fmt.Errorf("hashtag must start with #")
	}
	if strings.ContainsAny(hashtag[1:], " #") {
		return fmt.Errorf("hashtag must be a single tag without spaces")
	}

	switch postType {
	case models.PostTypeGeneral:
		if len(structuredData) > 0 && string(structuredData) != "null" {
			return fmt.Errorf("general posts cannot carry structured data")
		}
		return nil
	case models.PostTypeJob:
		return validateJobDetails(structuredData)
	case models.PostTypeEvent:
		return validateEventDetails(structuredData)
	}
	return nil
}

func validateJobDetails(raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("job posts require structured job details")
	}
	var d JobDetails
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("invalid job details: %w", err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.JobTitle)) < 3 {
		return fmt.Errorf("job title must be at least 3 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Company)) < 2 {
		return fmt.Errorf("company must be at least 2 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Location)) < 2 {
		return fmt.Errorf("location must be at least 2 characters")
	}
	if strings.TrimSpace(d.JobType) == "" {
		return fmt.Errorf("job type is required")
	}
	if strings.TrimSpace(d.Experience) == "" {
		return fmt.Errorf("experience level is required")
	}
	return validateDescription(d.Description)
}

func validateEventDetails(raw json.RawMessage) error {
	if len(raw) == 0 {
		return fmt.Errorf("event posts require structured event details")
	}
	var d EventDetails
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("invalid event details: %w", err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.EventName)) < 3 {
		return fmt.Errorf("event name must be at least 3 characters")
	}
	if strings.TrimSpace(d.EventType) == "" {
		return fmt.Errorf("event type is required")
	}
	if strings.TrimSpace(d.Date) == "" {
		return fmt.Errorf("event date is required")
	}
	if strings.TrimSpace(d.Time) == "" {
		return fmt.Errorf("event time is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Location)) < 2 {
		return fmt.Errorf("location must be at least 2 characters")
	}
	return validateDescription(d.Description)
}

func validateDescription(desc string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(desc))
	if n < descriptionMin {
		return fmt.Errorf("description must be at least %d characters", descriptionMin)
	}
	if n > descriptionMax {
		return fmt.Errorf("description must not exceed %d characters", descriptionMax)
	}
	return nil
}
