package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

var ErrInvalidSubmissionStatus = errors.New("status must be pending, approved or rejected")

func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	switch SubmissionStatus(strings.ToLower(strings.TrimSpace(value))) {
	case "", SubmissionStatusPending:
		return SubmissionStatusPending, nil
	case SubmissionStatusApproved:
		return SubmissionStatusApproved, nil
	case SubmissionStatusRejected:
		return SubmissionStatusRejected, nil
	}
	return "", ErrInvalidSubmissionStatus
}

type Submitter struct {
	Name  string  `db:"submitter_name" json:"submitter_name"`
	Email *string `db:"submitter_email" json:"submitter_email,omitempty"`
	Phone *string `db:"submitter_phone" json:"submitter_phone,omitempty"`
}

// SubmissionPayload is the closed set of proposed content shapes. Only
// DestinationPayload and CulinaryPayload implement it.
type SubmissionPayload interface {
	ItemType() ItemType
	isSubmissionPayload()
}

type DestinationPayload struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Image           string     `json:"image"`
	Category        string     `json:"category"`
	GoogleMapsLink  string     `json:"googleMapsLink"`
	Facilities      StringList `json:"facilities"`
	BestTimeToVisit string     `json:"bestTimeToVisit"`
	EntranceFee     string     `json:"entranceFee"`
}

func (DestinationPayload) ItemType() ItemType   { return ItemTypeDestination }
func (DestinationPayload) isSubmissionPayload() {}

type CulinaryPayload struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Image          string     `json:"image"`
	Category       string     `json:"category"`
	GoogleMapsLink string     `json:"googleMapsLink"`
	Restaurant     string     `json:"restaurant"`
	PriceRange     string     `json:"priceRange"`
	OpeningHours   string     `json:"openingHours"`
	Specialties    StringList `json:"specialties"`
	Facilities     StringList `json:"facilities"`
}

func (CulinaryPayload) ItemType() ItemType   { return ItemTypeCulinary }
func (CulinaryPayload) isSubmissionPayload() {}

// DecodeSubmissionPayload parses a stored or submitted payload for the given item type.
func DecodeSubmissionPayload(itemType ItemType, raw []byte) (SubmissionPayload, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		raw = []byte("{}")
	}
	switch itemType {
	case ItemTypeDestination:
		var p DestinationPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode destination payload: %w", err)
		}
		return p, nil
	case ItemTypeCulinary:
		var p CulinaryPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode culinary payload: %w", err)
		}
		return p, nil
	}
	return nil, ErrInvalidItemType
}

type Submission struct {
	ID uuid.UUID `json:"id"`
	Submitter
	ItemType       ItemType          `json:"item_type"`
	Payload        SubmissionPayload `json:"payload"`
	Status         SubmissionStatus  `json:"status"`
	AdminNotes     *string           `json:"admin_notes,omitempty"`
	PromotedItemID *uuid.UUID        `json:"promoted_item_id,omitempty"`
	ApprovedAt     *time.Time        `json:"approved_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (s Submission) IsPending() bool {
	return s.Status == SubmissionStatusPending
}
