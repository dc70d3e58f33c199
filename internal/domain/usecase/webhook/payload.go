package webhook

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jasper326-web/artisan-credits/internal/domain/entity"
	errs "github.com/jasper326-web/artisan-credits/internal/domain/error"
)

// paymentEvent is the provider envelope. Providers differ: some deliver flat
// fields, others nest the checkout session under data.object with the user
// and credit amounts in its metadata. Both shapes are accepted.
type paymentEvent struct {
	EventID  string            `json:"event_id"`
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Provider string            `json:"provider"`
	UserID   string            `json:"user_id"`
	Amount   int64             `json:"amount"`
	Credits  int64             `json:"credits"`
	Metadata map[string]string `json:"metadata"`
	Data     struct {
		Object struct {
			ID          string            `json:"id"`
			AmountTotal int64             `json:"amount_total"`
			Metadata    map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// paymentClaim is the normalized, validated content of a delivery
type paymentClaim struct {
	ExternalID string
	UserID     string
	Amount     int64
	Credits    int64
	Provider   string
	Metadata   entity.Metadata
}

// parseEvent decodes and validates a raw delivery. Any malformed payload is a
// fatal InvalidPayload: the provider will not resend a fixed payload
// differently, so these are never retried.
func parseEvent(payload []byte) (*paymentClaim, error) {
	var event paymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %s", errs.ErrInvalidPayload, err.Error())
	}

	claim := &paymentClaim{
		ExternalID: firstNonEmpty(event.EventID, event.ID, event.Data.Object.ID),
		UserID:     event.UserID,
		Amount:     event.Amount,
		Credits:    event.Credits,
		Provider:   event.Provider,
		Metadata:   entity.Metadata(event.Metadata),
	}

	// Nested checkout-session shape: user and credits live in the session
	// metadata, the paid amount in amount_total
	if nested := event.Data.Object.Metadata; nested != nil {
		if claim.UserID == "" {
			claim.UserID = nested["user_id"]
		}
		if claim.Credits == 0 {
			if credits, err := strconv.ParseInt(nested["credits"], 10, 64); err == nil {
				claim.Credits = credits
			}
		}
		if claim.Metadata == nil {
			claim.Metadata = entity.Metadata(nested)
		}
	}
	if claim.Amount == 0 {
		claim.Amount = event.Data.Object.AmountTotal
	}
	if claim.Provider == "" {
		claim.Provider = "unknown"
	}

	if strings.TrimSpace(claim.ExternalID) == "" {
		return nil, fmt.Errorf("%w: missing event identifier", errs.ErrInvalidPayload)
	}
	if strings.TrimSpace(claim.UserID) == "" {
		return nil, fmt.Errorf("%w: missing user_id", errs.ErrInvalidPayload)
	}
	if claim.Credits <= 0 {
		return nil, fmt.Errorf("%w: credits must be positive, got %d", errs.ErrInvalidPayload, claim.Credits)
	}

	return claim, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
