package petsdk

import "time"

// ──────────────────────────────────────────────
// Interaction Event — one completed exchange at the transport boundary
// ──────────────────────────────────────────────

// InteractionEvent is what the transport delivers when a user responds to a
// previously sent message. It is ephemeral: consumed once by the engine, not
// retained beyond each component's own bounded aggregates.
type InteractionEvent struct {
	PetID             string        `json:"pet_id"`
	UserID            string        `json:"user_id"`
	SentMessage       []string      `json:"sent_message"`
	ObservedResponse  []string      `json:"observed_response"` // empty = ignored
	ResponseLatency   time.Duration `json:"response_latency"`
	EnvironmentSignal float64       `json:"environment_signal"`
	Timestamp         time.Time     `json:"timestamp"`
}

// InteractionResult is the engine output handed back to the transport after
// one atomic learning step.
type InteractionResult struct {
	Surprise       float64            `json:"surprise"`
	Reading        ResponseReading    `json:"reading"`
	Outcome        InteractionOutcome `json:"outcome"`
	Unlocks        UnlockResult       `json:"unlocks"`
	Environment    EnvironmentContext `json:"environment"`
	NextPrediction *Prediction        `json:"next_prediction"`
}
