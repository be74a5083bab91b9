package models

import "time"

type EntityType string

const (
	EntityOrder   EntityType = "order"
	EntityService EntityType = "service"
	EntityTask    EntityType = "task"
	EntityTicket  EntityType = "ticket"
)

// ID prefixes of the human-readable entity codes.
const (
	PrefixOrder   = "PRS"
	PrefixService = "SRV"
	PrefixTask    = "TSK"
	PrefixTicket  = "TIK"
)

// Closed status sets per entity. Any member may be set from any other member;
// there is no transition graph.
var statusSets = map[EntityType][]string{
	EntityOrder:   {"pending", "accepted", "processing", "shipped", "delivered", "cancelled"},
	EntityService: {"received", "in-progress", "waiting-parts", "completed", "delivered"},
	EntityTask:    {"todo", "in-progress", "review", "done"},
	EntityTicket:  {"open", "in-progress", "waiting-customer", "resolved", "closed"},
}

var defaultStatuses = map[EntityType]string{
	EntityOrder:   "pending",
	EntityService: "received",
	EntityTask:    "todo",
	EntityTicket:  "open",
}

// Statuses that stamp a completion timestamp when entered.
var completionStatuses = map[string]bool{
	"completed": true,
	"done":      true,
	"resolved":  true,
	"closed":    true,
	"delivered": true,
}

// Display labels for the UI. Unknown statuses translate to themselves.
var statusLabels = map[string]string{
	"pending":          "Në pritje",
	"accepted":         "Pranuar",
	"processing":       "Në procesim",
	"shipped":          "Dërguar",
	"delivered":        "Dorëzuar",
	"cancelled":        "Anuluar",
	"received":         "Pranuar",
	"in-progress":      "Në progres",
	"waiting-parts":    "Në pritje të pjesëve",
	"completed":        "Përfunduar",
	"todo":             "Për t'u bërë",
	"review":           "Në rishikim",
	"done":             "Përfunduar",
	"open":             "Hapur",
	"waiting-customer": "Në pritje të klientit",
	"resolved":         "Zgjidhur",
	"closed":           "Mbyllur",
}

var priorities = []string{"low", "medium", "high", "urgent"}

const DefaultPriority = "medium"

func IsValidStatus(entity EntityType, status string) bool {
	for _, s := range statusSets[entity] {
		if s == status {
			return true
		}
	}
	return false
}

func DefaultStatus(entity EntityType) string {
	return defaultStatuses[entity]
}

func Statuses(entity EntityType) []string {
	set := statusSets[entity]
	out := make([]string, len(set))
	copy(out, set)
	return out
}

func TranslateStatus(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func IsCompletionStatus(status string) bool {
	return completionStatuses[status]
}

func IsValidPriority(priority string) bool {
	for _, p := range priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// NextCompletionTime applies the uniform completion-timestamp policy: entering
// a completion status keeps the existing stamp or sets one, leaving it clears it.
func NextCompletionTime(status string, current *time.Time) *time.Time {
	if !IsCompletionStatus(status) {
		return nil
	}
	if current != nil {
		return current
	}
	now := time.Now()
	return &now
}
