// services/sequencer.go
package services

import (
	"fmt"
	"strconv"
	"strings"

	"startech-backend/models"

	"gorm.io/gorm"
)

var sequenceTables = map[string]string{
	models.PrefixOrder:   "orders",
	models.PrefixService: "services",
	models.PrefixTask:    "tasks",
	models.PrefixTicket:  "tickets",
}

// Sequencer issues the next human-readable entity code for a prefix and year.
type Sequencer struct {
	db *gorm.DB
}

func NewSequencer(db *gorm.DB) *Sequencer {
	return &Sequencer{db: db}
}

// NextID returns "<prefix>-<year>-NNN", NNN zero-padded to 3 digits. The
// highest existing code is found by ordering the id column descending as text,
// which holds while all suffixes share the same width. There is no locking:
// two concurrent callers can read the same last code, and the loser's insert
// fails on the primary key.
func (s *Sequencer) NextID(prefix, year string) (string, error) {
	table, ok := sequenceTables[prefix]
	if !ok {
		return "", fmt.Errorf("unknown id prefix %q", prefix)
	}

	var ids []string
	err := s.db.Table(table).
		Where("id LIKE ?", prefix+"-"+year+"-%").
		Order("id DESC").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(ids) > 0 {
		parts := strings.Split(ids[0], "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s-%s-%03d", prefix, year, next), nil
}
