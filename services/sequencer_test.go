// services/sequencer_test.go
package services

import (
	"fmt"
	"testing"

	"startech-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderProduct{},
		&models.Service{},
		&models.Task{},
		&models.Ticket{},
	))
	return db
}

func TestNextIDStartsAtOne(t *testing.T) {
	seq := NewSequencer(testDB(t))

	id, err := seq.NextID(models.PrefixTask, "2024")
	require.NoError(t, err)
	assert.Equal(t, "TSK-2024-001", id)
}

func TestNextIDSequential(t *testing.T) {
	db := testDB(t)
	seq := NewSequencer(db)

	for i := 1; i <= 25; i++ {
		id, err := seq.NextID(models.PrefixTicket, "2024")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("TIK-2024-%03d", i), id)

		require.NoError(t, db.Create(&models.Ticket{
			ID:      id,
			Subject: "test",
			Status:  "open",
		}).Error)
	}
}

func TestNextIDScopedByYear(t *testing.T) {
	db := testDB(t)
	seq := NewSequencer(db)

	require.NoError(t, db.Create(&models.Task{ID: "TSK-2023-041", Title: "old", Status: "done"}).Error)
	require.NoError(t, db.Create(&models.Task{ID: "TSK-2024-007", Title: "new", Status: "todo"}).Error)

	id, err := seq.NextID(models.PrefixTask, "2024")
	require.NoError(t, err)
	assert.Equal(t, "TSK-2024-008", id)

	id, err = seq.NextID(models.PrefixTask, "2025")
	require.NoError(t, err)
	assert.Equal(t, "TSK-2025-001", id)
}

func TestNextIDScopedByPrefix(t *testing.T) {
	db := testDB(t)
	seq := NewSequencer(db)

	require.NoError(t, db.Create(&models.Ticket{ID: "TIK-2024-003", Subject: "x", Status: "open"}).Error)

	id, err := seq.NextID(models.PrefixTask, "2024")
	require.NoError(t, err)
	assert.Equal(t, "TSK-2024-001", id)
}

func TestNextIDUnknownPrefix(t *testing.T) {
	seq := NewSequencer(testDB(t))

	_, err := seq.NextID("XXX", "2024")
	assert.Error(t, err)
}

func TestDuplicateIDFailsOnInsert(t *testing.T) {
	// Two concurrent creators reading the same last id both compute the same
	// next code; because the code is the primary key the second insert fails
	// instead of silently duplicating.
	db := testDB(t)
	seq := NewSequencer(db)

	id1, err := seq.NextID(models.PrefixTicket, "2024")
	require.NoError(t, err)
	id2, err := seq.NextID(models.PrefixTicket, "2024")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	require.NoError(t, db.Create(&models.Ticket{ID: id1, Subject: "first", Status: "open"}).Error)
	assert.Error(t, db.Create(&models.Ticket{ID: id2, Subject: "second", Status: "open"}).Error)
}
