package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the secondary indexes used by dashboards, membership lookups and listing.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Event listing is ordered and filtered by these
		{"events", "idx_events_date", "date"},
		{"events", "idx_events_category", "category"},
		{"events", "idx_events_organizer_id", "organizer_id"},

		// Reverse lookups on the join tables
		{"event_rsvps", "idx_event_rsvps_user_id", "user_id"},
		{"user_groups", "idx_user_groups_group_id", "group_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table), zap.String("columns", idx.columns))
	}

	return nil
}
