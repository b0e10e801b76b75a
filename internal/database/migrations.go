package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/portfolio-cms/internal/logger"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by listing queries.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns []string
	}{
		// Public listings filter on published and sort by recency
		{"projects", "idx_projects_published_created", []string{"is_published", "created_at"}},
		{"achievements", "idx_achievements_published_created", []string{"is_published", "created_at"}},

		// Project detail loads comments newest first
		{"comments", "idx_comments_project_created", []string{"project_id", "created_at"}},

		{"project_tags", "idx_project_tags_tag_id", []string{"tag_id"}},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Log.Infow("created index", "index", idx.name, "table", idx.table)
	}

	return nil
}
