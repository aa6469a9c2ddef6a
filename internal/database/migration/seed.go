package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kneilands/Papertrail/internal/model"
)

type seedDocument struct {
	Name       string
	Category   string
	Issuer     string
	OffsetDays int
}

// Demo records shown on a fresh install so the dashboard isn't empty.
var seedDocuments = []seedDocument{
	{Name: "General Business License", Category: "Legal", Issuer: "City of Chicago", OffsetDays: 200},
	{Name: "Food Sanitation Certificate", Category: "Health", Issuer: "Dept of Health", OffsetDays: 15},
	{Name: "Liquor Liability Insurance", Category: "Insurance", Issuer: "State Farm", OffsetDays: -5},
	{Name: "Annual Report Filing", Category: "Compliance", Issuer: "Secretary of State", OffsetDays: 365},
}

// SeedDemo inserts demo documents when the documents table is empty.
// It is a no-op on a database that already holds data.
func SeedDemo(ctx context.Context, db *sql.DB, loc *time.Location) error {
	start := time.Now()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count); err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_seed_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to count documents: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to count documents: %w", err)
	}

	if count > 0 {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_seed_skip",
			"status":      "success",
			"msg":         "documents table not empty, skipping seed",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	now := time.Now()
	const insert = `INSERT INTO documents (name, category, issuer, expiration_date, status)
VALUES ($1, $2, $3, $4, $5)`

	for _, s := range seedDocuments {
		expiration := now.AddDate(0, 0, s.OffsetDays)
		status := model.ComputeStatus(&expiration, now)

		if _, err := db.ExecContext(ctx, insert, s.Name, s.Category, s.Issuer, expiration, string(status)); err != nil {
			logJSON(loc, map[string]any{
				"component":     "database",
				"event":         "db_seed_failed",
				"status":        "error",
				"seed_document": s.Name,
				"error_message": err.Error(),
				"duration_ms":   time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("seed document %q failed: %w", s.Name, err)
		}
	}

	logJSON(loc, map[string]any{
		"component":    "database",
		"event":        "db_seed_success",
		"status":       "success",
		"seeded_count": len(seedDocuments),
		"duration_ms":  time.Since(start).Milliseconds(),
	})

	return nil
}
