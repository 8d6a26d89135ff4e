package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// The natural key (date, time, currency, event_name) must stay unique even
// when time is NULL for all-day events, hence NULLS NOT DISTINCT. Requires
// PostgreSQL 15+.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS economic_events (
    id          BIGSERIAL PRIMARY KEY,
    date        DATE NOT NULL,
    "time"      TIME,
    currency    VARCHAR(8) NOT NULL,
    impact      VARCHAR(16) NOT NULL,
    event_name  TEXT NOT NULL,
    actual      DOUBLE PRECISION,
    forecast    DOUBLE PRECISION,
    previous    DOUBLE PRECISION,
    category    VARCHAR(32) NOT NULL DEFAULT 'other',
    polarity    SMALLINT NOT NULL DEFAULT 1,
    weight      SMALLINT NOT NULL DEFAULT 1,
    surprise    DOUBLE PRECISION,
    scraped_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ,
    CONSTRAINT uq_event UNIQUE NULLS NOT DISTINCT (date, "time", currency, event_name)
);

CREATE INDEX IF NOT EXISTS idx_needs_update ON economic_events (date, actual);
CREATE INDEX IF NOT EXISTS idx_events_currency ON economic_events (currency, date);
`

// InitSchema creates the event table and indexes if they do not exist
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return errors.Wrap(errors.ErrStore, err.Error())
	}
	logger.Info("Database schema ready")
	return nil
}
