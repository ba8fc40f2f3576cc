// Package ingest holds the per-collection upsert services of the ingestion
// side. Every service follows the same contract: records in a batch are
// processed sequentially, a record that fails validation or persistence is
// skipped and logged without failing the batch, and the applied count is
// returned so the agent can account for partial application.
package ingest

import (
	"github.com/erp/syncbridge/internal/domain/synckey"
	"go.uber.org/zap"
)

// collides reports whether an existing row is owned by a different legacy
// record than the incoming one. Placeholders never collide: they exist to be
// overwritten by whichever authoritative record claims their key first.
func collides(existingLegacyID string, existingPlaceholder bool, recLegacyID string) bool {
	return !existingPlaceholder &&
		existingLegacyID != "" &&
		recLegacyID != "" &&
		existingLegacyID != recLegacyID
}

// mangleKey derives the fallback key for a natural-key collision and logs
// the diversion at warn. The mangled key is deterministic, so reruns of the
// same record keep landing on the same row.
func mangleKey(logger *zap.Logger, collection, key, existingLegacyID, recLegacyID string) string {
	mangled := synckey.Mangle(key, recLegacyID)
	logger.Warn("natural key collision",
		zap.String("collection", collection),
		zap.String("natural_key", key),
		zap.String("mangled_key", mangled),
		zap.String("existing_legacy_id", existingLegacyID),
		zap.String("incoming_legacy_id", recLegacyID),
	)
	return mangled
}

// skipRecord logs a record-level failure at warn. Batch processing continues.
func skipRecord(logger *zap.Logger, collection, naturalKey string, err error) {
	logger.Warn("skipping record",
		zap.String("collection", collection),
		zap.String("natural_key", naturalKey),
		zap.Error(err),
	)
}
