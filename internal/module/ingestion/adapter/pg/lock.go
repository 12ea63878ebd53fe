package pg

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// LockID はドキュメントIDからアドバイザリロックIDを生成します
func LockID(documentID uuid.UUID) int64 {
	return int64(binary.BigEndian.Uint64(documentID[:8]))
}

// LockDocument はトランザクション終了まで同じドキュメントへの書き込みを直列化します
// pg_advisory_xact_lock はコミットまたはロールバックで自動的に解放されます
func (r *Repository) LockDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", LockID(documentID)); err != nil {
		return fmt.Errorf("failed to acquire advisory lock: %w", err)
	}
	return nil
}
