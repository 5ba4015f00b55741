//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestStudio(t *testing.T, db DBLike, ownerID int64, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(),
		"INSERT INTO studios (owner_id, name) VALUES ($1, $2) RETURNING id", ownerID, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestService inserts a service with the given admission ratios.
func CreateTestService(t *testing.T, db DBLike, studioID int64, capacity int, soft, hard, overbooked float64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO services (studio_id, name, category, duration_minutes, max_capacity,
		                      soft_limit_ratio, hard_limit_ratio, max_overbooked_ratio)
		VALUES ($1, 'Vinyasa', 'yoga', 60, $2, $3, $4, $5) RETURNING id`,
		studioID, capacity, soft, hard, overbooked).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateTestSlot(t *testing.T, db DBLike, studioID int64, serviceID *int64, start time.Time, capacity, priceCents int) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO slots (studio_id, service_id, title, start_time, end_time, max_capacity, price_cents)
		VALUES ($1, $2, 'Morning flow', $3, $4, $5, $6) RETURNING id`,
		studioID, serviceID, start, start.Add(time.Hour), capacity, priceCents).Scan(&id)
	require.NoError(t, err)
	return id
}

func CountBookings(t *testing.T, db DBLike, slotID int64, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM bookings WHERE slot_id = $1 AND status = $2", slotID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
