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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
		userID, email, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}

	return userID
}

func CreateTestEvent(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	eventID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO events (id, name, starts_at) VALUES ($1, $2, $3)",
		eventID, name, time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)

	return eventID
}

// price is a decimal literal such as "500.00"
func CreateTestTicketType(t *testing.T, db DBLike, eventID uuid.UUID, name, price string, quantity int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO ticket_types (id, event_id, name, price, quantity) VALUES ($1, $2, $3, $4::numeric, $5)",
		id, eventID, name, price, quantity)
	require.NoError(t, err)

	return id
}

func SetTicketTypePrice(t *testing.T, db DBLike, id uuid.UUID, price string) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE ticket_types SET price = $2::numeric WHERE id = $1", id, price)
	require.NoError(t, err)
}

func TicketTypeQuantity(t *testing.T, db DBLike, id uuid.UUID) int {
	t.Helper()

	var qty int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT quantity FROM ticket_types WHERE id = $1", id).Scan(&qty))
	return qty
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

// ExpireBooking moves the hold deadline into the past.
func ExpireBooking(t *testing.T, db DBLike, bookingID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE bookings SET expires_at = now() - interval '1 minute' WHERE id = $1", bookingID)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every application table
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
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
