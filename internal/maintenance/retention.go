package maintenance

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"strings"
	"time"
)

// StartStaleCartSweep runs a daily job at localTime ("HH:MM") in tzName that
// deletes carts untouched for keepDays days, items included. Abandoned carts
// otherwise pin price snapshots forever.
// Call once at startup: maintenance.StartStaleCartSweep(ctx, db, 30, "03:00", "UTC")
func StartStaleCartSweep(ctx context.Context, db *sql.DB, keepDays int, localTime string, tzName string) {
	if keepDays <= 0 {
		keepDays = 30
	}
	go func() {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			loc = time.Local
		}
		h, m := 3, 0
		if parts := strings.Split(localTime, ":"); len(parts) == 2 {
			if v, err := strconv.Atoi(parts[0]); err == nil {
				h = v
			}
			if v, err := strconv.Atoi(parts[1]); err == nil {
				m = v
			}
		}

		runOnce := func(ctx context.Context) {
			const items = `
DELETE FROM cart_items ci
USING carts c
WHERE ci.cart_id = c.id
  AND c.updated_at < now() - ($1 || ' days')::interval;`
			const carts = `
DELETE FROM carts
WHERE updated_at < now() - ($1 || ' days')::interval;`
			if _, err := db.ExecContext(ctx, items, keepDays); err != nil {
				log.Printf("[cart-sweep] delete stale cart items failed: %v", err)
				return
			}
			res, err := db.ExecContext(ctx, carts, keepDays)
			if err != nil {
				log.Printf("[cart-sweep] delete stale carts failed: %v", err)
				return
			}
			if n, _ := res.RowsAffected(); n > 0 {
				log.Printf("[cart-sweep] removed %d carts idle for %d+ days", n, keepDays)
			}
		}

		for {
			now := time.Now().In(loc)
			next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
			if !next.After(now) {
				next = next.Add(24 * time.Hour)
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				runOnce(ctx)
			}
		}
	}()
}
