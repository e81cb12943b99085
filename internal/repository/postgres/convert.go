package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

// tsOf renders a timestamp as seconds.micros, the form message ts values
// take on the wire.
func tsOf(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/int(time.Microsecond))
}

func presenceOf(status string) domain.Presence {
	if status == "online" {
		return domain.PresenceActive
	}
	return domain.PresenceAway
}

func isAdminRole(role string) bool {
	return role == "owner" || role == "admin"
}

func rawString(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
