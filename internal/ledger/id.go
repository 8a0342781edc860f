package ledger

import (
	"strings"

	"github.com/google/uuid"
)

const itemIDLength = 12

// NewItemID returns a short random lowercase alphanumeric id. Ids only need
// to be unique within one day's list; 48 random bits make collisions there
// practically impossible.
func NewItemID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:itemIDLength]
}
