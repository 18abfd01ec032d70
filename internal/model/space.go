package model

const (
	SpaceTypeDM         = "DM"
	SpaceTypeGroup      = "GROUP"
	SpaceTypeProject    = "PROJECT"
	SpaceTypeTenantWide = "TENANT_WIDE"
)

type Space struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Name    string   `json:"name,omitempty"`
	Members []string `json:"members,omitempty"`
}

// ReadCursor is a high-water mark: it only ever moves forward.
type ReadCursor struct {
	LastReadMessageID string `json:"last_read_message_id" db:"last_read_message_id"`
	LastReadSeq       int64  `json:"last_read_seq" db:"last_read_seq"`
}

func (c ReadCursor) After(other ReadCursor) bool {
	return c.LastReadSeq > other.LastReadSeq
}

type PresenceStatus struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}
