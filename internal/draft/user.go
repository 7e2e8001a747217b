package draft

// BoxEntry records whether a user owns a character and at which sequence
// level (0..6).
type BoxEntry struct {
	Owned     bool `json:"owned"`
	Sequences int  `json:"sequences"`
}

// Box maps character id to ownership state.
type Box map[string]BoxEntry

// User is owned by the identity collaborator; the coordinator only ever
// reads it.
type User struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	ExternalID  string `json:"externalId" gorm:"uniqueIndex"`
	DisplayName string `json:"displayName"`
	Box         Box    `json:"box" gorm:"serializer:json"`
}
