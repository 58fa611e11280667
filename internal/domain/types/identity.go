package types

// Identity holds the long-term publishing key stored locally.
type Identity struct {
	SecretKey SecretKey `json:"sk"`
	PublicKey PublicKey `json:"pk"`
	CreatedAt int64     `json:"created_at"`
}
