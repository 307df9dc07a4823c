package entities

// Preference is one row of the client's local key-value store.
type Preference struct {
	Key   string `gorm:"column:pref_key;primaryKey;size:64" json:"key"`
	Value string `json:"value"`
	Timestamp
}
