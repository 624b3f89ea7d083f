package models

// Keystore is a generic key to integer counter row used for
// denormalized per-user statistics.
type Keystore struct {
	Key   string `gorm:"primaryKey;type:varchar(50);column:key"`
	Value int64  `gorm:"not null;default:0;column:value"`
}

// TableName specifies the table name for Keystore
func (Keystore) TableName() string {
	return "keystores"
}
