package model

// ClaveSheetsSyncEnabled toggles the spreadsheet mirror ("true"/"false").
const ClaveSheetsSyncEnabled = "sheets_sync_enabled"

// ConfigSistema is one flat key/value setting.
type ConfigSistema struct {
	Key   string `gorm:"column:key;type:varchar(100);primaryKey"`
	Value string `gorm:"column:value;type:text;not null"`
}

func (ConfigSistema) TableName() string { return "config_sistema" }
