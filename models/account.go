package models

import (
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Account struct {
  ID          string            `gorm:"size:20;primaryKey"`
  Username    string            `gorm:"size:50;not null;uniqueIndex"`
  Agent       string            `gorm:"size:255;not null"`
  Cookie      string            `gorm:"size:4000;not null"`
  Proxy       string            `gorm:"size:255;not null"`
  Data        datatypes.JSONMap `gorm:"not null"`
  FlushedAt   int64             `gorm:"not null"`
  UnblockedAt int64             `gorm:"not null"`
  Timestamp   int64             `gorm:"not null;index:idx_accounts,priority:2"`
  Status      int               `gorm:"not null;index:idx_accounts,priority:1"`
  CreatedAt   time.Time         `gorm:"not null"`
  UpdatedAt   time.Time         `gorm:"not null"`
}

func (m *Account) TableName() string {
  return "accounts"
}

func AutoMigrate(db *gorm.DB) error {
  return db.AutoMigrate(
    &Account{},
  )
}
