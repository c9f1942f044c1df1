// Package model declares the persisted tables.
package model

import "time"

// Conversion sources.
const (
	SOURCE_BODY = "body"
	SOURCE_URL  = "url"
)

// ConversionRecord is one completed conversion.
type ConversionRecord struct {
	ID         int32     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Source     string    `gorm:"column:source;type:varchar(16)" json:"source"`
	SourceRef  string    `gorm:"column:source_ref;type:varchar(1024)" json:"sourceRef"`
	InputSize  int       `gorm:"column:input_size" json:"inputSize"`
	OutputSize int       `gorm:"column:output_size" json:"outputSize"`
	DurationMs int64     `gorm:"column:duration_ms" json:"durationMs"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
}

// TableName implements gorm's Tabler.
func (ConversionRecord) TableName() string {
	return "conversion_record"
}
