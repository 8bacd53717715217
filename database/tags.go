package database

import (
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// ListTags returns every known tag string.
func (s *Store) ListTags() ([]string, error) {
	var tags []string
	result := s.db.Model(&Tag{}).Order("tag").Pluck("tag", &tags)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "listing tags")
	}
	return tags, nil
}

// AddTags upserts tag strings into the registry. Already-known tags are
// skipped silently.
func (s *Store) AddTags(tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	records := make([]Tag, 0, len(tags))
	for _, tag := range tags {
		records = append(records, Tag{Tag: tag})
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records)
	return errors.Wrap(result.Error, "upserting tags")
}
