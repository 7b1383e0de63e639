package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"course-manager/core/catalog"
	"course-manager/core/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const metaID = 1

// CollectionMeta holds the single version row.
type CollectionMeta struct {
	ID      uint `gorm:"primaryKey;autoIncrement:false"`
	Version int64
}

func (CollectionMeta) TableName() string { return "collection_meta" }

// CourseRecord stores one course document in list order.
type CourseRecord struct {
	ID         string `gorm:"primaryKey;size:191"`
	Position   int    `gorm:"index"`
	OwnerEmail string `gorm:"size:255;index"`
	Payload    datatypes.JSON
}

func (CourseRecord) TableName() string { return "course_records" }

// UserRecord stores one user's bookkeeping.
type UserRecord struct {
	Email   string `gorm:"primaryKey;size:191"`
	Payload datatypes.JSON
}

func (UserRecord) TableName() string { return "user_records" }

// CategoryRecord stores one category name in list order.
type CategoryRecord struct {
	Position int `gorm:"primaryKey;autoIncrement:false"`
	Name     string
}

func (CategoryRecord) TableName() string { return "category_records" }

// Tables lists the expected columns of every table, keyed by table name.
func Tables() map[string][]string {
	return map[string][]string{
		CollectionMeta{}.TableName(): {"id", "version"},
		CourseRecord{}.TableName():   {"id", "position", "owner_email", "payload"},
		UserRecord{}.TableName():     {"email", "payload"},
		CategoryRecord{}.TableName(): {"position", "name"},
	}
}

// SQLStore keeps the collection in a relational database.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an open connection. Call Migrate before first use.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates the tables and the version row.
func (s *SQLStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&CollectionMeta{}, &CourseRecord{}, &UserRecord{}, &CategoryRecord{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	meta := CollectionMeta{ID: metaID}
	if err := db.FirstOrCreate(&meta, CollectionMeta{ID: metaID}).Error; err != nil {
		return fmt.Errorf("init version row: %w", err)
	}
	return nil
}

// MissingColumns reports expected columns absent from the live schema, per table.
func (s *SQLStore) MissingColumns() (map[string][]string, error) {
	out := map[string][]string{}
	for table, cols := range Tables() {
		missing, err := database.MissingColumns(s.db, table, cols)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			out[table] = missing
		}
	}
	return out, nil
}

func (s *SQLStore) Load(ctx context.Context) (*catalog.Collection, error) {
	c := &catalog.Collection{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meta CollectionMeta
		err := tx.First(&meta, metaID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("read version: %w", err)
		default:
			c.Version = meta.Version
		}

		var courses []CourseRecord
		if err := tx.Order("position").Find(&courses).Error; err != nil {
			return fmt.Errorf("read courses: %w", err)
		}
		c.Courses = make([]catalog.Course, 0, len(courses))
		for _, rec := range courses {
			var course catalog.Course
			if err := json.Unmarshal(rec.Payload, &course); err != nil {
				return fmt.Errorf("decode course %s: %w", rec.ID, err)
			}
			c.Courses = append(c.Courses, course)
		}

		var users []UserRecord
		if err := tx.Find(&users).Error; err != nil {
			return fmt.Errorf("read users: %w", err)
		}
		c.Users = make(map[string]*catalog.User, len(users))
		for _, rec := range users {
			u := &catalog.User{}
			if err := json.Unmarshal(rec.Payload, u); err != nil {
				return fmt.Errorf("decode user %s: %w", rec.Email, err)
			}
			c.Users[rec.Email] = u
		}

		var categories []CategoryRecord
		if err := tx.Order("position").Find(&categories).Error; err != nil {
			return fmt.Errorf("read categories: %w", err)
		}
		for _, rec := range categories {
			c.Categories = append(c.Categories, rec.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

func (s *SQLStore) Save(ctx context.Context, c *catalog.Collection) error {
	courses := make([]CourseRecord, 0, len(c.Courses))
	for i := range c.Courses {
		payload, err := json.Marshal(&c.Courses[i])
		if err != nil {
			return fmt.Errorf("encode course %s: %w", c.Courses[i].ID, err)
		}
		courses = append(courses, CourseRecord{
			ID:         c.Courses[i].ID,
			Position:   i,
			OwnerEmail: c.Courses[i].OwnerEmail,
			Payload:    datatypes.JSON(payload),
		})
	}
	users := make([]UserRecord, 0, len(c.Users))
	for email, u := range c.Users {
		payload, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode user %s: %w", email, err)
		}
		users = append(users, UserRecord{Email: email, Payload: datatypes.JSON(payload)})
	}
	categories := make([]CategoryRecord, 0, len(c.Categories))
	for i, name := range c.Categories {
		categories = append(categories, CategoryRecord{Position: i, Name: name})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CollectionMeta{}).
			Where("id = ? AND version = ?", metaID, c.Version).
			Update("version", c.Version+1)
		if res.Error != nil {
			return fmt.Errorf("bump version: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrStaleSnapshot
		}

		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&CourseRecord{}, &UserRecord{}, &CategoryRecord{}} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear table: %w", err)
			}
		}
		if len(courses) > 0 {
			if err := tx.CreateInBatches(courses, 100).Error; err != nil {
				return fmt.Errorf("write courses: %w", err)
			}
		}
		if len(users) > 0 {
			if err := tx.CreateInBatches(users, 100).Error; err != nil {
				return fmt.Errorf("write users: %w", err)
			}
		}
		if len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return fmt.Errorf("write categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.Version++
	return nil
}
