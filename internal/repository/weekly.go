package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/plan"
)

var ErrNotFound = errors.New("meal entry not found")

// NotFoundError names the id that could not be found.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("meal entry %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// WeeklyRepository stores meal entries in the weekly table.
type WeeklyRepository struct {
	db *gorm.DB
}

func NewWeeklyRepository(db *gorm.DB) *WeeklyRepository {
	return &WeeklyRepository{db: db}
}

// FetchAll returns every entry ordered by position, oldest first within a slot.
func (r *WeeklyRepository) FetchAll(ctx context.Context) ([]models.MealEntry, error) {
	var entries []models.MealEntry
	if err := r.db.WithContext(ctx).Order("position ASC").Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("fetch all meal entries: %w", err)
	}
	return entries, nil
}

// FetchPosition returns the slot currently held by id.
func (r *WeeklyRepository) FetchPosition(ctx context.Context, id uuid.UUID) (int, error) {
	return fetchPosition(r.db.WithContext(ctx), id)
}

// OccupiedBy returns the ids of entries in slot other than exclude.
func (r *WeeklyRepository) OccupiedBy(ctx context.Context, slot int, exclude uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.MealEntry{}).
		Where("position = ? AND id <> ?", slot, exclude).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("check slot %d occupancy: %w", slot, err)
	}
	return ids, nil
}

// UpdatePosition moves id to slot.
func (r *WeeklyRepository) UpdatePosition(ctx context.Context, id uuid.UUID, slot int) error {
	return updatePosition(r.db.WithContext(ctx), id, slot)
}

// SwapPositions exchanges the slots of a and b in one transaction and returns
// their previous slots.
func (r *WeeklyRepository) SwapPositions(ctx context.Context, a, b uuid.UUID) (int, int, error) {
	var posA, posB int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if posA, err = fetchPosition(tx, a); err != nil {
			return err
		}
		if posB, err = fetchPosition(tx, b); err != nil {
			return err
		}
		if err := updatePosition(tx, a, posB); err != nil {
			return err
		}
		return updatePosition(tx, b, posA)
	})
	if err != nil {
		return 0, 0, err
	}
	return posA, posB, nil
}

// ReplaceAll clears the table and inserts the assignments in one transaction.
func (r *WeeklyRepository) ReplaceAll(ctx context.Context, assignments []plan.Assignment) ([]models.MealEntry, error) {
	entries := make([]models.MealEntry, 0, len(assignments))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteAll(tx); err != nil {
			return err
		}
		for _, a := range assignments {
			entry, err := insert(tx, a.URL, a.Slot)
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Ping checks the underlying connection.
func (r *WeeklyRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func fetchPosition(db *gorm.DB, id uuid.UUID) (int, error) {
	var entry models.MealEntry
	err := db.Select("id", "position").Where("id = ?", id).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &NotFoundError{ID: id}
	}
	if err != nil {
		return 0, fmt.Errorf("fetch position of %s: %w", id, err)
	}
	return entry.Position, nil
}

// updatePosition is the only place positions are written after insert. It
// writes position, day_name and meal_type together.
func updatePosition(db *gorm.DB, id uuid.UUID, slot int) error {
	day, meal, err := plan.SlotToDayMeal(slot)
	if err != nil {
		return err
	}
	res := db.Model(&models.MealEntry{}).Where("id = ?", id).Updates(map[string]any{
		"position":  slot,
		"day_name":  string(day),
		"meal_type": string(meal),
	})
	if res.Error != nil {
		return fmt.Errorf("update position of %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func insert(db *gorm.DB, link string, slot int) (*models.MealEntry, error) {
	day, meal, err := plan.SlotToDayMeal(slot)
	if err != nil {
		return nil, err
	}
	entry := &models.MealEntry{
		Link:     &link,
		Position: slot,
		DayName:  string(day),
		MealType: string(meal),
	}
	if err := db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert meal entry at slot %d: %w", slot, err)
	}
	return entry, nil
}

func deleteAll(db *gorm.DB) error {
	if err := db.Where("position > ?", -1).Delete(&models.MealEntry{}).Error; err != nil {
		return fmt.Errorf("delete meal entries: %w", err)
	}
	return nil
}
