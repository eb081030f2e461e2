package repository

import (
	"context"

	"gorm.io/gorm"

	"tourcatalog/internal/model"
)

// MetroStationRepository defines metro station persistence operations.
type MetroStationRepository interface {
	List(ctx context.Context) ([]model.MetroStation, error)
	FindByID(ctx context.Context, id uint) (*model.MetroStation, error)
	FindByName(ctx context.Context, name string) (*model.MetroStation, error)
	Create(ctx context.Context, station *model.MetroStation) error
	Update(ctx context.Context, station *model.MetroStation) error
	// Delete removes the station and detaches it from attractions.
	Delete(ctx context.Context, id uint) error
}

type metroStationRepository struct {
	db *gorm.DB
}

// NewMetroStationRepository creates a new metro station repository.
func NewMetroStationRepository(db *gorm.DB) MetroStationRepository {
	return &metroStationRepository{db: db}
}

func (r *metroStationRepository) List(ctx context.Context) ([]model.MetroStation, error) {
	var stations []model.MetroStation
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

func (r *metroStationRepository) FindByID(ctx context.Context, id uint) (*model.MetroStation, error) {
	var station model.MetroStation
	if err := r.db.WithContext(ctx).First(&station, id).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *metroStationRepository) FindByName(ctx context.Context, name string) (*model.MetroStation, error) {
	var station model.MetroStation
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&station).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *metroStationRepository) Create(ctx context.Context, station *model.MetroStation) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *metroStationRepository) Update(ctx context.Context, station *model.MetroStation) error {
	return r.db.WithContext(ctx).Save(station).Error
}

func (r *metroStationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Attraction{}).
			Where("metro_station_id = ?", id).
			Update("metro_station_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.MetroStation{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
