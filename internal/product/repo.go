package product

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
)

const (
	listLimit   = 100
	searchLimit = 50
)

type Repo interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
}

type PostgresRepo struct {
	db  *gorm.DB
	dbm *metrics.DBPool
}

func NewPostgresRepo(db *gorm.DB, dbm *metrics.DBPool) *PostgresRepo {
	return &PostgresRepo{db: db, dbm: dbm}
}

func (p *PostgresRepo) observe(op string, start time.Time) {
	p.dbm.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (p *PostgresRepo) List(ctx context.Context) ([]Product, error) {
	defer p.observe("list", time.Now())

	var products []Product
	res := p.db.WithContext(ctx).Limit(listLimit).Find(&products)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "List")
	}
	return products, nil
}

func (p *PostgresRepo) GetByID(ctx context.Context, id string) (Product, error) {
	defer p.observe("get_by_id", time.Now())

	var product Product
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&product)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return Product{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return Product{}, customErrors.WrapInternal(err, "GetByID")
	}
	return product, nil
}

func (p *PostgresRepo) Search(ctx context.Context, query string) ([]Product, error) {
	defer p.observe("search", time.Now())

	var products []Product
	pattern := "%" + query + "%"
	res := p.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Limit(searchLimit).
		Find(&products)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "Search")
	}
	return products, nil
}
