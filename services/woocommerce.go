// services/woocommerce.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"startech-backend/models"
	"startech-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const wooPageSize = 100

// WooProduct is the slice of the WooCommerce product payload we consume.
// WooCommerce returns prices as strings.
type WooProduct struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	RegularPrice string `json:"regular_price"`
	Description  string `json:"description"`
}

// WooClient talks to the WooCommerce REST API with Basic Auth.
type WooClient struct {
	BaseURL string
	key     string
	secret  string
	http    *http.Client
}

func NewWooClient(baseURL, key, secret string) *WooClient {
	return &WooClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		secret:  secret,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

func NewWooClientFromEnv() *WooClient {
	return NewWooClient(
		os.Getenv("WOOCOMMERCE_URL"),
		os.Getenv("WOOCOMMERCE_CONSUMER_KEY"),
		os.Getenv("WOOCOMMERCE_CONSUMER_SECRET"),
	)
}

func (c *WooClient) Configured() bool {
	return c.BaseURL != "" && c.key != ""
}

func (c *WooClient) get(path string, out interface{}) error {
	if !c.Configured() {
		return errors.New("WooCommerce nuk është konfiguruar")
	}

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.key, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("WooCommerce ktheu statusin %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *WooClient) ListProducts(page int) ([]WooProduct, error) {
	var products []WooProduct
	path := fmt.Sprintf("/wp-json/wc/v3/products?per_page=%d&page=%d", wooPageSize, page)
	if err := c.get(path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *WooClient) GetProduct(id int64) (*WooProduct, error) {
	var product WooProduct
	if err := c.get(fmt.Sprintf("/wp-json/wc/v3/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// WooSyncService mirrors the WooCommerce catalog into the products table.
type WooSyncService struct {
	db     *gorm.DB
	client *WooClient
	cron   *cron.Cron
}

func NewWooSyncService(db *gorm.DB, client *WooClient) *WooSyncService {
	return &WooSyncService{db: db, client: client}
}

// SyncProducts walks the paginated product list until a short page and upserts
// each product by its WooCommerce id. Per-product failures are skipped.
func (s *WooSyncService) SyncProducts() (int, error) {
	page := 1
	synced := 0
	for {
		items, err := s.client.ListProducts(page)
		if err != nil {
			return synced, err
		}
		for _, wp := range items {
			if err := s.upsert(wp); err != nil {
				slog.Warn("product sync skipped", "wooId", wp.ID, "error", err)
				continue
			}
			synced++
		}
		if len(items) < wooPageSize {
			return synced, nil
		}
		page++
	}
}

func (s *WooSyncService) upsert(wp WooProduct) error {
	price := utils.ToFloat(wp.Price)
	if price == 0 {
		price = utils.ToFloat(wp.RegularPrice)
	}

	var existing models.Product
	err := s.db.Where("woo_id = ?", wp.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wooID := wp.ID
		return s.db.Create(&models.Product{
			WooID:       &wooID,
			Name:        wp.Name,
			Description: wp.Description,
			BasePrice:   price,
			Source:      models.SourceWooCommerce,
			IsActive:    true,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.Name = wp.Name
	existing.Description = wp.Description
	existing.BasePrice = price
	return s.db.Save(&existing).Error
}

// RefreshProduct re-fetches a single linked product and updates its price.
func (s *WooSyncService) RefreshProduct(p *models.Product) error {
	if p.WooID == nil {
		return errors.New("produkti nuk është i lidhur me WooCommerce")
	}
	wp, err := s.client.GetProduct(*p.WooID)
	if err != nil {
		return err
	}
	return s.upsert(*wp)
}

// StartScheduler runs the sync on a cron schedule (WOO_SYNC_SCHEDULE,
// default daily at 03:00). Failures are logged and swallowed.
func (s *WooSyncService) StartScheduler() {
	if !s.client.Configured() {
		slog.Info("WooCommerce sync disabled, no credentials configured")
		return
	}

	spec := os.Getenv("WOO_SYNC_SCHEDULE")
	if spec == "" {
		spec = "0 3 * * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		n, err := s.SyncProducts()
		if err != nil {
			slog.Warn("scheduled product sync failed", "synced", n, "error", err)
			return
		}
		slog.Info("scheduled product sync finished", "synced", n)
	}); err != nil {
		slog.Warn("invalid WOO_SYNC_SCHEDULE", "schedule", spec, "error", err)
		return
	}
	c.Start()
	s.cron = c
	slog.Info("WooCommerce sync scheduler started", "schedule", spec)
}
