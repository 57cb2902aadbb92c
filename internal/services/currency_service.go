package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// defaultCurrencies is the reference set seeded on first boot. Codes follow
// ISO 4217; the set matches what the mobile clients ship with.
var defaultCurrencies = []models.Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "EUR", Name: "Euro", Symbol: "€", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "GBP", Name: "British Pound", Symbol: "£", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "VND", Name: "Vietnamese Dong", Symbol: "₫", DisplayType: models.CurrencyDisplaySuffix},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩", DisplayType: models.CurrencyDisplayPrefix},
	{Code: "SEK", Name: "Swedish Krona", Symbol: "kr", DisplayType: models.CurrencyDisplaySuffix},
	{Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", DisplayType: models.CurrencyDisplaySuffix},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿", DisplayType: models.CurrencyDisplayPrefix},
}

type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// ListCurrencies returns all known currencies ordered by code.
func (s *currencyService) ListCurrencies() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("code ASC").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}

// GetCurrencyByCode retrieves a currency by its ISO 4217 code.
func (s *currencyService) GetCurrencyByCode(code string) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.Where("code = ?", strings.ToUpper(code)).First(&currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// SeedDefaults inserts the reference currency set, skipping codes that
// already exist. Safe to call on every startup.
func (s *currencyService) SeedDefaults() error {
	seed := make([]models.Currency, len(defaultCurrencies))
	copy(seed, defaultCurrencies)
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
