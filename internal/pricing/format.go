package pricing

import (
	"github.com/bojanz/currency"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// FreeLabel is rendered instead of a zero amount by FormatOrFree
const FreeLabel = "Free"

// Formatter renders amounts for summaries and receipts
type Formatter struct {
	defaultCurrency string
	defaultLocale   language.Tag
	logger          *logger.Logger
}

// NewFormatter builds a formatter with fallbacks for unknown currencies and
// locales. Invalid defaults fall back to INR and en-US.
func NewFormatter(defaultCurrency, defaultLocale string, log *logger.Logger) *Formatter {
	code := types.NormalizeCurrency(defaultCurrency)
	if !currency.IsValid(code) {
		code = types.DefaultCurrency
	}
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.MustParse(types.DefaultLocale)
	}
	if log == nil {
		log = logger.L
	}
	return &Formatter{defaultCurrency: code, defaultLocale: tag, logger: log}
}

// Format renders amount with the CLDR currency pattern of the locale, e.g.
// "$1,234.50" for USD in en-US and "1.234,50 €" for EUR in de-DE. The amount
// is rounded half away from zero to the currency's minor units first. Unknown
// currency codes are logged and rendered in the default currency.
func (f *Formatter) Format(amount decimal.Decimal, currencyCode, locale string) string {
	code := f.currency(currencyCode)
	tag := f.tag(locale)

	digits, _ := currency.GetDigits(code)
	rounded := amount.Round(int32(digits))

	// a rounded zero has no sign, so -0.001 renders as 0.00
	value, err := currency.NewAmount(rounded.StringFixed(int32(digits)), code)
	if err != nil {
		f.logger.Errorw("failed to format amount",
			"amount", amount.String(),
			"currency", code,
			"error", err)
		return rounded.StringFixed(int32(digits)) + " " + code
	}

	formatter := currency.NewFormatter(currency.NewLocale(tag.String()))
	formatter.MinDigits = digits
	formatter.MaxDigits = digits
	return formatter.Format(value)
}

// FormatOrFree returns FreeLabel for a zero amount and Format otherwise
func (f *Formatter) FormatOrFree(amount decimal.Decimal, currencyCode, locale string) string {
	if amount.IsZero() {
		return FreeLabel
	}
	return f.Format(amount, currencyCode, locale)
}

// FormatBreakdown renders the display amounts of a breakdown
func (f *Formatter) FormatBreakdown(b *Breakdown, locale string) FormattedBreakdown {
	out := FormattedBreakdown{
		NetAmount: f.FormatOrFree(b.NetAmount, b.Currency, locale),
		Subtotal:  f.FormatOrFree(b.Subtotal, b.Currency, locale),
		Total:     f.FormatOrFree(b.Total, b.Currency, locale),
	}
	if b.ShowDiscount() {
		out.Discount = f.Format(b.Discount, b.Currency, locale)
	}
	if b.ShowTax {
		out.TaxAmount = f.Format(b.TaxAmount, b.Currency, locale)
	}
	return out
}

// FormattedBreakdown holds display strings; empty fields are not rendered
type FormattedBreakdown struct {
	NetAmount string `json:"net_amount"`
	Discount  string `json:"discount,omitempty"`
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"tax_amount,omitempty"`
	Total     string `json:"total"`
}

func (f *Formatter) currency(code string) string {
	normalized := types.NormalizeCurrency(code)
	if !currency.IsValid(normalized) {
		f.logger.Warnw("unrecognized currency, using default",
			"currency", code,
			"default_currency", f.defaultCurrency)
		return f.defaultCurrency
	}
	return normalized
}

func (f *Formatter) tag(locale string) language.Tag {
	if locale == "" {
		return f.defaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		f.logger.Warnw("unrecognized locale, using default",
			"locale", locale,
			"default_locale", f.defaultLocale.String())
		return f.defaultLocale
	}
	return tag
}
