package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex bkg_01HZX3Q7P5M6Y0D8W2K1TQ4B9C
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns an uppercase short ID of exactly length
// characters including the prefix, or "" when the prefix does not fit.
// Generator output shorter than the remaining room is topped up from a
// second draw so coupon codes keep a stable width.
func GenerateShortIDWithPrefix(prefix string, length int) string {
	once.Do(initializeSID)

	availableLen := length - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	var b strings.Builder
	for b.Len() < availableLen {
		id, err := sidGenerator.Generate()
		if err != nil {
			return ""
		}
		id = strings.NewReplacer("-", "", "_", "").Replace(id)
		b.WriteString(id)
	}

	return strings.ToUpper(prefix + b.String()[:availableLen])
}

const (
	UUID_PREFIX_EVENT       = "evt"
	UUID_PREFIX_TICKET_TYPE = "tkt"
	UUID_PREFIX_ADD_ON      = "addon"
	UUID_PREFIX_FIELD       = "cf"
	UUID_PREFIX_COUPON      = "coupon"
	UUID_PREFIX_BOOKING     = "bkg"
	UUID_PREFIX_ATTENDEE    = "att"
	UUID_PREFIX_SESSION     = "sess"
)

const (
	// CouponCodeLength is the width of generated coupon codes
	CouponCodeLength = 8
)
