package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// GenerateInvoiceNumber builds "INV-YYYYMM-XXXX" with a random 4-digit
// suffix. Callers must retry on collision; the suffix alone is not
// globally unique.
func GenerateInvoiceNumber() string {
	now := time.Now()
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("INV-%04d%02d-%04d", now.Year(), int(now.Month()), suffix)
}

// GenerateQuotationID builds "QUO-XXXXXX" from the trailing six digits
// of the current unix-millisecond clock. Same caveat: retry on
// collision.
func GenerateQuotationID() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "QUO-" + ms[len(ms)-6:]
}
