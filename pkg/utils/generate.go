package utils

import (
	"strings"

	"github.com/segmentio/ksuid"
)

// BookingReference prefixes the ksuid so references are recognizable
// on printed receipts.
func BookingReference() string {
	return "BK-" + strings.ToUpper(ksuid.New().String()[:12])
}

func ReceiptReference() string {
	return "RC-" + strings.ToUpper(ksuid.New().String()[:12])
}
