package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/pkg/errs"
)

const CarrierOther = "other"

type Carrier struct {
	Code    string
	Name    string
	pattern *regexp.Regexp
}

var carriers = map[string]Carrier{
	"india_post":   {Code: "india_post", Name: "India Post", pattern: regexp.MustCompile(`^[A-Z]{2}\d{9}IN$`)},
	"bluedart":     {Code: "bluedart", Name: "Blue Dart", pattern: regexp.MustCompile(`^\d{8,11}$`)},
	"dtdc":         {Code: "dtdc", Name: "DTDC", pattern: regexp.MustCompile(`^[A-Z]\d{8}$`)},
	"delhivery":    {Code: "delhivery", Name: "Delhivery", pattern: regexp.MustCompile(`^\d{10,14}$`)},
	"ecom_express": {Code: "ecom_express", Name: "Ecom Express", pattern: regexp.MustCompile(`^\d{10,12}$`)},
	"xpressbees":   {Code: "xpressbees", Name: "XpressBees", pattern: regexp.MustCompile(`^\d{12,15}$`)},
	"fedex":        {Code: "fedex", Name: "FedEx", pattern: regexp.MustCompile(`^\d{12}$|^\d{15}$`)},
	CarrierOther:   {Code: CarrierOther, Name: "Other", pattern: regexp.MustCompile(`^.{5,50}$`)},
}

func LookupCarrier(code string) (Carrier, bool) {
	c, ok := carriers[strings.ToLower(strings.TrimSpace(code))]
	return c, ok
}

// ValidateTrackingNumber checks the number against the carrier's pattern.
// Carriers outside the table only require a non-empty number.
func ValidateTrackingNumber(carrier, trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	c, ok := LookupCarrier(carrier)
	if !ok {
		return nil
	}
	if !c.pattern.MatchString(trackingNumber) {
		return errs.NewValueIsInvalidErrorWithCause(
			"trackingNumber",
			fmt.Errorf("%q does not match the %s format", trackingNumber, c.Name),
		)
	}
	return nil
}

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTrackingNumber returns RR<unix millis><4 base36 chars>.
func GenerateTrackingNumber(now time.Time) string {
	var b strings.Builder
	b.WriteString("RR")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	for range 4 {
		b.WriteByte(base36Upper[rand.IntN(len(base36Upper))])
	}
	return b.String()
}
