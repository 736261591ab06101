package agent

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"marketplace/internal/pkg/errs"
)

var pinCodePattern = regexp.MustCompile(`^\d{6}$`)

type ServiceArea struct {
	district string
	city     string
	pinCodes []string
}

func NewServiceArea(district, city string, pinCodes []string) (ServiceArea, error) {
	area := ServiceArea{
		district: strings.TrimSpace(district),
		city:     strings.TrimSpace(city),
	}

	var pinErrs []error
	for _, pin := range pinCodes {
		pin = strings.TrimSpace(pin)
		if !pinCodePattern.MatchString(pin) {
			pinErrs = append(pinErrs, errs.NewValueIsInvalidErrorWithCause("pinCode", fmt.Errorf("%q is not a 6 digit pin code", pin)))
			continue
		}
		if !slices.Contains(area.pinCodes, pin) {
			area.pinCodes = append(area.pinCodes, pin)
		}
	}
	if area.district == "" && len(area.pinCodes) == 0 && len(pinErrs) == 0 {
		pinErrs = append(pinErrs, errs.NewValueIsRequiredError("district or pinCodes"))
	}
	if err := errors.Join(pinErrs...); err != nil {
		return ServiceArea{}, err
	}

	return area, nil
}

func (a ServiceArea) District() string {
	return a.district
}

func (a ServiceArea) City() string {
	return a.city
}

func (a ServiceArea) PinCodes() []string {
	return slices.Clone(a.pinCodes)
}

func (a ServiceArea) Covers(pinCode string) bool {
	return slices.Contains(a.pinCodes, strings.TrimSpace(pinCode))
}
