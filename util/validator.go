package util

import (
	"math"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return finite(lat) && lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return finite(lon) && lon >= -180 && lon <= 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
