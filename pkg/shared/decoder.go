package shared

import (
	"strings"

	"github.com/go-playground/form"
	"github.com/shopspring/decimal"
)

// Decoder decodes url.Values into tagged structs (`form:"field"`).
var Decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		if len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(strings.TrimSpace(vals[0]))
	}, decimal.Decimal{})
	return d
}
