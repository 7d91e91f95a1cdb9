// internal/config/validator.go
//
// Validation rules for the loaded configuration.
//
// Context
// -------
// loader.go calls validateStruct after defaults and path anchoring.  Besides
// the stock tags, two rules are specific to the renderer:
//
//   - `csrfkey`: forms.csrf_key must decode as base64url to at least 32
//     bytes.  A short key would otherwise be ignored at startup and every
//     process would mint its own, breaking tokens behind a load balancer.
//   - Database: a mysql DSN must parse with the driver's own parser, so a
//     typo fails the boot rather than the first lead.
//
// Errors are flattened into one message listing every failed field.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("csrfkey", func(fl validator.FieldLevel) bool {
		b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(fl.Field().String(), "="))
		return err == nil && len(b) >= 32
	})
	val.RegisterStructValidation(func(sl validator.StructLevel) {
		db := sl.Current().Interface().(Database)
		if db.Driver != "mysql" || db.DSN == "" {
			return
		}
		if _, err := mysql.ParseDSN(db.DSN); err != nil {
			sl.ReportError(db.DSN, "DSN", "dsn", "mysqldsn", "")
		}
	}, Database{})
	return val
}

// validateStruct returns nil or one error naming every failed rule.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	var verrs validator.ValidationErrors
	if err == nil || !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
