package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Field failures come back
// as a *domain.ValidationError keyed by form field.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make(map[string]string, len(ve))
			for _, fe := range ve {
				if _, seen := fields[fe.Field()]; !seen {
					fields[fe.Field()] = fieldError(fe)
				}
			}
			return &domain.ValidationError{Fields: fields}
		}
		return err
	}
	return nil
}

var fieldLabels = map[string]string{
	"email":           "Email",
	"password":        "Password",
	"confirmPassword": "Konfirmasi password",
	"name":            "Nama",
	"ukm":             "UKM",
	"title":           "Judul",
	"description":     "Deskripsi",
	"date":            "Tanggal",
	"time":            "Waktu",
	"location":        "Lokasi",
	"maxParticipants": "Kuota peserta",
	"documentation":   "Link dokumentasi",
	"status":          "Status",
	"role":            "Role",
	"nama_kategori":   "Nama kategori",
}

// fieldError converts a single FieldError into the message shown on the form.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	switch fe.Tag() {
	case "required":
		switch field {
		case "ukm":
			return "UKM harus dipilih"
		case "nama_kategori":
			return "Nama kategori wajib diisi"
		}
		return label + " harus diisi"
	case "email":
		return "Format email tidak valid"
	case "eqfield":
		return "Password tidak cocok"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s minimal %s karakter", label, fe.Param())
		}
		return fmt.Sprintf("%s minimal %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s maksimal %s karakter", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s tidak boleh kurang dari %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s harus salah satu dari: %s", label, fe.Param())
	case "datetime":
		return label + " tidak valid"
	case "url":
		return label + " harus berupa URL"
	default:
		return fmt.Sprintf("%s tidak valid (%s)", label, fe.Tag())
	}
}
