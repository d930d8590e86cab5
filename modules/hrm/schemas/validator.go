package schemas

import (
	"embed"
	"fmt"
	"net/url"
	"path"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/go-playground/form"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/iota-uz/hr-console/pkg/crud"
)

//go:embed locales/*.toml
var LocaleFiles embed.FS

// Validator turns a Draft into a DTO and the DTO's validation failures into
// messages keyed by Draft field name.
type Validator struct {
	validate  *validator.Validate
	decoder   *form.Decoder
	localizer *i18n.Localizer
	trans     ut.Translator
}

func LoadBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	entries, err := LocaleFiles.ReadDir("locales")
	if err != nil {
		return nil, errors.Wrap(err, "read locales")
	}
	for _, entry := range entries {
		file := path.Join("locales", entry.Name())
		b, err := LocaleFiles.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", file)
		}
		if _, err := bundle.ParseMessageFileBytes(b, file); err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}
	}
	return bundle, nil
}

func NewValidator() (*Validator, error) {
	bundle, err := LoadBundle()
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	custom := map[string]validator.Func{
		"decimal":     isDecimal,
		"positive":    isPositive,
		"nonnegative": isNonNegative,
		"fraction":    isFraction,
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, errors.Wrapf(err, "register %s", tag)
		}
	}

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, errors.Wrap(err, "register translations")
	}

	return &Validator{
		validate:  validate,
		decoder:   form.NewDecoder(),
		localizer: i18n.NewLocalizer(bundle, "en"),
		trans:     trans,
	}, nil
}

// Decode fills dto from draft. Values are trimmed.
func (v *Validator) Decode(draft crud.Draft, dto any) error {
	values := url.Values{}
	for field := range draft {
		values.Set(field, draft.Get(field))
	}
	return v.decoder.Decode(dto, values)
}

// Check decodes and validates dto. resource selects the message namespace
// (Employees, Departments, ...).
func (v *Validator) Check(resource string, draft crud.Draft, dto any) crud.ValidationErrors {
	errs := crud.ValidationErrors{}
	if err := v.Decode(draft, dto); err != nil {
		errs[crud.GeneralKey] = err.Error()
		return errs
	}
	err := v.validate.Struct(dto)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs[crud.GeneralKey] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = v.message(resource, fe)
	}
	return errs
}

func (v *Validator) message(resource string, fe validator.FieldError) string {
	if msg, err := v.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: fmt.Sprintf("%s.Errors.%s.%s", resource, fe.StructField(), fe.Tag()),
	}); err == nil {
		return msg
	}
	label, err := v.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: fmt.Sprintf("%s.Fields.%s", resource, fe.StructField()),
	})
	if err != nil {
		label = fe.Field()
	}
	msg, err := v.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: fmt.Sprintf("ValidationErrors.%s", fe.Tag()),
		TemplateData: map[string]string{
			"Field": label,
			"Param": fe.Param(),
		},
	})
	if err != nil {
		return fe.Translate(v.trans)
	}
	return msg
}

// Localize renders a message that is not tied to a validator tag.
func (v *Validator) Localize(id string, data map[string]string) string {
	msg, err := v.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

// FormatAmount renders an amount with English grouping.
func (v *Validator) FormatAmount(d decimal.Decimal) string {
	digits := uint64(0)
	if !d.Equal(d.Truncate(0)) {
		digits = 2
	}
	f, _ := d.Float64()
	return v.trans.FmtNumber(f, digits)
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func isPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func isNonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func isFraction(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative() && d.LessThan(decimal.NewFromInt(1))
}
