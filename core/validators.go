package core

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	ptBR_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
	RegCodeLen     = 8
)

var (
	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "{0} deve conter apenas letras, números e sublinhados"
	alphaNumUnderRegex = regexp.MustCompile(`^\w+$`)

	notBlankTag  = "notblank"
	notBlankText = "{0} não pode estar em branco"

	cpfTag   = "cpf"
	cpfText  = "{0} deve conter 11 dígitos"
	cpfRegex = regexp.MustCompile(`^\d{11}$`)

	cepTag   = "cep"
	cepText  = "{0} deve conter 8 dígitos"
	cepRegex = regexp.MustCompile(`^\d{8}$`)

	ufTag   = "uf"
	ufText  = "{0} deve ser a sigla de um estado (ex.: SP)"
	ufRegex = regexp.MustCompile(`^[A-Z]{2}$`)

	isoDateTag      = "isodate"
	isoDateText     = "{0} deve ser uma data no formato AAAA-MM-DD"
	isoDateTimeTag  = "isodatetime"
	isoDateTimeText = "{0} deve ser uma data e hora ISO 8601"

	regCodeTag  = "regcode"
	regCodeText = "{0} deve conter exatamente 8 caracteres"

	semesterTag   = "semester"
	semesterText  = "{0} deve estar no formato AAAA.1 ou AAAA.2"
	semesterRegex = regexp.MustCompile(`^\d{4}\.[12]$`)

	flagTag  = "flag"
	flagText = "{0} deve ser S ou N"

	phoneTag   = "phone"
	phoneText  = "{0} deve ser um telefone válido"
	phoneRegex = regexp.MustCompile(`^\+?[0-9()\-\s]{8,20}$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredIfTag   = "required_if"
	requiredText    = "{0} é obrigatório"
)

// NewValidator returns a validator with the pt_BR translator and every custom tag registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	locale := pt_BR.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator(locale.Locale())
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = ptBR_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	registerCustom(validate, translator, alphaNumUnderTag, alphaNumUnderText, regexValidation(alphaNumUnderRegex))
	registerCustom(validate, translator, notBlankTag, notBlankText, validators.NotBlank)
	registerCustom(validate, translator, cpfTag, cpfText, regexValidation(cpfRegex))
	registerCustom(validate, translator, cepTag, cepText, regexValidation(cepRegex))
	registerCustom(validate, translator, ufTag, ufText, regexValidation(ufRegex))
	registerCustom(validate, translator, isoDateTag, isoDateText, layoutValidation(DateLayout))
	registerCustom(validate, translator, isoDateTimeTag, isoDateTimeText, layoutValidation(DateTimeLayout))
	registerCustom(validate, translator, regCodeTag, regCodeText, regCodeValidation)
	registerCustom(validate, translator, semesterTag, semesterText, regexValidation(semesterRegex))
	registerCustom(validate, translator, flagTag, flagText, flagValidation)
	registerCustom(validate, translator, phoneTag, phoneText, regexValidation(phoneRegex))

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredIfTag, requiredText, true)
}

func registerCustom(validate *validator.Validate, translator ut.Translator, tag, text string, fn validator.Func) {
	_ = validate.RegisterValidation(tag, fn)
	RegisterCustomTranslation(validate, translator, tag, text)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Refiner is implemented by payloads carrying cross-field rules.
type Refiner interface {
	Refine() []FieldError
}

// ValidateStruct runs the field rules of v and, only when all of them pass, its cross-field rules.
func ValidateStruct(validate *validator.Validate, v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return err
	}
	if r, ok := v.(Refiner); ok {
		if flds := r.Refine(); len(flds) > 0 {
			return NewValidationError(ErrInvalidInput, flds...)
		}
	}
	return nil
}

// Custom Global Validators

func regexValidation(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func layoutValidation(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// regCodeValidation accepts opaque registration codes of exactly RegCodeLen non-space characters.
func regCodeValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) != RegCodeLen {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

func flagValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "S" || s == "N"
}
